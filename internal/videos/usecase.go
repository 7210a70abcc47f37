package videos

import (
	"context"

	"github.com/emosense/video-sentiment-backend/internal/models"
)

type UseCase interface {
	UploadVideo(ctx context.Context, input *models.VideoUploadInput) (*models.Video, error)
	StartProcessing(ctx context.Context, videoID string) (*models.AnalysisJob, error)
	GetJobStatus(ctx context.Context, videoID, jobID string) (*models.JobProgress, error)
	GetResults(ctx context.Context, videoID string) (*models.VideoResults, error)
	GetHistory(ctx context.Context) ([]*models.VideoHistoryItem, error)
	GetDownloadURL(ctx context.Context, videoID string) (string, error)
}

// Processor runs one video through the analysis pipeline to a terminal job
// state. Implemented by pipeline.Orchestrator.
type Processor interface {
	Process(ctx context.Context, video *models.Video, jobID string)
}
