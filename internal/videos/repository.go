package videos

import (
	"context"

	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/pkg/errors"
)

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrJobNotFound   = errors.New("job not found")
)

type Repository interface {
	CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error)
	GetVideoByID(ctx context.Context, videoID string) (*models.Video, error)
	MarkVideoProcessed(ctx context.Context, videoID, url, thumbnailURL string) error
	ListProcessedVideos(ctx context.Context) ([]*models.VideoHistoryItem, error)

	CreateJob(ctx context.Context, job *models.AnalysisJob) error
	GetJobByID(ctx context.Context, jobID string) (*models.AnalysisJob, error)
	UpdateJobProgress(ctx context.Context, jobID string, progress int) error
	CompleteJob(ctx context.Context, jobID string) error
	FailJob(ctx context.Context, jobID, message string) error

	ReplaceSentiments(ctx context.Context, videoID string, samples []*models.SentimentSample) error
	GetSentimentsByVideo(ctx context.Context, videoID string) ([]*models.SentimentSample, error)
}
