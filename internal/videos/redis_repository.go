package videos

import (
	"context"

	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/pkg/errors"
)

// ErrProgressNotCached means the hot cache has no entry for a job; callers
// fall back to the durable job record.
var ErrProgressNotCached = errors.New("job progress not cached")

type RedisRepository interface {
	SetJobProgress(ctx context.Context, jobID string, progress *models.JobProgress) error
	GetJobProgress(ctx context.Context, jobID string) (*models.JobProgress, error)
	Ping(ctx context.Context) error
}
