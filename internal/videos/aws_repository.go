package videos

import (
	"context"
	"io"
	"time"

	"github.com/emosense/video-sentiment-backend/internal/models"
)

type AWSRepository interface {
	PutObject(ctx context.Context, input *models.UploadObject) (string, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	PresignObject(ctx context.Context, key string, expiry time.Duration) (string, error)
	RemoveObject(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
