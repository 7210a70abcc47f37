package annotations

import (
	"context"

	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/pkg/errors"
)

var ErrAnnotationNotFound = errors.New("annotation not found")

type Repository interface {
	Create(ctx context.Context, annotation *models.Annotation) (*models.Annotation, error)
	GetByVideo(ctx context.Context, videoID string) ([]*models.Annotation, error)
	GetByID(ctx context.Context, annotationID string) (*models.Annotation, error)
	Update(ctx context.Context, annotation *models.Annotation) (*models.Annotation, error)
	Delete(ctx context.Context, videoID, annotationID string) error
	CountByType(ctx context.Context, videoID string) (moments, intervals int64, err error)
	LabelHistogram(ctx context.Context, videoID string) (map[string]int64, error)
	SentimentBreakdown(ctx context.Context, videoID string) ([]*models.EmotionShare, error)
}
