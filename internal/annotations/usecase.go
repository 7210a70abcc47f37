package annotations

import (
	"context"

	"github.com/emosense/video-sentiment-backend/internal/models"
)

type UseCase interface {
	CreateAnnotation(ctx context.Context, videoID string, annotation *models.Annotation) (*models.Annotation, error)
	ListAnnotations(ctx context.Context, videoID string) ([]*models.Annotation, error)
	UpdateAnnotation(ctx context.Context, videoID, annotationID string, annotation *models.Annotation) (*models.Annotation, error)
	DeleteAnnotation(ctx context.Context, videoID, annotationID string) error
	GetStats(ctx context.Context, videoID string) (*models.AnnotationStats, error)
}
