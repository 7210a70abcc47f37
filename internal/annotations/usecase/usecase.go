package usecase

import (
	"context"
	"fmt"

	"github.com/emosense/video-sentiment-backend/internal/annotations"
	"github.com/emosense/video-sentiment-backend/internal/config"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/emosense/video-sentiment-backend/pkg/logger"
	"github.com/emosense/video-sentiment-backend/pkg/utils"
	"github.com/google/uuid"
)

type annotationUC struct {
	cfg            *config.Config
	annotationRepo annotations.Repository
	videoRepo      videos.Repository
	logger         logger.Logger
}

func NewAnnotationUseCase(
	cfg *config.Config,
	annotationRepo annotations.Repository,
	videoRepo videos.Repository,
	log logger.Logger,
) annotations.UseCase {
	return &annotationUC{
		cfg:            cfg,
		annotationRepo: annotationRepo,
		videoRepo:      videoRepo,
		logger:         log,
	}
}

func (a *annotationUC) CreateAnnotation(ctx context.Context, videoID string, annotation *models.Annotation) (*models.Annotation, error) {
	video, err := a.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	annotation.AnnotationID = uuid.New().String()
	annotation.VideoID = video.VideoID
	if annotation.Color == "" {
		annotation.Color = models.DefaultAnnotationColor
	}
	if err := utils.ValidateStruct(ctx, annotation); err != nil {
		a.logger.Errorf("CreateAnnotation - ValidateStruct error: %v", err)
		return nil, fmt.Errorf("invalid input: %v", err)
	}
	if err := validateTimestamps(annotation, video.Duration); err != nil {
		return nil, err
	}

	created, err := a.annotationRepo.Create(ctx, annotation)
	if err != nil {
		a.logger.Errorf("CreateAnnotation - Create error: %v", err)
		return nil, err
	}
	return created, nil
}

func (a *annotationUC) ListAnnotations(ctx context.Context, videoID string) ([]*models.Annotation, error) {
	if _, err := a.videoRepo.GetVideoByID(ctx, videoID); err != nil {
		return nil, err
	}
	return a.annotationRepo.GetByVideo(ctx, videoID)
}

func (a *annotationUC) UpdateAnnotation(ctx context.Context, videoID, annotationID string, annotation *models.Annotation) (*models.Annotation, error) {
	video, err := a.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	existing, err := a.annotationRepo.GetByID(ctx, annotationID)
	if err != nil {
		return nil, err
	}
	if existing.VideoID != video.VideoID {
		return nil, annotations.ErrAnnotationNotFound
	}

	annotation.AnnotationID = existing.AnnotationID
	annotation.VideoID = existing.VideoID
	annotation.CreatedAt = existing.CreatedAt
	if annotation.Color == "" {
		annotation.Color = models.DefaultAnnotationColor
	}
	if err := utils.ValidateStruct(ctx, annotation); err != nil {
		a.logger.Errorf("UpdateAnnotation - ValidateStruct error: %v", err)
		return nil, fmt.Errorf("invalid input: %v", err)
	}
	if err := validateTimestamps(annotation, video.Duration); err != nil {
		return nil, err
	}

	updated, err := a.annotationRepo.Update(ctx, annotation)
	if err != nil {
		a.logger.Errorf("UpdateAnnotation - Update error: %v", err)
		return nil, err
	}
	return updated, nil
}

func (a *annotationUC) DeleteAnnotation(ctx context.Context, videoID, annotationID string) error {
	if _, err := a.videoRepo.GetVideoByID(ctx, videoID); err != nil {
		return err
	}
	return a.annotationRepo.Delete(ctx, videoID, annotationID)
}

func (a *annotationUC) GetStats(ctx context.Context, videoID string) (*models.AnnotationStats, error) {
	if _, err := a.videoRepo.GetVideoByID(ctx, videoID); err != nil {
		return nil, err
	}
	moments, intervals, err := a.annotationRepo.CountByType(ctx, videoID)
	if err != nil {
		a.logger.Errorf("GetStats - CountByType error: %v", err)
		return nil, err
	}
	labels, err := a.annotationRepo.LabelHistogram(ctx, videoID)
	if err != nil {
		a.logger.Errorf("GetStats - LabelHistogram error: %v", err)
		return nil, err
	}
	emotions, err := a.annotationRepo.SentimentBreakdown(ctx, videoID)
	if err != nil {
		a.logger.Errorf("GetStats - SentimentBreakdown error: %v", err)
		return nil, err
	}
	return &models.AnnotationStats{
		Total:     moments + intervals,
		Moments:   moments,
		Intervals: intervals,
		Labels:    labels,
		Emotions:  emotions,
	}, nil
}

func validateTimestamps(annotation *models.Annotation, duration float64) error {
	switch annotation.Type {
	case models.AnnotationMoment:
		if annotation.Timestamp == nil {
			return fmt.Errorf("Timestamp is required for moment annotations")
		}
		if *annotation.Timestamp < 0 || *annotation.Timestamp > duration {
			return fmt.Errorf("Timestamp must be within the video duration")
		}
		annotation.StartTimestamp = nil
		annotation.EndTimestamp = nil
	case models.AnnotationInterval:
		if annotation.StartTimestamp == nil || annotation.EndTimestamp == nil {
			return fmt.Errorf("Start and end timestamps are required for interval annotations")
		}
		if *annotation.StartTimestamp >= *annotation.EndTimestamp {
			return fmt.Errorf("Start timestamp must be before end timestamp")
		}
		if *annotation.StartTimestamp < 0 || *annotation.EndTimestamp > duration {
			return fmt.Errorf("Timestamps must be within the video duration")
		}
		annotation.Timestamp = nil
	}
	return nil
}
