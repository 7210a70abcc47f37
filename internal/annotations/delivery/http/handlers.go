package http

import (
	"errors"
	"net/http"

	"github.com/emosense/video-sentiment-backend/internal/annotations"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/labstack/echo/v4"
)

type annotationHandler struct {
	annotationUC annotations.UseCase
}

func NewAnnotationHandler(annotationUC annotations.UseCase) annotations.Handler {
	return &annotationHandler{
		annotationUC: annotationUC,
	}
}

func (h *annotationHandler) CreateAnnotation() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		if videoID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		annotation := &models.Annotation{}
		if err := c.Bind(annotation); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid annotation payload"})
		}
		created, err := h.annotationUC.CreateAnnotation(c.Request().Context(), videoID, annotation)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	}
}

func (h *annotationHandler) ListAnnotations() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		if videoID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		list, err := h.annotationUC.ListAnnotations(c.Request().Context(), videoID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *annotationHandler) UpdateAnnotation() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		annotationID := c.Param("annotation_id")
		if videoID == "" || annotationID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video or annotation id"})
		}
		annotation := &models.Annotation{}
		if err := c.Bind(annotation); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid annotation payload"})
		}
		updated, err := h.annotationUC.UpdateAnnotation(c.Request().Context(), videoID, annotationID, annotation)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}
}

func (h *annotationHandler) DeleteAnnotation() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		annotationID := c.Param("annotation_id")
		if videoID == "" || annotationID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video or annotation id"})
		}
		if err := h.annotationUC.DeleteAnnotation(c.Request().Context(), videoID, annotationID); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (h *annotationHandler) GetStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		if videoID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		stats, err := h.annotationUC.GetStats(c.Request().Context(), videoID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, stats)
	}
}

func respondError(c echo.Context, err error) error {
	if errors.Is(err, annotations.ErrAnnotationNotFound) || errors.Is(err, videos.ErrVideoNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}
