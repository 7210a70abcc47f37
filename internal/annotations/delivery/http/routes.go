package http

import (
	"github.com/emosense/video-sentiment-backend/internal/annotations"
	"github.com/labstack/echo/v4"
)

func MapAnnotationRoutes(annotationGroup *echo.Group, h annotations.Handler) {
	annotationGroup.GET("/:video_id", h.ListAnnotations())
	annotationGroup.POST("/:video_id", h.CreateAnnotation())
	annotationGroup.PUT("/:video_id/:annotation_id", h.UpdateAnnotation())
	annotationGroup.DELETE("/:video_id/:annotation_id", h.DeleteAnnotation())
	annotationGroup.GET("/:video_id/stats", h.GetStats())
}
