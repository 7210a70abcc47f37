package http

import (
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/labstack/echo/v4"
)

func MapVideoRoutes(uploadGroup *echo.Group, h videos.Handler) {
	uploadGroup.POST("", h.UploadVideo())
	uploadGroup.GET("/history", h.GetHistory())
	uploadGroup.POST("/:video_id/process", h.StartProcessing())
	uploadGroup.GET("/:video_id/status/:job_id", h.GetStatus())
	uploadGroup.GET("/:video_id/results", h.GetResults())
	uploadGroup.GET("/:video_id/download", h.DownloadVideo())
}
