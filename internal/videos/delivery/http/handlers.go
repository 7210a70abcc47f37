package http

import (
	"errors"
	"net/http"

	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/labstack/echo/v4"
)

type videoHandler struct {
	videoUC videos.UseCase
}

func NewVideoHandler(videoUC videos.UseCase) videos.Handler {
	return &videoHandler{
		videoUC: videoUC,
	}
}

func (h *videoHandler) UploadVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("video")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No video file provided"})
		}
		src, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read uploaded file"})
		}
		defer src.Close()

		input := &models.VideoUploadInput{
			FileName: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Size:     fileHeader.Size,
			File:     src,
		}
		video, err := h.videoUC.UploadVideo(c.Request().Context(), input)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, &models.VideoUploadResponse{
			VideoID:  video.VideoID,
			Filename: video.FileName,
			Duration: video.Duration,
			Size:     video.FileSize,
		})
	}
}

func (h *videoHandler) StartProcessing() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		if videoID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		job, err := h.videoUC.StartProcessing(c.Request().Context(), videoID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusAccepted, map[string]string{"jobId": job.JobID})
	}
}

func (h *videoHandler) GetStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		jobID := c.Param("job_id")
		if videoID == "" || jobID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video or job id"})
		}
		progress, err := h.videoUC.GetJobStatus(c.Request().Context(), videoID, jobID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, progress)
	}
}

func (h *videoHandler) GetResults() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		if videoID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		results, err := h.videoUC.GetResults(c.Request().Context(), videoID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, results)
	}
}

func (h *videoHandler) GetHistory() echo.HandlerFunc {
	return func(c echo.Context) error {
		history, err := h.videoUC.GetHistory(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, history)
	}
}

func (h *videoHandler) DownloadVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID := c.Param("video_id")
		if videoID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		url, err := h.videoUC.GetDownloadURL(c.Request().Context(), videoID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"url": url})
	}
}

func respondError(c echo.Context, err error) error {
	if errors.Is(err, videos.ErrVideoNotFound) || errors.Is(err, videos.ErrJobNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}
