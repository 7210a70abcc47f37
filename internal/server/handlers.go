package server

import (
	"net/http"

	annotationHttp "github.com/emosense/video-sentiment-backend/internal/annotations/delivery/http"
	annotationRepository "github.com/emosense/video-sentiment-backend/internal/annotations/repository"
	annotationUsecase "github.com/emosense/video-sentiment-backend/internal/annotations/usecase"
	"github.com/emosense/video-sentiment-backend/internal/middleware"
	"github.com/emosense/video-sentiment-backend/internal/pipeline"
	videoHttp "github.com/emosense/video-sentiment-backend/internal/videos/delivery/http"
	videoRepository "github.com/emosense/video-sentiment-backend/internal/videos/repository"
	videoUsecase "github.com/emosense/video-sentiment-backend/internal/videos/usecase"
	"github.com/emosense/video-sentiment-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	vRepo := videoRepository.NewVideoRepo(s.mongoDB)
	vAWSRepo := videoRepository.NewAwsRepository(s.s3Client, s.preSignClient, s.cfg.S3.Bucket, s.cfg.S3.PublicBaseURL)
	vRedisRepo := videoRepository.NewVideoRedisRepo(s.redisClient, s.cfg.Redis.ProgressKeyPrefix, s.cfg.Redis.ProgressTTLHours)
	aRepo := annotationRepository.NewAnnotationRepo(s.mongoDB)

	media := pipeline.NewFFmpeg(s.cfg.Pipeline.FFmpegPath, s.cfg.Pipeline.FFprobePath)
	orchestrator := pipeline.NewOrchestrator(s.cfg, vRepo, vAWSRepo, vRedisRepo, media, s.classifier, s.logger)

	videoUC := videoUsecase.NewVideoUseCase(s.cfg, vRepo, vRedisRepo, vAWSRepo, media, orchestrator, s.logger)
	annotationUC := annotationUsecase.NewAnnotationUseCase(s.cfg, aRepo, vRepo, s.logger)

	videoHandlers := videoHttp.NewVideoHandler(videoUC)
	annotationHandlers := annotationHttp.NewAnnotationHandler(annotationUC)

	mw := middleware.NewMiddlewareManager(s.cfg, s.cfg.Server.AllowedOrigins, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	uploadGroup := v1.Group("/upload")
	annotationGroup := v1.Group("/annotations")

	videoHttp.MapVideoRoutes(uploadGroup, videoHandlers)
	annotationHttp.MapAnnotationRoutes(annotationGroup, annotationHandlers)

	health.GET("", func(c echo.Context) error {
		ctx := c.Request().Context()
		mongoOK := s.mongoDB.Client().Ping(ctx, nil) == nil
		redisOK := vRedisRepo.Ping(ctx) == nil
		s3OK := vAWSRepo.Ping(ctx) == nil
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "OK",
			"mongo":  mongoOK,
			"redis":  redisOK,
			"s3":     s3OK,
		})
	})
	return nil
}
