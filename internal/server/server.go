package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emosense/video-sentiment-backend/internal/classifier"
	"github.com/emosense/video-sentiment-backend/internal/config"
	"github.com/emosense/video-sentiment-backend/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	maxHeaderBytes = 1 << 20
)

type Server struct {
	echo          *echo.Echo
	cfg           *config.Config
	mongoDB       *mongo.Database
	redisClient   *redis.Client
	s3Client      *s3.Client
	preSignClient *s3.PresignClient
	classifier    classifier.Classifier
	logger        logger.Logger
}

func NewServer(
	cfg *config.Config,
	mongoDB *mongo.Database,
	redisClient *redis.Client,
	s3Client *s3.Client,
	preSignClient *s3.PresignClient,
	clf classifier.Classifier,
	logger logger.Logger,
) *Server {
	return &Server{
		echo:          echo.New(),
		cfg:           cfg,
		mongoDB:       mongoDB,
		redisClient:   redisClient,
		s3Client:      s3Client,
		preSignClient: preSignClient,
		classifier:    clf,
		logger:        logger,
	}
}

func (s *Server) Run() error {
	if err := s.MapHandlers(s.echo); err != nil {
		return err
	}
	s.echo.Server.MaxHeaderBytes = maxHeaderBytes
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	server := &http.Server{
		Addr:         s.cfg.Server.Port,
		ReadTimeout:  time.Second * time.Duration(s.cfg.Server.ReadTimeout),
		WriteTimeout: time.Second * time.Duration(s.cfg.Server.WriteTimeout),
		IdleTimeout:  time.Second * time.Duration(s.cfg.Server.IdleTimeout),
	}
	go func() {
		s.logger.Infof("Server is listening on PORT: %s", s.cfg.Server.Port)
		if err := s.echo.StartServer(server); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("error starting Server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	<-quit

	ctx, shutdown := context.WithTimeout(context.Background(), time.Second*time.Duration(s.cfg.Server.CtxTimeout))
	defer shutdown()
	s.logger.Infof("shutting down server")
	return s.echo.Server.Shutdown(ctx)
}
