package main

import (
	"context"
	"log"
	"time"

	"github.com/emosense/video-sentiment-backend/internal/classifier"
	"github.com/emosense/video-sentiment-backend/internal/config"
	"github.com/emosense/video-sentiment-backend/internal/server"
	"github.com/emosense/video-sentiment-backend/pkg/db/aws"
	"github.com/emosense/video-sentiment-backend/pkg/db/mongodb"
	"github.com/emosense/video-sentiment-backend/pkg/db/redis"
	"github.com/emosense/video-sentiment-backend/pkg/logger"
)

func main() {
	log.Println("Starting server")
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	mongoClient, err := mongodb.NewMongoDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to mongo: %s", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	mongoDB := mongoClient.Database(cfg.Mongo.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongodb.EnsureIndexes(ctx, mongoDB); err != nil {
		appLogger.Infof("could not ensure indexes: %s", err)
	}
	cancel()
	appLogger.Infof("mongo connected, database: %s", cfg.Mongo.Database)

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Infof("could not connect to redis: %s", err)
	}
	defer redisClient.Close()
	appLogger.Infof("redis connected")

	s3Client, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Infof("could not connect to s3: %s", err)
	}

	clf, err := classifier.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("could not init classifier: %s", err)
	}

	s := server.NewServer(cfg, mongoDB, redisClient, s3Client, presignClient, clf, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Infof("could not start server: %s", err)
	}
}
