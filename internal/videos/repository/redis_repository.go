package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/go-redis/redis/v8"
)

type videoRedisRepo struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewVideoRedisRepo(redisClient *redis.Client, keyPrefix string, ttlHours int) videos.RedisRepository {
	if keyPrefix == "" {
		keyPrefix = "video:progress:"
	}
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &videoRedisRepo{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		ttl:         time.Duration(ttlHours) * time.Hour,
	}
}

func (v *videoRedisRepo) SetJobProgress(ctx context.Context, jobID string, progress *models.JobProgress) error {
	progressKey := v.keyPrefix + jobID

	pipe := v.redisClient.Pipeline()
	pipe.HSet(ctx, progressKey,
		"video_id", progress.VideoID,
		"status", string(progress.Status),
		"progress", progress.Progress,
		"error", progress.Error,
	)
	pipe.Expire(ctx, progressKey, v.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return nil
}

func (v *videoRedisRepo) GetJobProgress(ctx context.Context, jobID string) (*models.JobProgress, error) {
	fields, err := v.redisClient.HGetAll(ctx, v.keyPrefix+jobID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get job progress: %w", err)
	}
	if len(fields) == 0 {
		return nil, videos.ErrProgressNotCached
	}
	progress, err := strconv.Atoi(fields["progress"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse cached progress: %w", err)
	}
	return &models.JobProgress{
		VideoID:  fields["video_id"],
		Status:   models.JobStatus(fields["status"]),
		Progress: progress,
		Error:    fields["error"],
	}, nil
}

func (v *videoRedisRepo) Ping(ctx context.Context) error {
	return v.redisClient.Ping(ctx).Err()
}
