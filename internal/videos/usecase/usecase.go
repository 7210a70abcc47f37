package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emosense/video-sentiment-backend/internal/config"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/pipeline"
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/emosense/video-sentiment-backend/pkg/logger"
	"github.com/emosense/video-sentiment-backend/pkg/utils"
	"github.com/google/uuid"
)

type videoUC struct {
	cfg       *config.Config
	videoRepo videos.Repository
	redisRepo videos.RedisRepository
	awsRepo   videos.AWSRepository
	media     pipeline.Media
	processor videos.Processor
	logger    logger.Logger
}

func NewVideoUseCase(
	cfg *config.Config,
	videoRepo videos.Repository,
	redisRepo videos.RedisRepository,
	awsRepo videos.AWSRepository,
	media pipeline.Media,
	processor videos.Processor,
	log logger.Logger,
) videos.UseCase {
	return &videoUC{
		cfg:       cfg,
		videoRepo: videoRepo,
		redisRepo: redisRepo,
		awsRepo:   awsRepo,
		media:     media,
		processor: processor,
		logger:    log,
	}
}

// UploadVideo validates the multipart payload, probes it, pushes the original
// to object storage and creates the video record. Every validation failure
// happens before the record is created, so a rejected upload leaves nothing
// behind.
func (v *videoUC) UploadVideo(ctx context.Context, input *models.VideoUploadInput) (*models.Video, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		v.logger.Errorf("UploadVideo - ValidateStruct error: %v", err)
		return nil, fmt.Errorf("invalid input: %v", err)
	}
	if !v.mimeAllowed(input.MimeType) {
		return nil, fmt.Errorf("Invalid file type. Only MP4, WebM and MOV videos are allowed")
	}
	if maxBytes := v.cfg.Upload.MaxSizeMB << 20; input.Size > maxBytes {
		return nil, fmt.Errorf("File too large. Maximum size is %dMB", v.cfg.Upload.MaxSizeMB)
	}

	videoID := uuid.New().String()
	storedName := videoID + storedExtension(input.FileName)

	localPath, size, err := v.spool(input.File, storedName)
	if err != nil {
		v.logger.Errorf("UploadVideo - spool error: %v", err)
		return nil, fmt.Errorf("failed to store upload: %v", err)
	}
	defer func() {
		if err := os.Remove(localPath); err != nil {
			v.logger.Warnf("failed to remove upload scratch file %s: %v", localPath, err)
		}
	}()

	info, err := v.media.Probe(ctx, localPath)
	if err != nil {
		v.logger.Errorf("UploadVideo - probe error: %v", err)
		return nil, fmt.Errorf("failed to read video metadata: %v", err)
	}
	if info.Duration <= 0 || info.Duration > v.cfg.Upload.MaxDurationSeconds {
		return nil, fmt.Errorf("Video too long. Maximum duration is %.0f seconds", v.cfg.Upload.MaxDurationSeconds)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen upload: %v", err)
	}
	defer file.Close()

	s3Key := fmt.Sprintf("uploads/%s/%s", videoID, storedName)
	url, err := v.awsRepo.PutObject(ctx, &models.UploadObject{
		Key:      s3Key,
		MimeType: input.MimeType,
		Size:     size,
		Body:     file,
	})
	if err != nil {
		v.logger.Errorf("UploadVideo - PutObject error: %v", err)
		return nil, fmt.Errorf("failed to upload video: %v", err)
	}

	video := &models.Video{
		VideoID:    videoID,
		FileName:   input.FileName,
		StoredName: storedName,
		FileSize:   size,
		Duration:   info.Duration,
		S3Key:      s3Key,
		S3Bucket:   v.cfg.S3.Bucket,
		URL:        url,
		Status:     models.VideoStatusUploaded,
	}
	video, err = v.videoRepo.CreateVideo(ctx, video)
	if err != nil {
		v.logger.Errorf("UploadVideo - CreateVideo error: %v", err)
		return nil, err
	}
	v.logger.Infof("uploaded video %s (%s, %.1fs, %d bytes)", videoID, input.FileName, info.Duration, size)
	return video, nil
}

func (v *videoUC) StartProcessing(ctx context.Context, videoID string) (*models.AnalysisJob, error) {
	video, err := v.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if ok, usage := utils.CheckCPUUsage(v.cfg.Pipeline.MaxCPUUsage); !ok {
		v.logger.Warnf("rejecting job for video %s, CPU usage is high: %f", videoID, usage)
		return nil, fmt.Errorf("server is busy, please retry shortly")
	}

	job := &models.AnalysisJob{
		JobID:     uuid.New().String(),
		VideoID:   videoID,
		Status:    models.JobStatusProcessing,
		Progress:  0,
		StartedAt: time.Now().UTC(),
	}
	if err := v.videoRepo.CreateJob(ctx, job); err != nil {
		v.logger.Errorf("StartProcessing - CreateJob error: %v", err)
		return nil, err
	}
	if err := v.redisRepo.SetJobProgress(ctx, job.JobID, &models.JobProgress{
		VideoID:  videoID,
		Status:   models.JobStatusProcessing,
		Progress: 0,
	}); err != nil {
		v.logger.Warnf("StartProcessing - failed to seed progress cache: %v", err)
	}

	// the job outlives the request; run it on a detached context
	go v.processor.Process(context.Background(), video, job.JobID)

	v.logger.Infof("started job %s for video %s", job.JobID, videoID)
	return job, nil
}

func (v *videoUC) GetJobStatus(ctx context.Context, videoID, jobID string) (*models.JobProgress, error) {
	progress, err := v.redisRepo.GetJobProgress(ctx, jobID)
	if err == nil {
		// the cache is scoped to the owning video, same as the store fallback
		if progress.VideoID != videoID {
			return nil, videos.ErrJobNotFound
		}
		return progress, nil
	}
	if !errors.Is(err, videos.ErrProgressNotCached) {
		v.logger.Warnf("GetJobStatus - progress cache read failed, falling back to store: %v", err)
	}

	job, err := v.videoRepo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.VideoID != videoID {
		return nil, videos.ErrJobNotFound
	}
	return &models.JobProgress{
		VideoID:  job.VideoID,
		Status:   job.Status,
		Progress: job.Progress,
		Error:    job.Error,
	}, nil
}

func (v *videoUC) GetResults(ctx context.Context, videoID string) (*models.VideoResults, error) {
	video, err := v.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	sentiments, err := v.videoRepo.GetSentimentsByVideo(ctx, videoID)
	if err != nil {
		v.logger.Errorf("GetResults - GetSentimentsByVideo error: %v", err)
		return nil, fmt.Errorf("failed to fetch sentiments: %v", err)
	}
	return &models.VideoResults{
		VideoID:    video.VideoID,
		FileName:   video.FileName,
		Duration:   video.Duration,
		URL:        video.URL,
		Sentiments: sentiments,
		Status:     video.Status,
		CreatedAt:  video.UploadedAt,
	}, nil
}

func (v *videoUC) GetHistory(ctx context.Context) ([]*models.VideoHistoryItem, error) {
	items, err := v.videoRepo.ListProcessedVideos(ctx)
	if err != nil {
		v.logger.Errorf("GetHistory - ListProcessedVideos error: %v", err)
		return nil, fmt.Errorf("failed to fetch history: %v", err)
	}
	return items, nil
}

const downloadURLExpiry = 15 * time.Minute

func (v *videoUC) GetDownloadURL(ctx context.Context, videoID string) (string, error) {
	video, err := v.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return "", err
	}
	url, err := v.awsRepo.PresignObject(ctx, video.S3Key, downloadURLExpiry)
	if err != nil {
		v.logger.Errorf("GetDownloadURL - PresignObject error: %v", err)
		return "", fmt.Errorf("failed to create download link: %v", err)
	}
	return url, nil
}

func (v *videoUC) mimeAllowed(mimeType string) bool {
	for _, allowed := range v.cfg.Upload.AllowedMimeTypes {
		if strings.EqualFold(mimeType, allowed) {
			return true
		}
	}
	return false
}

// spool streams the multipart body to a scratch file so it can be probed and
// uploaded without holding the whole video in memory.
func (v *videoUC) spool(body io.Reader, storedName string) (string, int64, error) {
	if err := os.MkdirAll(v.cfg.Pipeline.TempDir, 0755); err != nil {
		return "", 0, err
	}
	localPath := filepath.Join(v.cfg.Pipeline.TempDir, storedName)
	outFile, err := os.Create(localPath)
	if err != nil {
		return "", 0, err
	}
	defer outFile.Close()

	size, err := io.Copy(outFile, body)
	if err != nil {
		os.Remove(localPath)
		return "", 0, err
	}
	return localPath, size, nil
}

func storedExtension(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".mp4", ".webm", ".mov":
		return ext
	default:
		return ".mp4"
	}
}
