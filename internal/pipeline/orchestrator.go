package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/emosense/video-sentiment-backend/internal/classifier"
	"github.com/emosense/video-sentiment-backend/internal/config"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/emosense/video-sentiment-backend/pkg/logger"
	"github.com/emosense/video-sentiment-backend/pkg/utils"
	"github.com/pkg/errors"
)

// Orchestrator drives one video through the fixed stage sequence:
// fetch -> transcode -> upload -> extract frames -> classify each frame
// sequentially -> persist. Failure at any stage marks the job failed with
// the stage's message; there is no retry and no cancellation.
type Orchestrator struct {
	cfg       *config.Config
	repo      videos.Repository
	awsRepo   videos.AWSRepository
	redisRepo videos.RedisRepository
	media     Media
	clf       classifier.Classifier
	logger    logger.Logger
}

func NewOrchestrator(
	cfg *config.Config,
	repo videos.Repository,
	awsRepo videos.AWSRepository,
	redisRepo videos.RedisRepository,
	media Media,
	clf classifier.Classifier,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		repo:      repo,
		awsRepo:   awsRepo,
		redisRepo: redisRepo,
		media:     media,
		clf:       clf,
		logger:    log,
	}
}

// Process runs a job to its terminal state. It is meant to be launched on its
// own goroutine with a context detached from the HTTP request.
func (o *Orchestrator) Process(ctx context.Context, video *models.Video, jobID string) {
	reporter := NewReporter(jobID, video.VideoID, o.repo, o.redisRepo, o.logger)
	tempDir := filepath.Join(o.cfg.Pipeline.TempDir, jobID)
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			o.logger.Warnf("job %s: failed to clean temp dir %s: %v", jobID, tempDir, err)
		}
	}()

	if err := o.run(ctx, video, jobID, tempDir, reporter); err != nil {
		o.logger.Errorf("job %s for video %s failed: %v", jobID, video.VideoID, err)
		if ferr := o.repo.FailJob(ctx, jobID, err.Error()); ferr != nil {
			o.logger.Errorf("job %s: failed to record failure: %v", jobID, ferr)
		}
		if cerr := o.redisRepo.SetJobProgress(ctx, jobID, &models.JobProgress{
			VideoID:  video.VideoID,
			Status:   models.JobStatusFailed,
			Progress: reporter.Last(),
			Error:    err.Error(),
		}); cerr != nil {
			o.logger.Warnf("job %s: failed to cache failure: %v", jobID, cerr)
		}
		return
	}

	if err := o.repo.CompleteJob(ctx, jobID); err != nil {
		o.logger.Errorf("job %s: failed to record completion: %v", jobID, err)
		return
	}
	if err := o.redisRepo.SetJobProgress(ctx, jobID, &models.JobProgress{
		VideoID:  video.VideoID,
		Status:   models.JobStatusCompleted,
		Progress: completedPct,
	}); err != nil {
		o.logger.Warnf("job %s: failed to cache completion: %v", jobID, err)
	}
	o.logger.Infof("job %s for video %s completed", jobID, video.VideoID)
}

func (o *Orchestrator) run(ctx context.Context, video *models.Video, jobID, tempDir string, reporter *Reporter) error {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create temp directory")
	}

	originalPath := filepath.Join(tempDir, video.StoredName)
	if err := o.download(ctx, video.S3Key, originalPath); err != nil {
		return errors.Wrap(err, "failed to fetch original video")
	}
	reporter.Report(ctx, fetchDonePct)

	processedPath := filepath.Join(tempDir, "processed.mp4")
	err := o.media.Transcode(ctx, originalPath, processedPath, video.Duration, func(frac float64) {
		reporter.Transcode(ctx, frac)
	})
	if err != nil {
		return errors.Wrap(err, "transcode failed")
	}
	reporter.Report(ctx, transcodeDonePct)

	processedURL, err := o.uploadFile(ctx, processedPath, fmt.Sprintf("processed/%s.mp4", video.VideoID), "video/mp4")
	if err != nil {
		return errors.Wrap(err, "failed to upload processed video")
	}
	reporter.Report(ctx, uploadDonePct)

	framesDir := filepath.Join(tempDir, "frames")
	frames, err := o.media.ExtractFrames(ctx, processedPath, framesDir)
	if err != nil {
		return errors.Wrap(err, "frame extraction failed")
	}
	// fps=1 can emit one extra frame at the tail; frame N must mean second N
	if expected := int(video.Duration); expected > 0 && len(frames) > expected {
		frames = frames[:expected]
	}

	samples := make([]*models.SentimentSample, 0, len(frames))
	thumbnailURL := ""
	for i, framePath := range frames {
		data, err := os.ReadFile(framePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read frame %d", i+1)
		}
		frameKey := fmt.Sprintf("frames/%s/frame_%04d.jpg", video.VideoID, i+1)
		imageURL, err := o.awsRepo.PutObject(ctx, &models.UploadObject{
			Key:      frameKey,
			MimeType: "image/jpeg",
			Size:     int64(len(data)),
			Body:     bytes.NewReader(data),
		})
		if err != nil {
			return errors.Wrapf(err, "failed to upload frame %d", i+1)
		}
		if thumbnailURL == "" {
			thumbnailURL = imageURL
		}

		sample := o.clf.Classify(ctx, data, utils.FormatFrameTimestamp(i+1))
		sample.VideoID = video.VideoID
		sample.ImageURL = imageURL
		samples = append(samples, sample)

		reporter.Frame(ctx, i+1, len(frames))
	}

	if err := o.repo.ReplaceSentiments(ctx, video.VideoID, samples); err != nil {
		return errors.Wrap(err, "failed to persist sentiments")
	}
	reporter.Report(ctx, persistedPct)

	if err := o.repo.MarkVideoProcessed(ctx, video.VideoID, processedURL, thumbnailURL); err != nil {
		return errors.Wrap(err, "failed to mark video processed")
	}
	return nil
}

func (o *Orchestrator) download(ctx context.Context, key, localPath string) error {
	body, err := o.awsRepo.GetObject(ctx, key)
	if err != nil {
		return err
	}
	defer body.Close()

	outFile, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, body); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) uploadFile(ctx context.Context, localPath, key, mimeType string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}
	return o.awsRepo.PutObject(ctx, &models.UploadObject{
		Key:      key,
		MimeType: mimeType,
		Size:     info.Size(),
		Body:     file,
	})
}
