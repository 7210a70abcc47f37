package usecase

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emosense/video-sentiment-backend/internal/config"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/pipeline"
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	videos       map[string]*models.Video
	jobs         map[string]*models.AnalysisJob
	createCalls  int
	createdJobs  int
	sentiments   map[string][]*models.SentimentSample
	historyItems []*models.VideoHistoryItem
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		videos:     make(map[string]*models.Video),
		jobs:       make(map[string]*models.AnalysisJob),
		sentiments: make(map[string][]*models.SentimentSample),
	}
}

func (s *stubRepo) CreateVideo(ctx context.Context, v *models.Video) (*models.Video, error) {
	s.createCalls++
	s.videos[v.VideoID] = v
	return v, nil
}
func (s *stubRepo) GetVideoByID(ctx context.Context, id string) (*models.Video, error) {
	v, ok := s.videos[id]
	if !ok {
		return nil, videos.ErrVideoNotFound
	}
	return v, nil
}
func (s *stubRepo) MarkVideoProcessed(ctx context.Context, id, url, thumb string) error { return nil }
func (s *stubRepo) ListProcessedVideos(ctx context.Context) ([]*models.VideoHistoryItem, error) {
	return s.historyItems, nil
}
func (s *stubRepo) CreateJob(ctx context.Context, job *models.AnalysisJob) error {
	s.createdJobs++
	s.jobs[job.JobID] = job
	return nil
}
func (s *stubRepo) GetJobByID(ctx context.Context, id string) (*models.AnalysisJob, error) {
	j, ok := s.jobs[id]
	if !ok {
		return nil, videos.ErrJobNotFound
	}
	return j, nil
}
func (s *stubRepo) UpdateJobProgress(ctx context.Context, id string, pct int) error { return nil }
func (s *stubRepo) CompleteJob(ctx context.Context, id string) error               { return nil }
func (s *stubRepo) FailJob(ctx context.Context, id, msg string) error              { return nil }
func (s *stubRepo) ReplaceSentiments(ctx context.Context, id string, samples []*models.SentimentSample) error {
	s.sentiments[id] = samples
	return nil
}
func (s *stubRepo) GetSentimentsByVideo(ctx context.Context, id string) ([]*models.SentimentSample, error) {
	return s.sentiments[id], nil
}

type stubRedis struct {
	cache map[string]*models.JobProgress
}

func newStubRedis() *stubRedis {
	return &stubRedis{cache: make(map[string]*models.JobProgress)}
}

func (s *stubRedis) SetJobProgress(ctx context.Context, jobID string, p *models.JobProgress) error {
	s.cache[jobID] = p
	return nil
}
func (s *stubRedis) GetJobProgress(ctx context.Context, jobID string) (*models.JobProgress, error) {
	p, ok := s.cache[jobID]
	if !ok {
		return nil, videos.ErrProgressNotCached
	}
	return p, nil
}
func (s *stubRedis) Ping(ctx context.Context) error { return nil }

type stubAWS struct {
	puts []string
}

func (s *stubAWS) PutObject(ctx context.Context, input *models.UploadObject) (string, error) {
	s.puts = append(s.puts, input.Key)
	return "http://cdn.local/" + input.Key, nil
}
func (s *stubAWS) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("bytes")), nil
}
func (s *stubAWS) PresignObject(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://signed.local/" + key, nil
}
func (s *stubAWS) RemoveObject(ctx context.Context, key string) error { return nil }
func (s *stubAWS) Ping(ctx context.Context) error                     { return nil }

type stubMedia struct {
	duration float64
	probeErr error
}

func (s *stubMedia) Probe(ctx context.Context, path string) (*pipeline.MediaInfo, error) {
	if s.probeErr != nil {
		return nil, s.probeErr
	}
	return &pipeline.MediaInfo{Duration: s.duration, Width: 1920, Height: 1080, FrameRate: 30}, nil
}
func (s *stubMedia) Transcode(ctx context.Context, in, out string, d float64, f func(float64)) error {
	return nil
}
func (s *stubMedia) ExtractFrames(ctx context.Context, in, dir string) ([]string, error) {
	return nil, nil
}

type stubProcessor struct {
	started chan string
}

func (s *stubProcessor) Process(ctx context.Context, video *models.Video, jobID string) {
	if s.started != nil {
		s.started <- jobID
	}
}

type nopLogger struct{}

func (nopLogger) InitLogger()                          {}
func (nopLogger) Debug(args ...interface{})            {}
func (nopLogger) Debugf(t string, args ...interface{}) {}
func (nopLogger) Info(args ...interface{})             {}
func (nopLogger) Infof(t string, args ...interface{})  {}
func (nopLogger) Warn(args ...interface{})             {}
func (nopLogger) Warnf(t string, args ...interface{})  {}
func (nopLogger) Error(args ...interface{})            {}
func (nopLogger) Errorf(t string, args ...interface{}) {}
func (nopLogger) Fatal(args ...interface{})            {}
func (nopLogger) Fatalf(t string, args ...interface{}) {}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		S3: config.S3Config{Bucket: "video-sentiment"},
		Upload: config.UploadConfig{
			MaxSizeMB:          100,
			MaxDurationSeconds: 120,
			AllowedMimeTypes:   []string{"video/mp4", "video/webm", "video/quicktime"},
		},
		Pipeline: config.PipelineConfig{TempDir: t.TempDir(), MaxCPUUsage: 101},
	}
}

func newUC(t *testing.T, repo *stubRepo, redis *stubRedis, aws *stubAWS, media *stubMedia, proc *stubProcessor) videos.UseCase {
	return NewVideoUseCase(testConfig(t), repo, redis, aws, media, proc, nopLogger{})
}

func uploadInput(mime string, size int64) *models.VideoUploadInput {
	return &models.VideoUploadInput{
		FileName: "clip.mp4",
		MimeType: mime,
		Size:     size,
		File:     strings.NewReader("fake video bytes"),
	}
}

func TestUploadVideoRejectsBadMime(t *testing.T) {
	repo := newStubRepo()
	aws := &stubAWS{}
	uc := newUC(t, repo, newStubRedis(), aws, &stubMedia{duration: 10}, &stubProcessor{})

	_, err := uc.UploadVideo(context.Background(), uploadInput("application/pdf", 1024))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid file type")
	assert.Zero(t, repo.createCalls)
	assert.Empty(t, aws.puts)
}

func TestUploadVideoRejectsOversize(t *testing.T) {
	repo := newStubRepo()
	uc := newUC(t, repo, newStubRedis(), &stubAWS{}, &stubMedia{duration: 10}, &stubProcessor{})

	_, err := uc.UploadVideo(context.Background(), uploadInput("video/mp4", 101<<20))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File too large")
	assert.Zero(t, repo.createCalls)
}

func TestUploadVideoRejectsOverlongDuration(t *testing.T) {
	repo := newStubRepo()
	aws := &stubAWS{}
	uc := newUC(t, repo, newStubRedis(), aws, &stubMedia{duration: 300}, &stubProcessor{})

	_, err := uc.UploadVideo(context.Background(), uploadInput("video/mp4", 1024))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Video too long")
	assert.Zero(t, repo.createCalls)
	assert.Empty(t, aws.puts)
}

func TestUploadVideoCreatesRecord(t *testing.T) {
	repo := newStubRepo()
	aws := &stubAWS{}
	uc := newUC(t, repo, newStubRedis(), aws, &stubMedia{duration: 15}, &stubProcessor{})

	video, err := uc.UploadVideo(context.Background(), uploadInput("video/mp4", 1024))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, "clip.mp4", video.FileName)
	assert.Equal(t, 15.0, video.Duration)
	assert.Equal(t, models.VideoStatusUploaded, video.Status)
	assert.Contains(t, video.S3Key, "uploads/"+video.VideoID)
	require.Len(t, aws.puts, 1)
}

func TestStartProcessingUnknownVideo(t *testing.T) {
	uc := newUC(t, newStubRepo(), newStubRedis(), &stubAWS{}, &stubMedia{duration: 15}, &stubProcessor{})

	_, err := uc.StartProcessing(context.Background(), "missing")
	assert.ErrorIs(t, err, videos.ErrVideoNotFound)
}

func TestStartProcessingCreatesJobAndLaunchesProcessor(t *testing.T) {
	repo := newStubRepo()
	repo.videos["vid-1"] = &models.Video{VideoID: "vid-1", Duration: 15}
	proc := &stubProcessor{started: make(chan string, 1)}
	redis := newStubRedis()
	uc := newUC(t, repo, redis, &stubAWS{}, &stubMedia{duration: 15}, proc)

	job, err := uc.StartProcessing(context.Background(), "vid-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, job.Status)
	assert.Zero(t, job.Progress)
	assert.Equal(t, 1, repo.createdJobs)
	assert.Equal(t, "vid-1", job.VideoID)

	launched := <-proc.started
	assert.Equal(t, job.JobID, launched)

	cached, err := redis.GetJobProgress(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, cached.Status)
}

func TestGetJobStatusPrefersCache(t *testing.T) {
	repo := newStubRepo()
	redis := newStubRedis()
	redis.cache["job-1"] = &models.JobProgress{VideoID: "vid-1", Status: models.JobStatusProcessing, Progress: 42}
	uc := newUC(t, repo, redis, &stubAWS{}, &stubMedia{}, &stubProcessor{})

	progress, err := uc.GetJobStatus(context.Background(), "vid-1", "job-1")
	require.NoError(t, err)
	assert.Equal(t, 42, progress.Progress)
}

func TestGetJobStatusCachedWrongVideo(t *testing.T) {
	repo := newStubRepo()
	redis := newStubRedis()
	redis.cache["job-1"] = &models.JobProgress{VideoID: "other", Status: models.JobStatusProcessing, Progress: 42}
	uc := newUC(t, repo, redis, &stubAWS{}, &stubMedia{}, &stubProcessor{})

	_, err := uc.GetJobStatus(context.Background(), "vid-1", "job-1")
	assert.ErrorIs(t, err, videos.ErrJobNotFound)
}

func TestGetJobStatusFallsBackToStore(t *testing.T) {
	repo := newStubRepo()
	repo.jobs["job-1"] = &models.AnalysisJob{
		JobID:    "job-1",
		VideoID:  "vid-1",
		Status:   models.JobStatusFailed,
		Progress: 30,
		Error:    "transcode failed: codec exploded",
	}
	uc := newUC(t, repo, newStubRedis(), &stubAWS{}, &stubMedia{}, &stubProcessor{})

	progress, err := uc.GetJobStatus(context.Background(), "vid-1", "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, progress.Status)
	assert.Equal(t, "transcode failed: codec exploded", progress.Error)
}

func TestGetJobStatusWrongVideo(t *testing.T) {
	repo := newStubRepo()
	repo.jobs["job-1"] = &models.AnalysisJob{JobID: "job-1", VideoID: "other"}
	uc := newUC(t, repo, newStubRedis(), &stubAWS{}, &stubMedia{}, &stubProcessor{})

	_, err := uc.GetJobStatus(context.Background(), "vid-1", "job-1")
	assert.ErrorIs(t, err, videos.ErrJobNotFound)
}

func TestGetResults(t *testing.T) {
	repo := newStubRepo()
	repo.videos["vid-1"] = &models.Video{
		VideoID:  "vid-1",
		FileName: "clip.mp4",
		Duration: 2,
		URL:      "http://cdn.local/processed/vid-1.mp4",
		Status:   models.VideoStatusProcessed,
	}
	repo.sentiments["vid-1"] = []*models.SentimentSample{
		{VideoID: "vid-1", Timestamp: "00:00:01", Sentiment: models.EmotionHappy, Confidence: 0.9},
		{VideoID: "vid-1", Timestamp: "00:00:02", Sentiment: models.EmotionSad, Confidence: 0.8},
	}
	uc := newUC(t, repo, newStubRedis(), &stubAWS{}, &stubMedia{}, &stubProcessor{})

	results, err := uc.GetResults(context.Background(), "vid-1")
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", results.FileName)
	require.Len(t, results.Sentiments, 2)
	assert.Equal(t, "00:00:01", results.Sentiments[0].Timestamp)
}

func TestGetDownloadURL(t *testing.T) {
	repo := newStubRepo()
	repo.videos["vid-1"] = &models.Video{VideoID: "vid-1", S3Key: "uploads/vid-1/vid-1.mp4"}
	uc := newUC(t, repo, newStubRedis(), &stubAWS{}, &stubMedia{}, &stubProcessor{})

	url, err := uc.GetDownloadURL(context.Background(), "vid-1")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.local/uploads/vid-1/vid-1.mp4", url)

	_, err = uc.GetDownloadURL(context.Background(), "missing")
	assert.ErrorIs(t, err, videos.ErrVideoNotFound)
}
