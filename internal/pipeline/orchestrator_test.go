package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emosense/video-sentiment-backend/internal/classifier"
	"github.com/emosense/video-sentiment-backend/internal/config"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	progress     []int
	sentiments   []*models.SentimentSample
	annotations  []*models.Annotation
	replaceCalls int
	completed    bool
	failedMsg    string
	processed    bool
	processedURL string
	thumbnailURL string
}

func (s *stubRepo) CreateVideo(ctx context.Context, v *models.Video) (*models.Video, error) {
	return v, nil
}
func (s *stubRepo) GetVideoByID(ctx context.Context, id string) (*models.Video, error) {
	return nil, nil
}
func (s *stubRepo) MarkVideoProcessed(ctx context.Context, id, url, thumb string) error {
	s.processed = true
	s.processedURL = url
	s.thumbnailURL = thumb
	return nil
}
func (s *stubRepo) ListProcessedVideos(ctx context.Context) ([]*models.VideoHistoryItem, error) {
	return nil, nil
}
func (s *stubRepo) CreateJob(ctx context.Context, job *models.AnalysisJob) error { return nil }
func (s *stubRepo) GetJobByID(ctx context.Context, id string) (*models.AnalysisJob, error) {
	return nil, nil
}
func (s *stubRepo) UpdateJobProgress(ctx context.Context, id string, pct int) error {
	s.progress = append(s.progress, pct)
	return nil
}
func (s *stubRepo) CompleteJob(ctx context.Context, id string) error {
	s.completed = true
	return nil
}
func (s *stubRepo) FailJob(ctx context.Context, id, msg string) error {
	s.failedMsg = msg
	return nil
}
func (s *stubRepo) ReplaceSentiments(ctx context.Context, id string, samples []*models.SentimentSample) error {
	s.replaceCalls++
	s.sentiments = samples
	return nil
}
func (s *stubRepo) GetSentimentsByVideo(ctx context.Context, id string) ([]*models.SentimentSample, error) {
	return s.sentiments, nil
}

type stubAWSRepo struct {
	uploads []string
}

func (s *stubAWSRepo) PutObject(ctx context.Context, input *models.UploadObject) (string, error) {
	s.uploads = append(s.uploads, input.Key)
	return "http://cdn.local/" + input.Key, nil
}
func (s *stubAWSRepo) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte("video-bytes"))), nil
}
func (s *stubAWSRepo) PresignObject(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://signed.local/" + key, nil
}
func (s *stubAWSRepo) RemoveObject(ctx context.Context, key string) error { return nil }
func (s *stubAWSRepo) Ping(ctx context.Context) error                     { return nil }

type stubRedisRepo struct {
	last *models.JobProgress
}

func (s *stubRedisRepo) SetJobProgress(ctx context.Context, jobID string, p *models.JobProgress) error {
	s.last = p
	return nil
}
func (s *stubRedisRepo) GetJobProgress(ctx context.Context, jobID string) (*models.JobProgress, error) {
	return s.last, nil
}
func (s *stubRedisRepo) Ping(ctx context.Context) error { return nil }

type stubMedia struct {
	frameCount   int
	transcodeErr error
}

func (s *stubMedia) Probe(ctx context.Context, path string) (*MediaInfo, error) {
	return &MediaInfo{Duration: float64(s.frameCount), Width: 1280, Height: 720, FrameRate: 30}, nil
}
func (s *stubMedia) Transcode(ctx context.Context, in, out string, duration float64, onProgress func(float64)) error {
	if s.transcodeErr != nil {
		return s.transcodeErr
	}
	if onProgress != nil {
		onProgress(0.5)
		onProgress(1.0)
	}
	return os.WriteFile(out, []byte("processed"), 0644)
}
func (s *stubMedia) ExtractFrames(ctx context.Context, in, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	frames := make([]string, 0, s.frameCount)
	for i := 1; i <= s.frameCount; i++ {
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.jpg", i))
		if err := os.WriteFile(path, []byte("jpeg"), 0644); err != nil {
			return nil, err
		}
		frames = append(frames, path)
	}
	return frames, nil
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
		Pipeline: config.PipelineConfig{TempDir: t.TempDir()},
	}
}

func testVideo() *models.Video {
	return &models.Video{
		VideoID:    "vid-1",
		FileName:   "clip.mp4",
		StoredName: "vid-1.mp4",
		Duration:   15,
		S3Key:      "uploads/vid-1/vid-1.mp4",
		Status:     models.VideoStatusUploaded,
	}
}

func TestOrchestratorProcessCompletes(t *testing.T) {
	repo := &stubRepo{}
	awsRepo := &stubAWSRepo{}
	redisRepo := &stubRedisRepo{}
	media := &stubMedia{frameCount: 15}

	o := NewOrchestrator(testConfig(t), repo, awsRepo, redisRepo, media, classifier.NewMockClassifier(), nopLogger{})
	o.Process(context.Background(), testVideo(), "job-1")

	assert.True(t, repo.completed)
	assert.Empty(t, repo.failedMsg)
	assert.True(t, repo.processed)

	require.Len(t, repo.sentiments, 15)
	for i, s := range repo.sentiments {
		assert.Equal(t, "vid-1", s.VideoID)
		assert.Equal(t, fmt.Sprintf("00:00:%02d", i+1), s.Timestamp)
		assert.GreaterOrEqual(t, s.Confidence, 0.70)
		assert.NotEmpty(t, s.ImageURL)
	}

	// processed video plus one jpeg per frame
	assert.Len(t, awsRepo.uploads, 16)
	assert.Equal(t, "http://cdn.local/processed/vid-1.mp4", repo.processedURL)
	assert.Equal(t, "http://cdn.local/frames/vid-1/frame_0001.jpg", repo.thumbnailURL)

	require.NotNil(t, redisRepo.last)
	assert.Equal(t, models.JobStatusCompleted, redisRepo.last.Status)
	assert.Equal(t, 100, redisRepo.last.Progress)
}

func TestOrchestratorProgressMonotonic(t *testing.T) {
	repo := &stubRepo{}
	o := NewOrchestrator(testConfig(t), repo, &stubAWSRepo{}, &stubRedisRepo{}, &stubMedia{frameCount: 5}, classifier.NewMockClassifier(), nopLogger{})
	o.Process(context.Background(), testVideo(), "job-2")

	require.NotEmpty(t, repo.progress)
	prev := 0
	for _, pct := range repo.progress {
		assert.GreaterOrEqual(t, pct, prev)
		assert.LessOrEqual(t, pct, 100)
		prev = pct
	}
	assert.Equal(t, 95, prev)
}

func TestOrchestratorRerunReplacesSentimentsKeepsAnnotations(t *testing.T) {
	repo := &stubRepo{
		annotations: []*models.Annotation{
			{AnnotationID: "ann-1", VideoID: "vid-1", Type: models.AnnotationMoment, Label: "smile"},
		},
	}
	media := &stubMedia{frameCount: 15}
	o := NewOrchestrator(testConfig(t), repo, &stubAWSRepo{}, &stubRedisRepo{}, media, classifier.NewMockClassifier(), nopLogger{})

	o.Process(context.Background(), testVideo(), "job-1")
	firstRun := repo.sentiments
	require.Len(t, firstRun, 15)

	o.Process(context.Background(), testVideo(), "job-2")

	// the second run replaced the sentiment rows wholesale
	assert.Equal(t, 2, repo.replaceCalls)
	require.Len(t, repo.sentiments, 15)
	assert.NotSame(t, firstRun[0], repo.sentiments[0])

	// annotations live their own lifecycle; re-processing never touches them
	require.Len(t, repo.annotations, 1)
	assert.Equal(t, "ann-1", repo.annotations[0].AnnotationID)
}

func TestOrchestratorTranscodeFailureFailsJob(t *testing.T) {
	repo := &stubRepo{}
	redisRepo := &stubRedisRepo{}
	media := &stubMedia{frameCount: 15, transcodeErr: errors.New("codec exploded")}

	o := NewOrchestrator(testConfig(t), repo, &stubAWSRepo{}, redisRepo, media, classifier.NewMockClassifier(), nopLogger{})
	o.Process(context.Background(), testVideo(), "job-3")

	assert.False(t, repo.completed)
	assert.False(t, repo.processed)
	assert.Contains(t, repo.failedMsg, "transcode failed")
	assert.Contains(t, repo.failedMsg, "codec exploded")
	// persistence never started, so no partial rows
	assert.Nil(t, repo.sentiments)

	require.NotNil(t, redisRepo.last)
	assert.Equal(t, models.JobStatusFailed, redisRepo.last.Status)
}

func TestOrchestratorTruncatesExtraTailFrame(t *testing.T) {
	repo := &stubRepo{}
	// ffmpeg sometimes emits 16 frames for a 15s clip
	media := &stubMedia{frameCount: 16}

	o := NewOrchestrator(testConfig(t), repo, &stubAWSRepo{}, &stubRedisRepo{}, media, classifier.NewMockClassifier(), nopLogger{})
	o.Process(context.Background(), testVideo(), "job-4")

	require.Len(t, repo.sentiments, 15)
	assert.Equal(t, "00:00:15", repo.sentiments[14].Timestamp)
}
