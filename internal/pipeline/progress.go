package pipeline

import (
	"context"
	"sync"

	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/emosense/video-sentiment-backend/pkg/logger"
)

// Stage boundaries, as coarse percentage bands of a whole job.
const (
	fetchDonePct     = 10
	transcodeDonePct = 30
	uploadDonePct    = 40
	analysisStartPct = 40
	analysisDonePct  = 95
	persistedPct     = 95
	completedPct     = 100
)

// Reporter is the single progress sink for one job. Every stage and every
// classified frame funnels through it; it clamps so observed progress never
// decreases while the job is alive, and mirrors each update into the redis
// hot cache the status endpoint polls.
type Reporter struct {
	jobID     string
	videoID   string
	repo      videos.Repository
	redisRepo videos.RedisRepository
	logger    logger.Logger

	mu   sync.Mutex
	last int
}

func NewReporter(jobID, videoID string, repo videos.Repository, redisRepo videos.RedisRepository, log logger.Logger) *Reporter {
	return &Reporter{
		jobID:     jobID,
		videoID:   videoID,
		repo:      repo,
		redisRepo: redisRepo,
		logger:    log,
	}
}

// Report advances the job to pct. Regressions are dropped, and persistence
// failures are logged rather than surfaced: losing a progress tick must not
// kill a healthy job.
func (r *Reporter) Report(ctx context.Context, pct int) {
	if pct > completedPct {
		pct = completedPct
	}
	r.mu.Lock()
	if pct <= r.last {
		r.mu.Unlock()
		return
	}
	r.last = pct
	r.mu.Unlock()

	if err := r.repo.UpdateJobProgress(ctx, r.jobID, pct); err != nil {
		r.logger.Warnf("job %s: failed to persist progress %d: %v", r.jobID, pct, err)
	}
	if err := r.redisRepo.SetJobProgress(ctx, r.jobID, &models.JobProgress{
		VideoID:  r.videoID,
		Status:   models.JobStatusProcessing,
		Progress: pct,
	}); err != nil {
		r.logger.Warnf("job %s: failed to cache progress %d: %v", r.jobID, pct, err)
	}
}

// Transcode maps a fractional transcoder callback into the compression band.
func (r *Reporter) Transcode(ctx context.Context, frac float64) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	r.Report(ctx, fetchDonePct+int(frac*float64(transcodeDonePct-fetchDonePct)))
}

// Frame advances the analysis band by completed frame ratio.
func (r *Reporter) Frame(ctx context.Context, done, total int) {
	if total <= 0 {
		return
	}
	r.Report(ctx, analysisStartPct+(analysisDonePct-analysisStartPct)*done/total)
}

// Last returns the highest percentage reported so far.
func (r *Reporter) Last() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
