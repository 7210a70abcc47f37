package classifier

import (
	"context"
	"strconv"
	"strings"

	"github.com/emosense/video-sentiment-backend/internal/models"
)

// lcg constants, shared with the historical frontend mock so recorded demo
// timelines reproduce bit-for-bit
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// emotionBuckets are cumulative weights over [0,1): happy .30, neutral .25,
// sad .15, angry .10, surprised .15, fearful .05.
var emotionBuckets = []struct {
	upper   float64
	emotion models.Emotion
}{
	{0.30, models.EmotionHappy},
	{0.55, models.EmotionNeutral},
	{0.70, models.EmotionSad},
	{0.80, models.EmotionAngry},
	{0.95, models.EmotionSurprised},
	{1.01, models.EmotionFearful},
}

// MockClassifier derives a sentiment purely from the digits of the frame's
// timestamp. Same timestamp, same answer, on every call and every host.
type MockClassifier struct{}

func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

func (m *MockClassifier) Classify(_ context.Context, _ []byte, timestamp string) *models.SentimentSample {
	seed := timestampSeed(timestamp)

	seed = lcgNext(seed)
	r := float64(seed) / float64(lcgModulus)
	emotion := models.EmotionFearful
	for _, bucket := range emotionBuckets {
		if r < bucket.upper {
			emotion = bucket.emotion
			break
		}
	}

	seed = lcgNext(seed)
	confidence := 0.70 + 0.25*(float64(seed)/float64(lcgModulus))

	return &models.SentimentSample{
		Timestamp:  timestamp,
		Sentiment:  emotion,
		Confidence: confidence,
	}
}

func lcgNext(seed int64) int64 {
	return (seed*lcgMultiplier + lcgIncrement) % lcgModulus
}

func timestampSeed(timestamp string) int64 {
	var digits strings.Builder
	for _, r := range timestamp {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	seed, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0
	}
	return seed
}
