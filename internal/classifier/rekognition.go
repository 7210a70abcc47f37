package classifier

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/pkg/logger"
)

// FaceDetectionAPI is the slice of the rekognition client the classifier uses.
type FaceDetectionAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

type RekognitionClassifier struct {
	client   FaceDetectionAPI
	fallback *MockClassifier
	logger   logger.Logger
}

func NewRekognitionClassifier(client FaceDetectionAPI, log logger.Logger) *RekognitionClassifier {
	return &RekognitionClassifier{
		client:   client,
		fallback: NewMockClassifier(),
		logger:   log,
	}
}

func (r *RekognitionClassifier) Classify(ctx context.Context, image []byte, timestamp string) *models.SentimentSample {
	out, err := r.client.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: image},
		Attributes: []types.Attribute{types.AttributeEmotions},
	})
	if err != nil {
		// provider hiccups must not stall the batch; fall back to the mock
		r.logger.Warnf("rekognition DetectFaces failed at %s, falling back to mock: %v", timestamp, err)
		return r.fallback.Classify(ctx, image, timestamp)
	}

	if len(out.FaceDetails) == 0 {
		return &models.SentimentSample{
			Timestamp:  timestamp,
			Sentiment:  models.EmotionNeutral,
			Confidence: NoFaceConfidence,
		}
	}

	emotion, confidence := topEmotion(out.FaceDetails[0].Emotions)
	return &models.SentimentSample{
		Timestamp:  timestamp,
		Sentiment:  emotion,
		Confidence: confidence,
	}
}

func topEmotion(emotions []types.Emotion) (models.Emotion, float64) {
	best := models.EmotionNeutral
	bestConfidence := 0.0
	for _, e := range emotions {
		if e.Confidence == nil {
			continue
		}
		if float64(*e.Confidence) > bestConfidence {
			bestConfidence = float64(*e.Confidence)
			best = MapProviderEmotion(e.Type)
		}
	}
	if bestConfidence == 0 {
		return models.EmotionNeutral, NoFaceConfidence
	}
	return best, bestConfidence / 100.0
}
