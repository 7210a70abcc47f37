package classifier

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/emosense/video-sentiment-backend/internal/config"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/pkg/db/aws"
	"github.com/emosense/video-sentiment-backend/pkg/logger"
)

// NoFaceConfidence is reported when the provider finds no face in a frame.
const NoFaceConfidence = 0.1

// Classifier turns one extracted frame into a sentiment sample. Remote
// implementations must not propagate provider failures; a frame always
// yields a sample so the batch keeps moving.
type Classifier interface {
	Classify(ctx context.Context, image []byte, timestamp string) *models.SentimentSample
}

// New selects the classification backend once at startup: Rekognition when
// enabled and credentialed, the deterministic mock otherwise.
func New(cfg *config.Config, log logger.Logger) (Classifier, error) {
	if !cfg.Rekognition.Enabled || cfg.Rekognition.AccessKey == "" {
		log.Infof("classifier: rekognition not configured, running in mock mode")
		return NewMockClassifier(), nil
	}
	client, err := aws.NewRekognitionClient(
		cfg.Rekognition.Region,
		cfg.Rekognition.AccessKey,
		cfg.Rekognition.SecretKey,
	)
	if err != nil {
		return nil, err
	}
	log.Infof("classifier: using rekognition in region %s", cfg.Rekognition.Region)
	return NewRekognitionClassifier(client, log), nil
}

// MapProviderEmotion folds provider labels onto the closed six-emotion set.
func MapProviderEmotion(name types.EmotionName) models.Emotion {
	switch name {
	case types.EmotionNameHappy:
		return models.EmotionHappy
	case types.EmotionNameSad:
		return models.EmotionSad
	case types.EmotionNameAngry, types.EmotionNameDisgusted:
		return models.EmotionAngry
	case types.EmotionNameSurprised:
		return models.EmotionSurprised
	case types.EmotionNameFear:
		return models.EmotionFearful
	default:
		// CALM, CONFUSED, UNKNOWN
		return models.EmotionNeutral
	}
}
