package models

type Emotion string

const (
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionSurprised Emotion = "surprised"
	EmotionFearful   Emotion = "fearful"
	EmotionNeutral   Emotion = "neutral"
)

// SentimentSample is one frame's classified emotion. Frame N of a video is
// stamped N seconds in; samples are immutable once persisted.
type SentimentSample struct {
	VideoID    string  `json:"-" bson:"video_id"`
	Timestamp  string  `json:"timestamp" bson:"timestamp"`
	Sentiment  Emotion `json:"sentiment" bson:"sentiment"`
	Confidence float64 `json:"confidence" bson:"confidence"`
	ImageURL   string  `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
}

// EmotionShare is one emotion's slice of a video's sentiment rows. Percentage
// is normalized against the sum of confidences rather than the row count,
// matching the numbers historical dashboards were built on.
type EmotionShare struct {
	Emotion    Emotion `json:"emotion" bson:"_id"`
	Count      int64   `json:"count" bson:"count"`
	Percentage float64 `json:"percentage" bson:"percentage"`
}
