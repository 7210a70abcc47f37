package models

import "time"

type AnnotationType string

const (
	AnnotationMoment   AnnotationType = "moment"
	AnnotationInterval AnnotationType = "interval"
)

const DefaultAnnotationColor = "#6366f1"

// Annotation is a user-authored marker: a moment at one timestamp or an
// interval over [start, end). Lifecycle is independent of jobs and sentiment
// rows; re-running a video's pipeline never touches annotations.
type Annotation struct {
	AnnotationID   string         `json:"annotation_id" bson:"annotation_id" validate:"omitempty"`
	VideoID        string         `json:"video_id" bson:"video_id" validate:"omitempty"`
	Type           AnnotationType `json:"type" bson:"type" validate:"required,oneof=moment interval"`
	Timestamp      *float64       `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	StartTimestamp *float64       `json:"startTimestamp,omitempty" bson:"start_timestamp,omitempty"`
	EndTimestamp   *float64       `json:"endTimestamp,omitempty" bson:"end_timestamp,omitempty"`
	Label          string         `json:"label" bson:"label" validate:"required,lte=100"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty" validate:"lte=500"`
	Color          string         `json:"color" bson:"color" validate:"omitempty,hexcolor"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

type AnnotationStats struct {
	Total     int64            `json:"total"`
	Moments   int64            `json:"moments"`
	Intervals int64            `json:"intervals"`
	Labels    map[string]int64 `json:"labels"`
	Emotions  []*EmotionShare  `json:"emotions"`
}
