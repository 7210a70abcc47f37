package models

import (
	"io"
	"time"
)

type VideoStatus string

const (
	VideoStatusUploaded  VideoStatus = "uploaded"
	VideoStatusProcessed VideoStatus = "processed"
)

type Video struct {
	VideoID      string      `json:"video_id" bson:"video_id" validate:"omitempty"`
	FileName     string      `json:"file_name" bson:"file_name" validate:"required,lte=255"`
	StoredName   string      `json:"stored_name" bson:"stored_name" validate:"required,lte=255"`
	FileSize     int64       `json:"file_size" bson:"file_size" validate:"required"`
	Duration     float64     `json:"duration" bson:"duration" validate:"omitempty"`
	S3Key        string      `json:"s3_key" bson:"s3_key" validate:"required,lte=512"`
	S3Bucket     string      `json:"s3_bucket" bson:"s3_bucket" validate:"required,lte=255"`
	URL          string      `json:"url" bson:"url" validate:"omitempty"`
	ThumbnailURL string      `json:"thumbnail_url" bson:"thumbnail_url" validate:"omitempty"`
	Status       VideoStatus `json:"status" bson:"status" validate:"omitempty"`
	UploadedAt   time.Time   `json:"uploaded_at" bson:"uploaded_at" validate:"omitempty"`
	UpdatedAt    time.Time   `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// VideoUploadInput carries one multipart upload through validation.
type VideoUploadInput struct {
	FileName string `validate:"required,lte=255"`
	MimeType string `validate:"required"`
	Size     int64  `validate:"required,gt=0"`
	File     io.Reader
}

type UploadObject struct {
	Key      string
	MimeType string
	Size     int64
	Body     io.Reader
}

type VideoUploadResponse struct {
	VideoID  string  `json:"videoId"`
	Filename string  `json:"filename"`
	Duration float64 `json:"duration"`
	Size     int64   `json:"size"`
}

type VideoHistoryItem struct {
	VideoID        string    `json:"id" bson:"video_id"`
	FileName       string    `json:"filename" bson:"file_name"`
	Duration       float64   `json:"duration" bson:"duration"`
	FileSize       int64     `json:"fileSize" bson:"file_size"`
	SentimentCount int64     `json:"sentimentCount" bson:"sentiment_count"`
	ThumbnailURL   string    `json:"thumbnailUrl" bson:"thumbnail_url"`
	CreatedAt      time.Time `json:"createdAt" bson:"uploaded_at"`
}

type VideoResults struct {
	VideoID    string             `json:"id"`
	FileName   string             `json:"filename"`
	Duration   float64            `json:"duration"`
	URL        string             `json:"url"`
	Sentiments []*SentimentSample `json:"sentiments"`
	Status     VideoStatus        `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
}
