package models

import "time"

type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// AnalysisJob is one attempt to run a video through the sentiment pipeline.
// Terminal on completed or failed; there is no cancellation.
type AnalysisJob struct {
	JobID       string    `json:"job_id" bson:"job_id" validate:"omitempty"`
	VideoID     string    `json:"video_id" bson:"video_id" validate:"required"`
	Status      JobStatus `json:"status" bson:"status" validate:"required"`
	Progress    int       `json:"progress" bson:"progress" validate:"gte=0,lte=100"`
	Error       string    `json:"error,omitempty" bson:"error,omitempty"`
	StartedAt   time.Time `json:"started_at" bson:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// JobProgress is the polled view of a job, served from the redis hot cache
// when present and from mongo otherwise.
type JobProgress struct {
	VideoID  string    `json:"-" redis:"video_id"`
	Status   JobStatus `json:"status" redis:"status"`
	Progress int       `json:"progress" redis:"progress"`
	Error    string    `json:"error,omitempty" redis:"error"`
}
