package repository

import (
	"context"
	"time"

	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/videos"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	videosCollection     = "videos"
	jobsCollection       = "analysis_jobs"
	sentimentsCollection = "sentiment_results"
)

type videoMongoRepo struct {
	db *mongo.Database
}

func NewVideoRepo(db *mongo.Database) videos.Repository {
	return &videoMongoRepo{
		db: db,
	}
}

func (r *videoMongoRepo) CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	now := time.Now().UTC()
	video.UploadedAt = now
	video.UpdatedAt = now
	if video.Status == "" {
		video.Status = models.VideoStatusUploaded
	}
	if _, err := r.db.Collection(videosCollection).InsertOne(ctx, video); err != nil {
		return nil, errors.Wrap(err, "failed to create video")
	}
	return video, nil
}

func (r *videoMongoRepo) GetVideoByID(ctx context.Context, videoID string) (*models.Video, error) {
	video := &models.Video{}
	err := r.db.Collection(videosCollection).
		FindOne(ctx, bson.M{"video_id": videoID}).
		Decode(video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, videos.ErrVideoNotFound
		}
		return nil, errors.Wrap(err, "failed to get video by id")
	}
	return video, nil
}

func (r *videoMongoRepo) MarkVideoProcessed(ctx context.Context, videoID, url, thumbnailURL string) error {
	res, err := r.db.Collection(videosCollection).UpdateOne(
		ctx,
		bson.M{"video_id": videoID},
		bson.M{"$set": bson.M{
			"status":        models.VideoStatusProcessed,
			"url":           url,
			"thumbnail_url": thumbnailURL,
			"updated_at":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return errors.Wrap(err, "failed to mark video processed")
	}
	if res.MatchedCount == 0 {
		return videos.ErrVideoNotFound
	}
	return nil
}

// ListProcessedVideos joins each processed video with the number of sentiment
// rows it produced, newest uploads first.
func (r *videoMongoRepo) ListProcessedVideos(ctx context.Context) ([]*models.VideoHistoryItem, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.VideoStatusProcessed}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         sentimentsCollection,
			"localField":   "video_id",
			"foreignField": "video_id",
			"as":           "sentiments",
		}}},
		{{Key: "$addFields", Value: bson.M{"sentiment_count": bson.M{"$size": "$sentiments"}}}},
		{{Key: "$project", Value: bson.M{"sentiments": 0}}},
		{{Key: "$sort", Value: bson.M{"uploaded_at": -1}}},
	}
	cursor, err := r.db.Collection(videosCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list processed videos")
	}
	defer cursor.Close(ctx)

	items := make([]*models.VideoHistoryItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "failed to decode video history")
	}
	return items, nil
}

func (r *videoMongoRepo) CreateJob(ctx context.Context, job *models.AnalysisJob) error {
	if _, err := r.db.Collection(jobsCollection).InsertOne(ctx, job); err != nil {
		return errors.Wrap(err, "failed to create job")
	}
	return nil
}

func (r *videoMongoRepo) GetJobByID(ctx context.Context, jobID string) (*models.AnalysisJob, error) {
	job := &models.AnalysisJob{}
	err := r.db.Collection(jobsCollection).
		FindOne(ctx, bson.M{"job_id": jobID}).
		Decode(job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, videos.ErrJobNotFound
		}
		return nil, errors.Wrap(err, "failed to get job by id")
	}
	return job, nil
}

func (r *videoMongoRepo) UpdateJobProgress(ctx context.Context, jobID string, progress int) error {
	// $max keeps progress monotonic even if a stale writer shows up late
	_, err := r.db.Collection(jobsCollection).UpdateOne(
		ctx,
		bson.M{"job_id": jobID, "status": models.JobStatusProcessing},
		bson.M{"$max": bson.M{"progress": progress}},
	)
	if err != nil {
		return errors.Wrap(err, "failed to update job progress")
	}
	return nil
}

func (r *videoMongoRepo) CompleteJob(ctx context.Context, jobID string) error {
	res, err := r.db.Collection(jobsCollection).UpdateOne(
		ctx,
		bson.M{"job_id": jobID},
		bson.M{"$set": bson.M{
			"status":       models.JobStatusCompleted,
			"progress":     100,
			"completed_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return errors.Wrap(err, "failed to complete job")
	}
	if res.MatchedCount == 0 {
		return videos.ErrJobNotFound
	}
	return nil
}

func (r *videoMongoRepo) FailJob(ctx context.Context, jobID, message string) error {
	res, err := r.db.Collection(jobsCollection).UpdateOne(
		ctx,
		bson.M{"job_id": jobID},
		bson.M{"$set": bson.M{
			"status":       models.JobStatusFailed,
			"error":        message,
			"completed_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return errors.Wrap(err, "failed to fail job")
	}
	if res.MatchedCount == 0 {
		return videos.ErrJobNotFound
	}
	return nil
}

// ReplaceSentiments drops any rows from a previous run before the bulk insert,
// so a re-processed video never mixes results from two jobs.
func (r *videoMongoRepo) ReplaceSentiments(ctx context.Context, videoID string, samples []*models.SentimentSample) error {
	coll := r.db.Collection(sentimentsCollection)
	if _, err := coll.DeleteMany(ctx, bson.M{"video_id": videoID}); err != nil {
		return errors.Wrap(err, "failed to clear previous sentiments")
	}
	if len(samples) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		docs = append(docs, s)
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return errors.Wrap(err, "failed to bulk insert sentiments")
	}
	return nil
}

func (r *videoMongoRepo) GetSentimentsByVideo(ctx context.Context, videoID string) ([]*models.SentimentSample, error) {
	cursor, err := r.db.Collection(sentimentsCollection).Find(
		ctx,
		bson.M{"video_id": videoID},
		options.Find().SetSort(bson.M{"timestamp": 1}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sentiments by video")
	}
	defer cursor.Close(ctx)

	samples := make([]*models.SentimentSample, 0)
	if err := cursor.All(ctx, &samples); err != nil {
		return nil, errors.Wrap(err, "failed to decode sentiments")
	}
	return samples, nil
}
