package repository

import (
	"context"
	"time"

	"github.com/emosense/video-sentiment-backend/internal/annotations"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	annotationsCollection = "manual_annotations"
	sentimentsCollection  = "sentiment_results"
)

type annotationMongoRepo struct {
	db *mongo.Database
}

func NewAnnotationRepo(db *mongo.Database) annotations.Repository {
	return &annotationMongoRepo{
		db: db,
	}
}

func (r *annotationMongoRepo) Create(ctx context.Context, annotation *models.Annotation) (*models.Annotation, error) {
	now := time.Now().UTC()
	annotation.CreatedAt = now
	annotation.UpdatedAt = now
	if _, err := r.db.Collection(annotationsCollection).InsertOne(ctx, annotation); err != nil {
		return nil, errors.Wrap(err, "failed to create annotation")
	}
	return annotation, nil
}

func (r *annotationMongoRepo) GetByVideo(ctx context.Context, videoID string) ([]*models.Annotation, error) {
	cursor, err := r.db.Collection(annotationsCollection).Find(
		ctx,
		bson.M{"video_id": videoID},
		options.Find().SetSort(bson.M{"created_at": 1}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get annotations by video")
	}
	defer cursor.Close(ctx)

	result := make([]*models.Annotation, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode annotations")
	}
	return result, nil
}

func (r *annotationMongoRepo) GetByID(ctx context.Context, annotationID string) (*models.Annotation, error) {
	annotation := &models.Annotation{}
	err := r.db.Collection(annotationsCollection).
		FindOne(ctx, bson.M{"annotation_id": annotationID}).
		Decode(annotation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, annotations.ErrAnnotationNotFound
		}
		return nil, errors.Wrap(err, "failed to get annotation by id")
	}
	return annotation, nil
}

func (r *annotationMongoRepo) Update(ctx context.Context, annotation *models.Annotation) (*models.Annotation, error) {
	annotation.UpdatedAt = time.Now().UTC()
	res, err := r.db.Collection(annotationsCollection).ReplaceOne(
		ctx,
		bson.M{"annotation_id": annotation.AnnotationID, "video_id": annotation.VideoID},
		annotation,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update annotation")
	}
	if res.MatchedCount == 0 {
		return nil, annotations.ErrAnnotationNotFound
	}
	return annotation, nil
}

func (r *annotationMongoRepo) Delete(ctx context.Context, videoID, annotationID string) error {
	res, err := r.db.Collection(annotationsCollection).DeleteOne(
		ctx,
		bson.M{"annotation_id": annotationID, "video_id": videoID},
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete annotation")
	}
	if res.DeletedCount == 0 {
		return annotations.ErrAnnotationNotFound
	}
	return nil
}

func (r *annotationMongoRepo) CountByType(ctx context.Context, videoID string) (int64, int64, error) {
	coll := r.db.Collection(annotationsCollection)
	moments, err := coll.CountDocuments(ctx, bson.M{"video_id": videoID, "type": models.AnnotationMoment})
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to count moment annotations")
	}
	intervals, err := coll.CountDocuments(ctx, bson.M{"video_id": videoID, "type": models.AnnotationInterval})
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to count interval annotations")
	}
	return moments, intervals, nil
}

func (r *annotationMongoRepo) LabelHistogram(ctx context.Context, videoID string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"video_id": videoID}}},
		{{Key: "$group", Value: bson.M{"_id": "$label", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.db.Collection(annotationsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate labels")
	}
	defer cursor.Close(ctx)

	histogram := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Label string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, errors.Wrap(err, "failed to decode label row")
		}
		histogram[row.Label] = row.Count
	}
	return histogram, cursor.Err()
}

func (r *annotationMongoRepo) SentimentBreakdown(ctx context.Context, videoID string) ([]*models.EmotionShare, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"video_id": videoID}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$sentiment",
			"count":      bson.M{"$sum": 1},
			"confidence": bson.M{"$sum": "$confidence"},
		}}},
	}
	cursor, err := r.db.Collection(sentimentsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate sentiments")
	}
	defer cursor.Close(ctx)

	type row struct {
		Emotion    models.Emotion `bson:"_id"`
		Count      int64          `bson:"count"`
		Confidence float64        `bson:"confidence"`
	}
	rows := make([]row, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to decode sentiment rows")
	}

	total := 0.0
	for _, r := range rows {
		total += r.Confidence
	}
	shares := make([]*models.EmotionShare, 0, len(rows))
	for _, r := range rows {
		share := &models.EmotionShare{Emotion: r.Emotion, Count: r.Count}
		if total > 0 {
			share.Percentage = r.Confidence / total * 100
		}
		shares = append(shares, share)
	}
	return shares, nil
}
