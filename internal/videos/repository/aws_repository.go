package repository

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emosense/video-sentiment-backend/internal/models"
	"github.com/emosense/video-sentiment-backend/internal/videos"
)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
	bucket        string
	publicBaseURL string
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient, bucket, publicBaseURL string) videos.AWSRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (a *awsRepository) PutObject(ctx context.Context, input *models.UploadObject) (string, error) {
	_, err := a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &a.bucket,
			Key:           &input.Key,
			ContentType:   &input.MimeType,
			ContentLength: &input.Size,
			Body:          input.Body,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload file : %w", err)
	}
	return a.publicBaseURL + "/" + input.Key, nil
}

func (a *awsRepository) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	res, err := a.client.GetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &a.bucket,
			Key:    &key,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to download file : %w", err)
	}
	return res.Body, nil
}

func (a *awsRepository) PresignObject(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := a.preSignClient.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &a.bucket,
			Key:    &key,
		},
		func(opts *s3.PresignOptions) {
			opts.Expires = expiry
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign file : %w", err)
	}
	return req.URL, nil
}

func (a *awsRepository) RemoveObject(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to remove file : %w", err)
	}
	return nil
}

func (a *awsRepository) Ping(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &a.bucket})
	return err
}
