package storage

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/2lastview/haello-Rest-Service/internal/config"
)

// S3Archiver mirrors stored uploads into an S3-compatible bucket so that the
// transient local upload directory is not the only copy.
type S3Archiver struct {
	client *s3.Client
	cfg    *config.ArchiveConfig
	log    *zap.Logger
}

func NewS3Archiver(cfg *config.ArchiveConfig, log *zap.Logger) (*S3Archiver, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				Source:            aws.EndpointSourceCustom,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	a := &S3Archiver{
		client: client,
		cfg:    cfg,
		log:    log,
	}

	if err := a.ensureBucketExists(context.Background()); err != nil {
		log.Warn("Failed to ensure archive bucket exists", zap.Error(err))
	}

	return a, nil
}

func (a *S3Archiver) ensureBucketExists(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.cfg.BucketName),
	})
	if err == nil {
		return nil
	}

	a.log.Info("Creating archive bucket", zap.String("bucket", a.cfg.BucketName))

	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(a.cfg.BucketName),
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(a.cfg.Region),
		},
	})
	if err != nil {
		return err
	}

	// Give the backend a moment to register the bucket.
	time.Sleep(1 * time.Second)

	return nil
}

func (a *S3Archiver) Archive(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.cfg.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		a.log.Error("Failed to archive upload to S3",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	a.log.Info("Upload archived to S3",
		zap.String("key", key),
		zap.Int("size", len(data)))

	return nil
}
