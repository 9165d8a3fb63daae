// Package s3store is the S3 backend of the media object store.
package s3store

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"tourism_booking/internal/adapters/observability"
)

type Options struct {
	Region          string
	Endpoint        string // MinIO / R2 style endpoints
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
	PublicBaseURL   string // objects are served from {PublicBaseURL}/{bucket}/{key}
}

type Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     Options
}

func New(ctx context.Context, opts Options) (*Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})
	if opts.PublicBaseURL == "" {
		if opts.Endpoint != "" {
			opts.PublicBaseURL = strings.TrimRight(opts.Endpoint, "/")
		} else {
			opts.PublicBaseURL = fmt.Sprintf("https://s3.%s.amazonaws.com", opts.Region)
		}
	}
	return &Store{client: client, uploader: manager.NewUploader(client), opts: opts}, nil
}

func (s *Store) PublicURL(bucket, path string) string {
	return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + bucket + "/" + strings.TrimLeft(path, "/")
}

func (s *Store) Upload(ctx context.Context, bucket, path, contentType string, body io.Reader, size int64) error {
	start := time.Now()
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(path),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	})
	observability.ObserveStorage("s3", "upload", statusOf(err), time.Since(start))
	if err != nil {
		log.Error().Err(err).Str("bucket", bucket).Str("path", path).Msg("s3 upload failed")
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, bucket string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	start := time.Now()
	objs := make([]types.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		objs = append(objs, types.ObjectIdentifier{Key: aws.String(p)})
	}
	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: objs, Quiet: aws.Bool(true)},
	})
	observability.ObserveStorage("s3", "delete", statusOf(err), time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	if len(out.Errors) > 0 {
		e := out.Errors[0]
		return fmt.Errorf("failed to delete %s: %s", aws.ToString(e.Key), aws.ToString(e.Message))
	}
	return nil
}

func statusOf(err error) int {
	if err != nil {
		return 500
	}
	return 200
}
