package filestore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3FileStore uploads media to an S3 bucket with public-read ACLs.
type S3FileStore struct {
	bucket   string
	prefix   string
	uploader *s3manager.Uploader
}

// NewS3FileStore creates an S3-backed FileStore.
func NewS3FileStore(bucket, region, prefix string) (*S3FileStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3FileStore{
		bucket:   bucket,
		prefix:   prefix,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func (s *S3FileStore) Save(ctx context.Context, filename string, contentType string, r io.Reader) (string, error) {
	key := KeyFor(s.prefix, filename)

	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		ACL:         aws.String("public-read"),
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return out.Location, nil
}
