package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store stores uploads in an S3 bucket. It works against AWS and
// against S3-compatible servers like MinIO when built with a custom
// endpoint, which is how deployments share uploads across replicas.
type S3Store struct {
	client  *s3.Client
	bucket  string
	prefix  string
	maxSize int64
}

// NewS3Store creates an S3 upload store. A maxSize of 0 means no limit.
func NewS3Store(client *s3.Client, bucket, prefix string, maxSize int64) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		maxSize: maxSize,
	}
}

// NewS3Client builds a client from static settings. An empty endpoint
// targets AWS; a non-empty one targets an S3-compatible server, which
// usually also wants path-style addressing.
func NewS3Client(region, endpoint, accessKey, secretKey string, pathStyle bool) *s3.Client {
	opts := s3.Options{
		Region: region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     accessKey,
				SecretAccessKey: secretKey,
			}, nil
		}),
		UsePathStyle: pathStyle,
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}
	return s3.New(opts)
}

// Save buffers content and uploads it under a fresh key. The original
// name rides along as object metadata.
func (s *S3Store) Save(ctx context.Context, name, contentType string, r io.Reader) (File, error) {
	key := newKey()

	var buf bytes.Buffer
	reader := r
	if s.maxSize > 0 {
		reader = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(&buf, reader)
	if err != nil {
		return File{}, err
	}
	if s.maxSize > 0 && n > s.maxSize {
		return File{}, ErrTooLarge
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"name": name,
		},
	})
	if err != nil {
		return File{}, fmt.Errorf("s3 upload failed: %w", err)
	}

	return File{Key: key, Name: name, ContentType: contentType, Size: n}, nil
}

// Stat returns the descriptor for a stored object.
func (s *S3Store) Stat(ctx context.Context, key string) (File, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return File{}, ErrNotFound
	}

	f := File{Key: key, Name: key, ContentType: "application/octet-stream"}
	if name, ok := head.Metadata["name"]; ok {
		f.Name = name
	}
	if head.ContentType != nil {
		f.ContentType = *head.ContentType
	}
	if head.ContentLength != nil {
		f.Size = *head.ContentLength
	}
	return f, nil
}

// Open returns the content of a stored object.
func (s *S3Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return nil, ErrNotFound
	}
	return out.Body, nil
}

// Remove deletes a stored object.
func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	return err
}

// Cleanup removes objects under the prefix older than maxAge.
func (s *S3Store) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var stale []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && obj.LastModified != nil && obj.LastModified.Before(cutoff) {
				stale = append(stale, *obj.Key)
			}
		}
	}

	for _, key := range stale {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); err != nil {
			return err
		}
	}
	return nil
}
