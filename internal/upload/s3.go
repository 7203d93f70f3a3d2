// Package upload stores flyer images in S3-compatible object storage and
// returns the durable URL they are served from.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	// ErrEmpty is returned for a missing or zero-length file.
	ErrEmpty = errors.New("flyer file is empty")
	// ErrNotImage is returned when the content is not an image.
	ErrNotImage = errors.New("flyer must be an image")
)

// File is an uploaded flyer as received from the client.
type File struct {
	Name string
	Size int64
	Body io.Reader
}

// Config describes the bucket flyers are written to.
type Config struct {
	Bucket        string
	Region        string
	Endpoint      string // non-empty for MinIO and other S3-compatible stores
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes flyers under flyers/YYYY/MM/DD/<uuid><ext>.
type S3Uploader struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	now     func() time.Time
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewS3Uploader builds an S3 client from cfg.  Static credentials are used
// when both keys are set, otherwise the default AWS credential chain applies.
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket is not configured")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client putObjectAPI, cfg Config) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
		now:     time.Now,
	}
}

// publicBaseURL is the prefix objects are reachable under.
func publicBaseURL(cfg Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (u *S3Uploader) objectKey(name string) string {
	d := u.now().UTC()
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("flyers/%04d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}

// Upload stores f and returns its public URL.  The content type is sniffed
// from the first bytes rather than trusted from the client.
func (u *S3Uploader) Upload(ctx context.Context, f File) (string, error) {
	if f.Body == nil || f.Size <= 0 {
		return "", ErrEmpty
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(f.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read flyer: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", ErrEmpty
	}
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	key := u.objectKey(f.Name)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          io.MultiReader(bytes.NewReader(head), f.Body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(f.Size),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.baseURL + "/" + key, nil
}
