package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	appcfg "fieldtrack/internal/common/config"
	stderrors "fieldtrack/internal/common/errors"
	"fieldtrack/internal/common/logger"
	"fieldtrack/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const keyPrefix = "visits/"

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
}

// ObjectPutter is the slice of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores visit photos in an S3 bucket and hands back a public URL
// the visit record can carry.
type Uploader struct {
	client    ObjectPutter
	bucket    string
	publicURL string
	endpoint  string
	region    string
	pathStyle bool
	logger    logger.Logger
	now       func() time.Time
}

// NewUploader builds the S3 client from the default credential chain; the
// endpoint and path-style switches exist for MinIO-style deployments.
func NewUploader(ctx context.Context, cfg appcfg.S3Config, log logger.Logger) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("photo bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newUploader(client, cfg, region, log), nil
}

func newUploader(client ObjectPutter, cfg appcfg.S3Config, region string, log logger.Logger) *Uploader {
	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		region:    region,
		pathStyle: cfg.PathStyle,
		logger:    log,
		now:       time.Now,
	}
}

// Upload writes the photo under visits/<unix-timestamp>_<random>.<ext> and
// returns its public URL.
func (u *Uploader) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	key, contentType, err := u.objectKey(filename)
	if err != nil {
		metrics.PhotoUploadsTotal.WithLabelValues("failure").Inc()
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if _, err := u.client.PutObject(ctx, input); err != nil {
		metrics.PhotoUploadsTotal.WithLabelValues("failure").Inc()
		u.logger.Error("photo upload failed", map[string]interface{}{
			"bucket": u.bucket,
			"key":    key,
			"error":  err.Error(),
		})
		return "", stderrors.NewUploadFailedError(err)
	}

	metrics.PhotoUploadsTotal.WithLabelValues("success").Inc()
	u.logger.Info("photo uploaded", map[string]interface{}{
		"bucket": u.bucket,
		"key":    key,
	})
	return u.objectURL(key), nil
}

func (u *Uploader) objectKey(filename string) (key, contentType string, err error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := contentTypes[ext]
	if !ok {
		return "", "", stderrors.NewValidationFailedError(
			fmt.Sprintf("unsupported photo type %q", ext))
	}

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", "", fmt.Errorf("generate key suffix: %w", err)
	}

	key = fmt.Sprintf("%s%d_%s%s", keyPrefix, u.now().Unix(), hex.EncodeToString(suffix), ext)
	return key, contentType, nil
}

func (u *Uploader) objectURL(key string) string {
	if u.publicURL != "" {
		return u.publicURL + "/" + key
	}
	if u.endpoint != "" {
		if u.pathStyle {
			return fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, key)
		}
		return fmt.Sprintf("%s/%s", u.endpoint, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
