package media

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	appcfg "fieldtrack/internal/common/config"
	stderrors "fieldtrack/internal/common/errors"
	"fieldtrack/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePutter struct {
	input *s3.PutObjectInput
	err   error
}

func (c *capturePutter) PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	c.input = input
	if c.err != nil {
		return nil, c.err
	}
	return &s3.PutObjectOutput{}, nil
}

func testUploader(t *testing.T, putter ObjectPutter, cfg appcfg.S3Config) *Uploader {
	t.Helper()
	u := newUploader(putter, cfg, "ap-south-1", logger.NewTestLogger(t))
	u.now = func() time.Time { return time.Unix(1718000000, 0) }
	return u
}

func TestUpload_KeyFormat(t *testing.T) {
	putter := &capturePutter{}
	u := testUploader(t, putter, appcfg.S3Config{Bucket: "visit-photos"})

	_, err := u.Upload(context.Background(), "shopfront.JPG", strings.NewReader("img"))

	require.NoError(t, err)
	require.NotNil(t, putter.input)
	key := *putter.input.Key
	assert.Regexp(t, regexp.MustCompile(`^visits/1718000000_[0-9a-f]{16}\.jpg$`), key)
	assert.Equal(t, "image/jpeg", *putter.input.ContentType)
	assert.Equal(t, "visit-photos", *putter.input.Bucket)
}

func TestUpload_UniqueKeysForSameInstant(t *testing.T) {
	putter := &capturePutter{}
	u := testUploader(t, putter, appcfg.S3Config{Bucket: "visit-photos"})

	_, err := u.Upload(context.Background(), "a.png", strings.NewReader("img"))
	require.NoError(t, err)
	first := *putter.input.Key

	_, err = u.Upload(context.Background(), "a.png", strings.NewReader("img"))
	require.NoError(t, err)
	second := *putter.input.Key

	assert.NotEqual(t, first, second)
}

func TestUpload_RejectsUnknownExtension(t *testing.T) {
	putter := &capturePutter{}
	u := testUploader(t, putter, appcfg.S3Config{Bucket: "visit-photos"})

	_, err := u.Upload(context.Background(), "notes.pdf", strings.NewReader("doc"))

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeValidationFailed, stderrors.AsStandard(err).Code)
	assert.Nil(t, putter.input)
}

func TestUpload_PutFailure(t *testing.T) {
	putter := &capturePutter{err: fmt.Errorf("no such bucket")}
	u := testUploader(t, putter, appcfg.S3Config{Bucket: "visit-photos"})

	_, err := u.Upload(context.Background(), "a.jpg", strings.NewReader("img"))

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeUploadFailed, stderrors.AsStandard(err).Code)
}

func TestObjectURL_Variants(t *testing.T) {
	u := testUploader(t, &capturePutter{}, appcfg.S3Config{
		Bucket:    "visit-photos",
		PublicURL: "https://cdn.example.com/",
	})
	assert.Equal(t, "https://cdn.example.com/visits/k.jpg", u.objectURL("visits/k.jpg"))

	u = testUploader(t, &capturePutter{}, appcfg.S3Config{
		Bucket:    "visit-photos",
		Endpoint:  "http://localhost:9000",
		PathStyle: true,
	})
	assert.Equal(t, "http://localhost:9000/visit-photos/visits/k.jpg", u.objectURL("visits/k.jpg"))

	u = testUploader(t, &capturePutter{}, appcfg.S3Config{Bucket: "visit-photos"})
	assert.Equal(t, "https://visit-photos.s3.ap-south-1.amazonaws.com/visits/k.jpg", u.objectURL("visits/k.jpg"))
}
