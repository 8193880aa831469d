package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Presigning is local computation, so no S3 server is needed.
func newTestStorage(t *testing.T) FileStorage {
	t.Helper()
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://minio.local:9000",
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		BucketName:      "fitcoach-media",
	})
	require.NoError(t, err)
	return fs
}

func TestPresignedUploadURL(t *testing.T) {
	fs := newTestStorage(t)

	raw, err := fs.GeneratePresignedUploadURL(context.Background(), "videos/t1/abc.mp4", "video/mp4", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "minio.local:9000", u.Host)
	assert.Equal(t, "/fitcoach-media/videos/t1/abc.mp4", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestPresignedDownloadURL_DefaultExpiry(t *testing.T) {
	fs := newTestStorage(t)

	raw, err := fs.GeneratePresignedDownloadURL(context.Background(), "videos/t1/abc.mp4", 0)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}
