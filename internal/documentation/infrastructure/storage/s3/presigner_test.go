package s3

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/employeedocs/pkg/config"
)

func TestPresignUpload(t *testing.T) {
	storage, err := New(context.Background(), config.StorageConfig{
		Enabled:         true,
		Bucket:          "employee-documents",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:4566",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		UsePathStyle:    true,
		PresignTTL:      300,
	})
	require.NoError(t, err)

	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	storage.now = func() time.Time { return now }

	upload, err := storage.PresignUpload(context.Background(), "employees/1/2/abc-rg.pdf", "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, upload.Method)
	assert.Equal(t, "employees/1/2/abc-rg.pdf", upload.Key)
	assert.Equal(t, now.Add(5*time.Minute), upload.ExpiresAt)

	u, err := url.Parse(upload.URL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:4566", u.Host)
	assert.Equal(t, "/employee-documents/employees/1/2/abc-rg.pdf", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
}

func TestNewDefaultTTL(t *testing.T) {
	storage, err := New(context.Background(), config.StorageConfig{
		Bucket:          "b",
		Region:          "us-east-1",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, defaultPresignTTL, storage.ttl)
}
