package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-doc/pkg/simpledoc"
)

// TestS3Backend_BasicConfiguration tests the configuration and creation of S3 backend
func TestS3Backend_BasicConfiguration(t *testing.T) {
	t.Run("EmptyBucket", func(t *testing.T) {
		config := Config{
			Region: "us-east-1",
			Bucket: "",
		}
		_, err := New(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("DefaultRegion", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		backend, err := New(config)
		require.NoError(t, err)
		if s, ok := backend.(*Store); ok {
			assert.Equal(t, "us-east-1", s.config.Region)
		}
	})

	t.Run("ServerSideEncryption_AES256", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			EnableSSE:       true,
			SSEAlgorithm:    "AES256",
		}
		backend, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, backend)
	})

	t.Run("ServerSideEncryption_KMS_WithKeyID", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			EnableSSE:       true,
			SSEAlgorithm:    "aws:kms",
			SSEKMSKeyID:     "arn:aws:kms:us-east-1:123456789012:key/12345678-1234-1234-1234-123456789012",
		}
		backend, err := New(config)
		require.NoError(t, err)
		assert.NotNil(t, backend)
	})
}

// TestS3Backend_MinIOConfiguration tests MinIO-specific configuration
func TestS3Backend_MinIOConfiguration(t *testing.T) {
	t.Run("CustomEndpoint", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			Region:          "us-east-1",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			Endpoint:        "http://localhost:9000",
			UsePathStyle:    true,
		}
		backend, err := New(config)
		require.NoError(t, err)
		if s, ok := backend.(*Store); ok {
			assert.Equal(t, "http://localhost:9000", s.config.Endpoint)
			assert.True(t, s.config.UsePathStyle)
		}
	})
}

// TestS3Backend_RangeValidation tests the range guard that rejects bad
// ranges before any request is made
func TestS3Backend_RangeValidation(t *testing.T) {
	config := Config{
		Bucket:          "test-bucket",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
	}
	backend, err := New(config)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = backend.DownloadRange(ctx, "some/key", -1, 10)
	assert.ErrorIs(t, err, simpledoc.ErrInvalidRange)

	_, err = backend.DownloadRange(ctx, "some/key", 0, 0)
	assert.ErrorIs(t, err, simpledoc.ErrInvalidRange)

	_, err = backend.DownloadRange(ctx, "some/key", 0, -5)
	assert.ErrorIs(t, err, simpledoc.ErrInvalidRange)
}

// TestS3Backend_Integration tests actual S3/MinIO operations
// This test requires a running MinIO instance or S3 credentials
func TestS3Backend_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Check for MinIO environment variables
	endpoint := os.Getenv("AWS_S3_ENDPOINT")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	bucket := os.Getenv("AWS_S3_BUCKET")

	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		t.Skip("Skipping integration test: S3/MinIO environment variables not set")
	}

	config := Config{
		Bucket:                 bucket,
		Region:                 "us-east-1",
		AccessKeyID:            accessKey,
		SecretAccessKey:        secretKey,
		Endpoint:               endpoint,
		UsePathStyle:           true,
		CreateBucketIfNotExist: true,
	}

	backend, err := New(config)
	require.NoError(t, err, "Failed to create S3 backend")
	require.NotNil(t, backend)

	ctx := context.Background()
	objectKey := fmt.Sprintf("test/integration/%d/file.bin", time.Now().Unix())
	testData := []byte("0123456789")

	t.Run("UploadAndDownload", func(t *testing.T) {
		err := backend.Upload(ctx, objectKey, bytes.NewReader(testData))
		require.NoError(t, err, "Failed to upload object")

		reader, err := backend.Download(ctx, objectKey)
		require.NoError(t, err, "Failed to download object")
		defer reader.Close()

		downloadedData, err := io.ReadAll(reader)
		require.NoError(t, err, "Failed to read downloaded data")
		assert.Equal(t, testData, downloadedData)
	})

	t.Run("UploadWithParams", func(t *testing.T) {
		params := simpledoc.UploadParams{
			ObjectKey: objectKey + ".xml",
			MimeType:  "application/xml",
			Checksum:  "cafe01",
		}
		err := backend.UploadWithParams(ctx, bytes.NewReader([]byte("<report/>")), params)
		require.NoError(t, err, "Failed to upload object with params")

		meta, err := backend.GetObjectMeta(ctx, params.ObjectKey)
		require.NoError(t, err, "Failed to get object metadata")
		assert.Equal(t, "application/xml", meta.ContentType)
		assert.Equal(t, "cafe01", meta.Checksum)
	})

	t.Run("DownloadRange", func(t *testing.T) {
		reader, err := backend.DownloadRange(ctx, objectKey, 2, 4)
		require.NoError(t, err, "Failed to download range")
		got, err := io.ReadAll(reader)
		require.NoError(t, err)
		require.NoError(t, reader.Close())
		assert.Equal(t, []byte("2345"), got)

		// Ranges past the end are truncated
		reader, err = backend.DownloadRange(ctx, objectKey, 8, 100)
		require.NoError(t, err, "Failed to download tail range")
		got, err = io.ReadAll(reader)
		require.NoError(t, err)
		require.NoError(t, reader.Close())
		assert.Equal(t, []byte("89"), got)

		// Offsets at or past the end are rejected by the service
		_, err = backend.DownloadRange(ctx, objectKey, int64(len(testData)), 1)
		assert.ErrorIs(t, err, simpledoc.ErrInvalidRange)
	})

	t.Run("GetObjectMeta", func(t *testing.T) {
		meta, err := backend.GetObjectMeta(ctx, objectKey)
		require.NoError(t, err, "Failed to get object metadata")
		assert.Equal(t, int64(len(testData)), meta.Size)
		assert.NotEmpty(t, meta.ETag, "ETag should not be empty")
		assert.False(t, meta.UpdatedAt.IsZero())
	})

	t.Run("GetObjectMeta_NonExistent", func(t *testing.T) {
		_, err := backend.GetObjectMeta(ctx, "nonexistent/object.txt")
		assert.ErrorIs(t, err, simpledoc.ErrObjectNotFound)
	})

	t.Run("Download_NonExistent", func(t *testing.T) {
		_, err := backend.Download(ctx, "nonexistent/object.txt")
		assert.ErrorIs(t, err, simpledoc.ErrObjectNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := backend.Delete(ctx, objectKey)
		require.NoError(t, err, "Failed to delete object")

		_, err = backend.Download(ctx, objectKey)
		assert.ErrorIs(t, err, simpledoc.ErrObjectNotFound)
	})

	t.Run("DeleteNonExistent", func(t *testing.T) {
		// S3 Delete is idempotent, so this doesn't error
		err := backend.Delete(ctx, "nonexistent/object.txt")
		assert.NoError(t, err)
	})
}
