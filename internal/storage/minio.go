package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/anand-5154/edurise-server/internal/config"
)

// Buckets used by the platform, one per media kind.
var Buckets = struct {
	Thumbnails string
	Videos     string
	Documents  string
}{
	Thumbnails: "course-thumbnails",
	Videos:     "course-videos",
	Documents:  "instructor-documents",
}

var bucketNames = []string{Buckets.Thumbnails, Buckets.Videos, Buckets.Documents}

// Uploader stores media objects and returns their public URLs.
type Uploader interface {
	Upload(ctx context.Context, bucket, filename, contentType string, size int64, r io.Reader) (url string, err error)
}

// Client wraps the MinIO SDK with the upload surface the handlers need.
type Client struct {
	mc        *minio.Client
	publicURL string
	log       *slog.Logger
}

// NewClient connects to MinIO, verifies the connection, and ensures all
// required buckets exist.
func NewClient(cfg config.MinioConfig, log *slog.Logger) (*Client, error) {
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := mc.ListBuckets(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO server: %w", err)
	}

	c := &Client{mc: mc, publicURL: strings.TrimSuffix(cfg.PublicURL, "/"), log: log}
	if err := c.ensureBuckets(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) ensureBuckets(ctx context.Context) error {
	for _, name := range bucketNames {
		exists, err := c.mc.BucketExists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", name, err)
		}
		if !exists {
			if err := c.mc.MakeBucket(ctx, name, minio.MakeBucketOptions{}); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
			c.log.Info("created bucket", "bucket", name)
		}
	}
	return nil
}

// Upload streams an object into the given bucket under a collision-free key
// and returns its public URL.
func (c *Client) Upload(ctx context.Context, bucket, filename, contentType string, size int64, r io.Reader) (string, error) {
	key := fmt.Sprintf("%s%s", uuid.NewString(), path.Ext(filename))
	_, err := c.mc.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", c.publicURL, bucket, key), nil
}
