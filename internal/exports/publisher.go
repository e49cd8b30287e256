package exports

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/config"
)

// Publisher uploads rendered exports to object storage and hands back
// presigned download URLs. Optional: the demo service works without it and
// streams exports inline instead.
type Publisher struct {
	client *minio.Client
	bucket string
}

// NewPublisher creates a MinIO-backed publisher and ensures the bucket exists.
func NewPublisher(cfg *config.MinIOConfig) (*Publisher, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	p := &Publisher{client: mc, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
		exists, xerr := mc.BucketExists(ctx, p.bucket)
		if xerr != nil || !exists {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return p, nil
}

// Publish uploads a rendered export under exports/<id>.<format> and returns a
// presigned GET URL valid for the given duration.
func (p *Publisher) Publish(ctx context.Context, id, format string, payload []byte, contentType string, expires time.Duration) (string, error) {
	key := fmt.Sprintf("exports/%s.%s", id, format)
	_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("publish export %s: %w", key, err)
	}
	presigned, err := p.client.PresignedGetObject(ctx, p.bucket, key, expires, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign export %s: %w", key, err)
	}
	return presigned.String(), nil
}
