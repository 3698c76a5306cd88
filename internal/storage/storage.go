// Package storage persists uploaded report photos and hands back the
// public URL written into the report row.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/nurpe/wasteops-portal/internal/config"
)

type Store interface {
	// Save writes the object under key and returns its public URL.
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSKeyPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
