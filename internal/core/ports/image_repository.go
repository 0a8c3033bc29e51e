package ports

import (
	"context"

	"github.com/imagevision/vision-api/internal/core/domain"
)

// ImageRepository persists classification history records.
type ImageRepository interface {
	Insert(ctx context.Context, image *domain.Image) error

	// ListByUsername returns the caller's most recent records, newest first.
	ListByUsername(ctx context.Context, username string, limit int) ([]domain.Image, error)
}

// HistoryRecorder accepts a finished classification for persistence. The
// default implementation writes asynchronously with per-user ordering.
type HistoryRecorder interface {
	Record(ctx context.Context, image domain.Image) error
}
