package ports

import (
	"context"

	"github.com/imagevision/vision-api/internal/core/domain"
)

// ClassifyInput carries an uploaded file and the authenticated caller.
type ClassifyInput struct {
	Filename string
	Data     []byte
	Username string
}

// ClassifyResult is returned to the caller after a successful classification.
type ClassifyResult struct {
	Filename    string
	Width       int
	Height      int
	Label       string
	Probability *float64
}

// ClassifyService runs uploads through the classifier and serves history.
type ClassifyService interface {
	Classify(ctx context.Context, input ClassifyInput) (*ClassifyResult, error)
	History(ctx context.Context, username string, limit int) ([]domain.Image, error)
}
