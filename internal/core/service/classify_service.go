package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	// Register decoders for the formats the upload endpoint accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"

	"github.com/imagevision/vision-api/internal/core/domain"
	"github.com/imagevision/vision-api/internal/core/ports"
)

const (
	defaultHistoryLimit = 5
	maxHistoryLimit     = 50
)

// ClassifyService runs uploads through the inference collaborator and keeps
// per-user classification history.
type ClassifyService struct {
	classifier ports.Classifier
	history    ports.HistoryRecorder
	images     ports.ImageRepository
	logger     zerolog.Logger
}

func NewClassifyService(classifier ports.Classifier, history ports.HistoryRecorder, images ports.ImageRepository, logger zerolog.Logger) *ClassifyService {
	return &ClassifyService{classifier: classifier, history: history, images: images, logger: logger}
}

// Classify decodes the upload's dimensions, asks the classifier for a label,
// and hands the record to the history recorder. A recorder failure is logged
// but does not fail the classification the caller already paid for.
func (s *ClassifyService) Classify(ctx context.Context, input ports.ClassifyInput) (*ports.ClassifyResult, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(input.Data))
	if err != nil {
		return nil, domain.ErrUnsupportedImage
	}

	label, confidence, err := s.classifier.Classify(ctx, input.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}

	record := domain.Image{
		Filename:    input.Filename,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Label:       label,
		Probability: confidence,
		Username:    input.Username,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.history.Record(ctx, record); err != nil {
		s.logger.Warn().Err(err).
			Str("username", input.Username).
			Str("filename", input.Filename).
			Msg("failed to record classification history")
	}

	return &ports.ClassifyResult{
		Filename:    input.Filename,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Label:       label,
		Probability: confidence,
	}, nil
}

// History returns the caller's most recent classifications, newest first.
func (s *ClassifyService) History(ctx context.Context, username string, limit int) ([]domain.Image, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.images.ListByUsername(ctx, username, limit)
}
