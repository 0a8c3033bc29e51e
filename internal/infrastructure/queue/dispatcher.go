package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/imagevision/vision-api/internal/api/metrics"
	"github.com/imagevision/vision-api/internal/core/domain"
	"github.com/imagevision/vision-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// HistoryWriter persists classification records off the request path. Records
// are routed to a fixed set of workers by consistent hashing on the username,
// guaranteeing per-user history ordering. When a worker's channel is full the
// write falls back to a synchronous insert so no record is ever dropped.
type HistoryWriter struct {
	workers []chan domain.Image
	images  ports.ImageRepository
	log     zerolog.Logger

	// baseCtx is the lifecycle context passed to Start; worker inserts use
	// it rather than the (already answered) request's context.
	baseCtx context.Context
}

// NewHistoryWriter creates a HistoryWriter with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewHistoryWriter(numWorkers int, images ports.ImageRepository, log zerolog.Logger) *HistoryWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &HistoryWriter{
		workers: make([]chan domain.Image, numWorkers),
		images:  images,
		log:     log,
		baseCtx: context.Background(),
	}
	for i := range w.workers {
		w.workers[i] = make(chan domain.Image, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (w *HistoryWriter) Start(ctx context.Context) {
	w.baseCtx = ctx
	for i, ch := range w.workers {
		go w.runWorker(ctx, i, ch)
	}
}

// Record enqueues the image for its user's worker. If the channel is full the
// record is written synchronously instead.
func (w *HistoryWriter) Record(ctx context.Context, image domain.Image) error {
	idx := w.shardIndex(image.Username)
	select {
	case w.workers[idx] <- image:
		metrics.HistoryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(w.workers[idx])))
		return nil
	default:
		w.log.Warn().Int("worker", idx).Msg("history queue full, writing synchronously")
		return w.images.Insert(ctx, &image)
	}
}

// shardIndex maps a username deterministically to a worker index.
func (w *HistoryWriter) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(w.workers)))
}

func (w *HistoryWriter) runWorker(ctx context.Context, id int, ch <-chan domain.Image) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case image, ok := <-ch:
			if !ok {
				return
			}
			metrics.HistoryQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := w.images.Insert(w.baseCtx, &image); err != nil {
				w.log.Error().Err(err).
					Str("username", image.Username).
					Str("filename", image.Filename).
					Msg("failed to persist history record")
			}
		}
	}
}
