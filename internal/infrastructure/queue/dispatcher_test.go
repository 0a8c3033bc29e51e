package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/imagevision/vision-api/internal/core/domain"
)

type memoryImageRepo struct {
	mu     sync.Mutex
	images []domain.Image
}

func (r *memoryImageRepo) Insert(_ context.Context, img *domain.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images = append(r.images, *img)
	return nil
}

func (r *memoryImageRepo) ListByUsername(_ context.Context, username string, limit int) ([]domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Image
	for i := len(r.images) - 1; i >= 0 && len(out) < limit; i-- {
		if r.images[i].Username == username {
			out = append(out, r.images[i])
		}
	}
	return out, nil
}

func (r *memoryImageRepo) snapshot() []domain.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Image(nil), r.images...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestHistoryWriter_PerUserOrdering(t *testing.T) {
	repo := &memoryImageRepo{}
	writer := NewHistoryWriter(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	writer.Start(ctx)

	const n = 20
	for i := 0; i < n; i++ {
		img := domain.Image{Username: "alice", Filename: fmt.Sprintf("img-%02d.png", i)}
		if err := writer.Record(context.Background(), img); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == n })

	// Same user always hashes to the same worker, so inserts must land in
	// submission order.
	for i, img := range repo.snapshot() {
		want := fmt.Sprintf("img-%02d.png", i)
		if img.Filename != want {
			t.Fatalf("record %d out of order: got %q, want %q", i, img.Filename, want)
		}
	}
}

func TestHistoryWriter_FullQueueFallsBackToSyncWrite(t *testing.T) {
	repo := &memoryImageRepo{}
	// No Start: nothing drains the channels, so the buffer fills up.
	writer := NewHistoryWriter(1, repo, zerolog.Nop())

	for i := 0; i < channelBuffer; i++ {
		if err := writer.Record(context.Background(), domain.Image{Username: "alice"}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if len(repo.snapshot()) != 0 {
		t.Fatalf("records below capacity must be queued, not written")
	}

	// One past capacity: the write must happen synchronously, not be dropped.
	if err := writer.Record(context.Background(), domain.Image{Username: "alice", Filename: "overflow.png"}); err != nil {
		t.Fatalf("overflow record: %v", err)
	}
	snap := repo.snapshot()
	if len(snap) != 1 || snap[0].Filename != "overflow.png" {
		t.Fatalf("expected the overflow record to be written synchronously, got %+v", snap)
	}
}

func TestHistoryWriter_StopsOnContextCancel(t *testing.T) {
	repo := &memoryImageRepo{}
	writer := NewHistoryWriter(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	writer.Start(ctx)

	if err := writer.Record(context.Background(), domain.Image{Username: "bob", Filename: "a.png"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	waitFor(t, func() bool { return len(repo.snapshot()) == 1 })

	cancel()
	// After cancellation workers exit; enqueueing still succeeds (buffered)
	// but nothing more is drained.
	time.Sleep(20 * time.Millisecond)
	if err := writer.Record(context.Background(), domain.Image{Username: "bob", Filename: "b.png"}); err != nil {
		t.Fatalf("record after cancel: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if len(repo.snapshot()) != 1 {
		t.Fatalf("worker kept draining after cancellation")
	}
}
