package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/domain/model"
	testhelpers "github.com/polkiloo/betacycle/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewTraceWriterDefaults(t *testing.T) {
	w := NewTraceWriter(&testhelpers.TraceRepositoryStub{}, 0, 0, 0, 0, discardLogger())
	if w.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", w.batchSize)
	}
	if w.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", w.workers)
	}
	if cap(w.queue) != 1 {
		t.Fatalf("expected queue size default to 1, got %d", cap(w.queue))
	}
	if w.flushInterval != time.Second {
		t.Fatalf("expected flush interval default to 1s, got %v", w.flushInterval)
	}
}

func TestTraceWriterRejectsWhenStopped(t *testing.T) {
	w := NewTraceWriter(&testhelpers.TraceRepositoryStub{}, 4, 1, time.Second, 1, discardLogger())
	if err := w.Enqueue(model.LogTrace{Message: "early"}); !errors.Is(err, domainErrors.ErrUnavailable) {
		t.Fatalf("expected unavailable before start, got %v", err)
	}
}

func TestTraceWriterFlushesFullBatches(t *testing.T) {
	repo := &testhelpers.TraceRepositoryStub{}
	w := NewTraceWriter(repo, 16, 2, time.Hour, 2, discardLogger())
	w.Start(context.Background())

	for i := 0; i < 4; i++ {
		if err := w.Enqueue(model.LogTrace{MachineName: "web", Message: "m"}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	waitFor(t, func() bool { return repo.Count() == 4 })
	w.Stop()
}

func TestTraceWriterFlushesOnInterval(t *testing.T) {
	repo := &testhelpers.TraceRepositoryStub{}
	w := NewTraceWriter(repo, 16, 100, 10*time.Millisecond, 1, discardLogger())
	w.Start(context.Background())
	defer w.Stop()

	if err := w.Enqueue(model.LogTrace{MachineName: "web", Message: "lonely"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	waitFor(t, func() bool { return repo.Count() == 1 })
}

func TestTraceWriterDrainsOnStop(t *testing.T) {
	repo := &testhelpers.TraceRepositoryStub{}
	w := NewTraceWriter(repo, 16, 100, time.Hour, 1, discardLogger())
	w.Start(context.Background())

	for i := 0; i < 3; i++ {
		if err := w.Enqueue(model.LogTrace{MachineName: "web", Message: "m"}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}
	w.Stop()

	if repo.Count() != 3 {
		t.Fatalf("expected queued traces to be written on stop, got %d", repo.Count())
	}
	if err := w.Enqueue(model.LogTrace{Message: "late"}); !errors.Is(err, domainErrors.ErrUnavailable) {
		t.Fatalf("expected unavailable after stop, got %v", err)
	}
}

func TestTraceWriterKeepsTracesAcceptedDuringStop(t *testing.T) {
	for round := 0; round < 20; round++ {
		repo := &testhelpers.TraceRepositoryStub{}
		w := NewTraceWriter(repo, 4096, 8, time.Hour, 2, discardLogger())
		w.Start(context.Background())

		var (
			accepted atomic.Int64
			wg       sync.WaitGroup
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					if err := w.Enqueue(model.LogTrace{MachineName: "web", Message: "m"}); err != nil {
						return
					}
					accepted.Add(1)
				}
			}()
		}
		time.Sleep(time.Millisecond)
		w.Stop()
		wg.Wait()

		if got := int64(repo.Count()); got != accepted.Load() {
			t.Fatalf("round %d: accepted %d traces, persisted %d", round, accepted.Load(), got)
		}
	}
}

func TestTraceWriterQueueFull(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	repo := &testhelpers.TraceRepositoryStub{CreateFn: func(context.Context, []model.LogTrace) error {
		atomic.AddInt32(&calls, 1)
		<-release
		return nil
	}}
	w := NewTraceWriter(repo, 1, 1, time.Hour, 1, discardLogger())
	w.Start(context.Background())

	var rejected error
	for i := 0; i < 50 && rejected == nil; i++ {
		rejected = w.Enqueue(model.LogTrace{Message: "flood"})
	}
	close(release)
	w.Stop()

	if !errors.Is(rejected, domainErrors.ErrUnavailable) {
		t.Fatalf("expected queue full error, got %v", rejected)
	}
	if atomic.LoadInt32(&calls) == 0 {
		t.Fatalf("expected at least one batch written")
	}
}

func TestTraceWriterLogsRepositoryErrors(t *testing.T) {
	var calls int32
	repo := &testhelpers.TraceRepositoryStub{CreateFn: func(context.Context, []model.LogTrace) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("db down")
	}}
	w := NewTraceWriter(repo, 4, 1, time.Hour, 1, discardLogger())
	w.Start(context.Background())

	if err := w.Enqueue(model.LogTrace{Message: "m"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	waitFor(t, func() bool { return atomic.LoadInt32(&calls) == 1 })
	w.Stop()
}
