package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/domain/model"
	"github.com/polkiloo/betacycle/internal/domain/repository"
)

const writeTimeout = 5 * time.Second

// TraceWriter buffers frontend traces and persists them in batches from a worker pool.
type TraceWriter struct {
	repo          repository.TraceRepository
	batchSize     int
	flushInterval time.Duration
	workers       int
	logger        *slog.Logger

	queue   chan model.LogTrace
	jobs    chan []model.LogTrace
	running atomic.Bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.RWMutex
}

// NewTraceWriter constructs trace writer worker pool.
func NewTraceWriter(repo repository.TraceRepository, queueSize, batchSize int, flushInterval time.Duration, workers int, logger *slog.Logger) *TraceWriter {
	if queueSize <= 0 {
		queueSize = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	return &TraceWriter{
		repo:          repo,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		workers:       workers,
		logger:        logger,
		queue:         make(chan model.LogTrace, queueSize),
		jobs:          make(chan []model.LogTrace, workers),
	}
}

// Enqueue hands trace to the writer without blocking. A trace accepted here is
// always persisted, even when Stop runs concurrently.
func (w *TraceWriter) Enqueue(trace model.LogTrace) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.running.Load() {
		return fmt.Errorf("trace writer stopped: %w", domainErrors.ErrUnavailable)
	}
	select {
	case w.queue <- trace:
		return nil
	default:
		return fmt.Errorf("trace queue full: %w", domainErrors.ErrUnavailable)
	}
}

// Start launches background processing.
func (w *TraceWriter) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.worker(runCtx)
	}

	w.wg.Add(1)
	go w.dispatch(runCtx)
	w.running.Store(true)
}

// Stop flushes queued traces and waits for all workers to finish.
func (w *TraceWriter) Stop() {
	w.mu.Lock()
	w.running.Store(false)
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *TraceWriter) dispatch(ctx context.Context) {
	defer w.wg.Done()
	defer close(w.jobs)
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	batch := make([]model.LogTrace, 0, w.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		w.jobs <- batch
		batch = make([]model.LogTrace, 0, w.batchSize)
	}
	add := func(trace model.LogTrace) {
		batch = append(batch, trace)
		if len(batch) >= w.batchSize {
			flush()
		}
	}

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case trace := <-w.queue:
					add(trace)
				default:
					flush()
					return
				}
			}
		case trace := <-w.queue:
			add(trace)
		case <-ticker.C:
			flush()
		}
	}
}

func (w *TraceWriter) worker(ctx context.Context) {
	defer w.wg.Done()
	for batch := range w.jobs {
		w.write(ctx, batch)
	}
}

func (w *TraceWriter) write(ctx context.Context, batch []model.LogTrace) {
	// Batches drained during shutdown are still written.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := w.repo.CreateBatch(writeCtx, batch); err != nil {
		w.logger.Error("persist frontend traces failed", slog.Int("count", len(batch)), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug("frontend traces persisted", slog.Int("count", len(batch)))
}
