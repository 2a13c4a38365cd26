package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/domain/model"
	"github.com/polkiloo/betacycle/internal/logger"
)

// TraceSink accepts traces for asynchronous persistence.
type TraceSink interface {
	Enqueue(trace model.LogTrace) error
}

// TraceUseCase records errors reported by frontend clients.
type TraceUseCase struct {
	sink   TraceSink
	logger *slog.Logger
	now    func() time.Time
}

// NewTraceUseCase constructs TraceUseCase.
func NewTraceUseCase(sink TraceSink, log *slog.Logger) *TraceUseCase {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &TraceUseCase{sink: sink, logger: log, now: time.Now}
}

// Report validates trace, mirrors it into the service log and queues it for storage.
func (u *TraceUseCase) Report(ctx context.Context, trace model.LogTrace) error {
	trace.MachineName = strings.TrimSpace(trace.MachineName)
	trace.Message = strings.TrimSpace(trace.Message)
	if trace.MachineName == "" || trace.Message == "" {
		return domainErrors.ErrInvalidInput
	}

	trace.Level = NormalizeTraceLevel(string(trace.Level))
	if trace.Logged.IsZero() {
		trace.Logged = u.now()
	}

	u.logger.Log(ctx, slogLevel(trace.Level), "frontend error",
		"machine", trace.MachineName,
		"logged", trace.Logged,
		"message", trace.Message,
	)

	if err := u.sink.Enqueue(trace); err != nil {
		u.logger.WarnContext(ctx, "frontend error dropped", "machine", trace.MachineName, "error", err)
		return fmt.Errorf("enqueue trace: %w", err)
	}
	return nil
}

// NormalizeTraceLevel maps raw onto a known level. Unknown values become ERROR.
func NormalizeTraceLevel(raw string) model.TraceLevel {
	switch level := model.TraceLevel(strings.ToUpper(strings.TrimSpace(raw))); level {
	case model.TraceLevelDebug, model.TraceLevelInfo, model.TraceLevelWarn, model.TraceLevelError, model.TraceLevelFatal:
		return level
	case "WARNING":
		return model.TraceLevelWarn
	default:
		return model.TraceLevelError
	}
}

func slogLevel(level model.TraceLevel) slog.Level {
	switch level {
	case model.TraceLevelDebug:
		return slog.LevelDebug
	case model.TraceLevelInfo:
		return slog.LevelInfo
	case model.TraceLevelWarn:
		return slog.LevelWarn
	case model.TraceLevelFatal:
		return logger.LevelFatal
	default:
		return slog.LevelError
	}
}
