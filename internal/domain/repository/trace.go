package repository

import (
	"context"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

// TraceRepository persists frontend error traces.
type TraceRepository interface {
	CreateBatch(ctx context.Context, traces []model.LogTrace) error
}
