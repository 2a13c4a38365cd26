package handlers

import (
	"context"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, username, password string) (model.Principal, error)
	ParseToken(token string) (model.Principal, error)
}

// AccountFacade exposes user registration and lookups.
type AccountFacade interface {
	Register(ctx context.Context, user model.User, password string) (*model.User, error)
	Profile(ctx context.Context, mail string) (*model.User, error)
	ProfileByID(ctx context.Context, id int64) (*model.User, error)
}

// TraceFacade accepts frontend error reports.
type TraceFacade interface {
	ReportFrontendError(ctx context.Context, trace model.LogTrace) error
}

// HealthFacade reports store reachability.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// BetaCycleFacade aggregates the full set of operations used across handlers.
type BetaCycleFacade interface {
	AuthFacade
	AccountFacade
	TraceFacade
	HealthFacade
}
