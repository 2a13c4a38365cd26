package app

import (
	"context"
	"errors"

	"github.com/polkiloo/betacycle/internal/domain/model"
	"github.com/polkiloo/betacycle/internal/usecase"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckers checks every store and joins their failures.
type HealthCheckers []HealthChecker

func (h HealthCheckers) HealthCheck(ctx context.Context) error {
	var errs []error
	for _, checker := range h {
		if err := checker.HealthCheck(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BetaCycleFacade is the single entry point the HTTP layer talks to.
type BetaCycleFacade struct {
	login    *usecase.LoginUseCase
	accounts *usecase.AccountUseCase
	traces   *usecase.TraceUseCase
	health   HealthChecker
}

func NewBetaCycleFacade(login *usecase.LoginUseCase, accounts *usecase.AccountUseCase, traces *usecase.TraceUseCase, health HealthChecker) *BetaCycleFacade {
	return &BetaCycleFacade{login: login, accounts: accounts, traces: traces, health: health}
}

func (f *BetaCycleFacade) Login(ctx context.Context, username, password string) (string, error) {
	return f.login.Login(ctx, username, password)
}

func (f *BetaCycleFacade) Authenticate(ctx context.Context, username, password string) (model.Principal, error) {
	return f.login.Authenticate(ctx, username, password)
}

func (f *BetaCycleFacade) ParseToken(token string) (model.Principal, error) {
	return f.login.ParseToken(token)
}

func (f *BetaCycleFacade) Register(ctx context.Context, user model.User, password string) (*model.User, error) {
	return f.accounts.Register(ctx, user, password)
}

func (f *BetaCycleFacade) Profile(ctx context.Context, mail string) (*model.User, error) {
	return f.accounts.Profile(ctx, mail)
}

func (f *BetaCycleFacade) ProfileByID(ctx context.Context, id int64) (*model.User, error) {
	return f.accounts.ProfileByID(ctx, id)
}

func (f *BetaCycleFacade) ReportFrontendError(ctx context.Context, trace model.LogTrace) error {
	return f.traces.Report(ctx, trace)
}

func (f *BetaCycleFacade) Health(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
