package test

import (
	"context"
	"sync"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

// AccountFacadeStub provides controllable behaviour for user endpoints.
type AccountFacadeStub struct {
	RegisterFn func(context.Context, model.User, string) (*model.User, error)
	ProfileFn  func(context.Context, string) (*model.User, error)
	ByIDFn     func(context.Context, int64) (*model.User, error)
}

// Register delegates to provided function or echoes the user back with an ID.
func (s AccountFacadeStub) Register(ctx context.Context, user model.User, password string) (*model.User, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, user, password)
	}
	user.ID = 1
	user.Role = model.RoleUser
	return &user, nil
}

// Profile returns a predefined user for the given mail.
func (s AccountFacadeStub) Profile(ctx context.Context, mail string) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, mail)
	}
	return &model.User{ID: 1, Name: "Alice", Surname: "Doe", Mail: mail, Role: model.RoleUser}, nil
}

// ProfileByID returns a predefined user with the given id.
func (s AccountFacadeStub) ProfileByID(ctx context.Context, id int64) (*model.User, error) {
	if s.ByIDFn != nil {
		return s.ByIDFn(ctx, id)
	}
	return &model.User{ID: id, Name: "Alice", Surname: "Doe", Mail: "alice@x.com", Role: model.RoleUser}, nil
}

// TraceFacadeStub records reported frontend errors.
type TraceFacadeStub struct {
	ReportFn func(context.Context, model.LogTrace) error
}

// ReportFrontendError delegates to provided function or accepts the trace.
func (s TraceFacadeStub) ReportFrontendError(ctx context.Context, trace model.LogTrace) error {
	if s.ReportFn != nil {
		return s.ReportFn(ctx, trace)
	}
	return nil
}

// HealthFacadeStub reports configured health.
type HealthFacadeStub struct {
	HealthFn func(context.Context) error
}

// Health delegates to provided function or reports healthy.
func (s HealthFacadeStub) Health(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// TraceSinkStub collects enqueued traces.
type TraceSinkStub struct {
	Err      error
	mu       sync.Mutex
	Enqueued []model.LogTrace
}

// Enqueue stores trace unless an error is configured.
func (s *TraceSinkStub) Enqueue(trace model.LogTrace) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Enqueued = append(s.Enqueued, trace)
	return nil
}

// HealthCheckerStub returns configured ping error.
type HealthCheckerStub struct {
	Err   error
	Calls int
}

// HealthCheck records the call and returns Err.
func (s *HealthCheckerStub) HealthCheck(context.Context) error {
	s.Calls++
	return s.Err
}
