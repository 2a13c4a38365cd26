package test

import (
	"context"
	"strings"
	"sync"

	domainErrors "github.com/polkiloo/betacycle/internal/domain/errors"
	"github.com/polkiloo/betacycle/internal/domain/model"
)

// UserRepositoryStub stores users and credentials in-memory for tests.
// It satisfies both UserRepository and CredentialRepository. Users is keyed
// by lower-cased mail, matching the case-insensitive store.
type UserRepositoryStub struct {
	mu          sync.Mutex
	Users       map[string]*model.User
	ByID        map[int64]*model.User
	Credentials map[int64]*model.Credential
	Next        int64

	GetErr        error
	CreateErr     error
	CredentialErr error
	GetByMailFn   func(context.Context, string) (*model.User, error)
	CreateFn      func(context.Context, model.User, model.Credential) (*model.User, error)

	Creates int
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users:       make(map[string]*model.User),
		ByID:        make(map[int64]*model.User),
		Credentials: make(map[int64]*model.Credential),
		Next:        1,
	}
}

// Put stores user with credential bypassing uniqueness checks and overrides.
func (s *UserRepositoryStub) Put(user model.User, credential *model.Credential) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(user, credential)
}

func (s *UserRepositoryStub) put(user model.User, credential *model.Credential) *model.User {
	if s.Next == 0 {
		s.Next = 1
	}
	if user.ID == 0 {
		user.ID = s.Next
		s.Next++
	}
	stored := &user
	if credential != nil {
		cred := *credential
		cred.UserID = user.ID
		s.Credentials[user.ID] = &cred
		stored.Credential = &cred
	}
	s.Users[strings.ToLower(user.Mail)] = stored
	s.ByID[user.ID] = stored
	return stored
}

// GetByMail fetches user by mail or returns not found.
func (s *UserRepositoryStub) GetByMail(ctx context.Context, mail string) (*model.User, error) {
	if s.GetByMailFn != nil {
		return s.GetByMailFn(ctx, mail)
	}
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.Users[strings.ToLower(mail)]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CreateWithCredential registers user unless the mail is taken or stub has explicit error.
func (s *UserRepositoryStub) CreateWithCredential(ctx context.Context, user model.User, credential model.Credential) (*model.User, error) {
	s.mu.Lock()
	s.Creates++
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, user, credential)
	}
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Users[strings.ToLower(user.Mail)]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	return s.put(user, &credential), nil
}

// GetByUserID returns the credential stored for user id.
func (s *UserRepositoryStub) GetByUserID(ctx context.Context, userID int64) (*model.Credential, error) {
	if s.CredentialErr != nil {
		return nil, s.CredentialErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cred, ok := s.Credentials[userID]; ok {
		return cred, nil
	}
	return nil, domainErrors.ErrNotFound
}

// LegacyRepositoryStub serves legacy customers keyed by mail.
type LegacyRepositoryStub struct {
	Customers map[string]*model.LegacyCustomer
	Err       error
}

// GetByEmail returns the configured customer or not found.
func (s *LegacyRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.LegacyCustomer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for mail, c := range s.Customers {
		if strings.EqualFold(mail, email) {
			return c, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// TraceRepositoryStub records persisted batches.
type TraceRepositoryStub struct {
	mu       sync.Mutex
	Batches  [][]model.LogTrace
	CreateFn func(context.Context, []model.LogTrace) error
}

// CreateBatch records the batch or delegates to override.
func (s *TraceRepositoryStub) CreateBatch(ctx context.Context, traces []model.LogTrace) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, traces)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := make([]model.LogTrace, len(traces))
	copy(batch, traces)
	s.Batches = append(s.Batches, batch)
	return nil
}

// Count returns the number of persisted traces.
func (s *TraceRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, b := range s.Batches {
		total += len(b)
	}
	return total
}
