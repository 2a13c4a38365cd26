package repository

import (
	"context"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

// LegacyCustomerRepository reads customers of the legacy store.
type LegacyCustomerRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.LegacyCustomer, error)
}
