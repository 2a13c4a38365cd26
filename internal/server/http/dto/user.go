package dto

import (
	"time"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

// RegisterRequest describes registration payload.
type RegisterRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Phone        string `json:"phone"`
	EmailAddress string `json:"emailAddress" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
}

// User converts request into a domain user.
func (r RegisterRequest) User() model.User {
	return model.User{
		Name:    r.FirstName,
		Surname: r.LastName,
		Phone:   r.Phone,
		Mail:    r.EmailAddress,
	}
}

// UserResponse is the public view of a user. Credentials are never exposed.
type UserResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Surname          string    `json:"surname"`
	Phone            string    `json:"phone"`
	Mail             string    `json:"mail"`
	Role             string    `json:"role"`
	LegacyCustomerID *int64    `json:"legacyCustomerId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewUserResponse builds UserResponse from domain user.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Surname:          u.Surname,
		Phone:            u.Phone,
		Mail:             u.Mail,
		Role:             u.Role.String(),
		LegacyCustomerID: u.LegacyCustomerID,
		CreatedAt:        u.CreatedAt,
	}
}
