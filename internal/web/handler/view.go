package handler

import (
	"time"

	"github.com/permgate/permgate/internal/db/models"
)

// UserView is the external form of a user.
type UserView struct {
	ID         uint64    `json:"id"`
	Email      string    `json:"email"`
	Firstname  string    `json:"firstname"`
	Lastname   string    `json:"lastname"`
	IsVerified bool      `json:"is_verified"`
	Roles      []string  `json:"roles"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUserView returns the external form of u, baseline role included.
func NewUserView(u *models.User) UserView {
	return UserView{
		ID:         u.ID,
		Email:      u.Email,
		Firstname:  u.Firstname,
		Lastname:   u.Lastname,
		IsVerified: u.IsVerified,
		Roles:      u.Roles(),
		CreatedAt:  u.CreatedAt,
	}
}
