package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/elegantjewelry/jewelbox-backend/pkg/db/models"
)

// CustomerDTO is the admin-facing account view with purchase aggregates.
type CustomerDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Phone              *string    `json:"phone,omitempty"`
	IsActive           bool       `json:"is_active"`
	OrderCount         int64      `json:"order_count"`
	LifetimeSpendCents int64      `json:"lifetime_spend_cents"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func fromModel(u *models.User, stats orderStats) CustomerDTO {
	return CustomerDTO{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Phone:              u.Phone,
		IsActive:           u.IsActive,
		OrderCount:         stats.OrderCount,
		LifetimeSpendCents: stats.SpendCents,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
	}
}
