package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is the application-side record for an authenticated member. The
// identity itself (credentials, email verification, sessions) lives with the
// auth provider; AuthID is the provider's subject claim.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	AuthID    string     `json:"authId"`
	Name      *string    `json:"nome,omitempty"`
	Email     string     `json:"email"`
	Phone     *string    `json:"telefone,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

type ProfileRepository interface {
	GetByAuthID(ctx context.Context, authID string) (*Profile, error)
	CreateOrGetByAuthID(ctx context.Context, authID, email string, name *string) (*Profile, error)
	Update(ctx context.Context, authID string, name, phone *string) (*Profile, error)
	UpdateEmail(ctx context.Context, authID, email string) (*Profile, error)
	SoftDelete(ctx context.Context, authID string) error
}
