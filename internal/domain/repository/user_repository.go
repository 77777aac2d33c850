package repository

import (
	"context"

	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByLogin finds a user by username or email (case-insensitive).
	GetByLogin(ctx context.Context, login string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id string, patch UserProfilePatch) (*entity.User, error)
	SetStatus(ctx context.Context, id string, status entity.UserStatus) (*entity.User, error)
	List(ctx context.Context, filter UserFilter, page Page) ([]entity.User, int, error)
}

type UserProfilePatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

type UserFilter struct {
	Role   entity.Role
	Status entity.UserStatus
	Search string
}
