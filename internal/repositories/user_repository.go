package repositories

import (
	"context"
	"errors"

	"inventory/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for operator account storage.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
}
