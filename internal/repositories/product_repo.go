package repositories

import (
	"context"
	"errors"

	"inventory/internal/models"
)

// ErrProductNotFound is wrapped by every repository lookup that matches no row.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// FindByName returns the product whose name equals name exactly.
	FindByName(ctx context.Context, name string) (*models.Product, error)
	// SearchByName returns products whose name contains term, ignoring case.
	SearchByName(ctx context.Context, term string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}
