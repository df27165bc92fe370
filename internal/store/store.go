package store

import (
	"context"
	"errors"

	"backend/internal/models"
)

// ErrInvalidID marks a missing or malformed record identifier. It is returned
// before any remote call is made.
var ErrInvalidID = errors.New("invalid record id")

// ErrNoSuchUser marks a fetch or update whose target document does not exist,
// as opposed to a transport failure.
var ErrNoSuchUser = errors.New("no such user")

// UserStore is the document-store surface the account screens depend on.
// Handlers receive it as a parameter so tests can substitute doubles.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields models.UserFields) error
	ListUsers(ctx context.Context, page, limit int64) ([]models.User, int64, error)
}

type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) (string, error)
	ListProducts(ctx context.Context, page, limit int64) ([]models.Product, int64, error)
}
