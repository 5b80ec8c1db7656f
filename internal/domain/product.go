package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by the user who created it.
type Product struct {
	ID          string
	Title       string
	Price       decimal.Decimal
	Description string
	// ImagePath is relative to the storage root, e.g. "images/<uuid>.png".
	ImagePath string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy reports whether userID created the product.
func (p *Product) IsOwnedBy(userID string) bool {
	return p.OwnerID != "" && p.OwnerID == userID
}

// ProductRepository defines the interface for product storage.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) (*Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	// FindByIDs returns the products that still exist; missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*Product, error)
	Update(ctx context.Context, product *Product) (*Product, error)
	// DeleteByIDAndOwner removes the product only if ownerID owns it.
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error
	// List returns one page of all products, newest first, plus the total count.
	List(ctx context.Context, page Page) ([]*Product, int64, error)
	ListByOwner(ctx context.Context, ownerID string, page Page) ([]*Product, int64, error)
}
