package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// ProductRepository defines persistence operations for catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error)
	// ListWithSellers returns every product with its owner's name and email joined in.
	ListWithSellers(ctx context.Context) ([]*domain.ProductListing, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// IncrementSold atomically adds one to the sold count and returns the new value.
	IncrementSold(ctx context.Context, id string) (int, error)

	// FindByExactTag matches products having tag exactly (case-sensitive).
	FindByExactTag(ctx context.Context, tag string) ([]*domain.Product, error)
	// FindByTagFragments matches products having any tag that contains any of
	// the fragments, case-insensitively.
	FindByTagFragments(ctx context.Context, fragments []string) ([]*domain.Product, error)
	// FindByText matches products whose title or description contains text,
	// case-insensitively.
	FindByText(ctx context.Context, text string) ([]*domain.Product, error)
}
