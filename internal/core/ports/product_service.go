package ports

import (
	"context"
	"io"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// AddProductInput is the seller's new-product form. Tags is comma separated.
type AddProductInput struct {
	SellerID    string
	Title       string
	Description string
	Price       float64
	Image       string
	Tags        string
}

// ImageUpload is a product picture received from a seller.
type ImageUpload struct {
	SellerID    string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProductService defines catalog use cases.
type ProductService interface {
	AddProduct(ctx context.Context, in AddProductInput) (*domain.Product, error)
	UploadImage(ctx context.Context, in ImageUpload) (string, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error)
	ListAll(ctx context.Context) ([]*domain.ProductListing, error)
	UpdateProduct(ctx context.Context, callerID, productID string, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, callerID, productID string) error
	Purchase(ctx context.Context, productID string) (int, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)
}

// ImageStore persists uploaded images and returns a public URL.
type ImageStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}
