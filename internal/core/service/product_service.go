package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// DefaultMaxImageBytes caps product image uploads.
const DefaultMaxImageBytes = 5 << 20

type ProductService struct {
	repo          ports.ProductRepository
	images        ports.ImageStore
	maxImageBytes int64
	now           func() time.Time
	logger        zerolog.Logger
}

// NewProductService wires the catalog. images may be nil when object storage
// is not configured; uploads then fail with domain.ErrStorageUnavailable.
func NewProductService(repo ports.ProductRepository, images ports.ImageStore, maxImageBytes int64, logger zerolog.Logger) *ProductService {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &ProductService{
		repo:          repo,
		images:        images,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
		logger:        logger,
	}
}

func (s *ProductService) AddProduct(ctx context.Context, in ports.AddProductInput) (*domain.Product, error) {
	now := s.now().UTC()
	product := &domain.Product{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Tags:        domain.ParseTags(in.Tags),
		SellerID:    in.SellerID,
		SoldCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("seller_id", in.SellerID).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Str("seller_id", in.SellerID).Msg("product created")
	return created, nil
}

// UploadImage stores a product picture under the seller's prefix and returns
// its public URL.
func (s *ProductService) UploadImage(ctx context.Context, in ports.ImageUpload) (string, error) {
	if s.images == nil {
		return "", domain.ErrStorageUnavailable
	}
	if !strings.HasPrefix(in.ContentType, "image/") || in.Size <= 0 || in.Size > s.maxImageBytes {
		return "", domain.ErrInvalidImage
	}

	key := fmt.Sprintf("products/%s/%s%s", in.SellerID, uuid.NewString(), strings.ToLower(filepath.Ext(in.Filename)))

	url, err := s.images.Put(ctx, key, in.Body, in.Size, in.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	s.logger.Info().Str("seller_id", in.SellerID).Str("key", key).Msg("product image uploaded")
	return url, nil
}

func (s *ProductService) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

func (s *ProductService) ListAll(ctx context.Context) ([]*domain.ProductListing, error) {
	return s.repo.ListWithSellers(ctx)
}

// UpdateProduct applies patch when callerID owns the product.
func (s *ProductService) UpdateProduct(ctx context.Context, callerID, productID string, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.ownedProduct(ctx, callerID, productID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return product, nil
	}

	patch.Apply(product)
	product.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", productID).Str("seller_id", callerID).Msg("product updated")
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, callerID, productID string) error {
	if _, err := s.ownedProduct(ctx, callerID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", productID).Str("seller_id", callerID).Msg("product deleted")
	return nil
}

// Purchase records one sale and returns the new sold count.
func (s *ProductService) Purchase(ctx context.Context, productID string) (int, error) {
	sold, err := s.repo.IncrementSold(ctx, productID)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Str("product_id", productID).Int("sold_count", sold).Msg("product purchased")
	return sold, nil
}

// Search returns exact tag matches, then partial tag matches, then
// title/description matches, each product listed once at its best rank.
// The exact and text tiers use the query as sent, surrounding spaces
// included. A blank query yields an empty result.
func (s *ProductService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return []*domain.Product{}, nil
	}

	exact, err := s.repo.FindByExactTag(ctx, strings.ToLower(query))
	if err != nil {
		return nil, fmt.Errorf("search exact tags: %w", err)
	}
	partial, err := s.repo.FindByTagFragments(ctx, strings.Fields(query))
	if err != nil {
		return nil, fmt.Errorf("search partial tags: %w", err)
	}
	text, err := s.repo.FindByText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}

	return mergeRanked(exact, partial, text), nil
}

// mergeRanked concatenates tiers in order and keeps the first occurrence of
// every product id.
func mergeRanked(tiers ...[]*domain.Product) []*domain.Product {
	seen := make(map[string]struct{})
	out := []*domain.Product{}
	for _, tier := range tiers {
		for _, p := range tier {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func (s *ProductService) ownedProduct(ctx context.Context, callerID, productID string) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(callerID) {
		return nil, domain.ErrForbidden
	}
	return product, nil
}
