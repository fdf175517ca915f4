package handler

import (
	"strings"

	"github.com/storefront/commerce-api/internal/core/domain"
)

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toProductResponse(p *domain.Product) productResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Tags:        tags,
		SellerID:    p.SellerID,
		SoldCount:   p.SoldCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(ps []*domain.Product) []productResponse {
	out := make([]productResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toListingResponses(ls []*domain.ProductListing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		resp := listingResponse{productResponse: toProductResponse(&l.Product)}
		if l.Seller != nil {
			resp.SellerID = &sellerResponse{ID: l.Seller.ID, Name: l.Seller.Name, Email: l.Seller.Email}
		}
		out = append(out, resp)
	}
	return out
}

// toProductPatch keeps presence: only fields sent by the client are set.
func (r updateProductRequest) toProductPatch() domain.ProductPatch {
	patch := domain.ProductPatch{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
	}
	if r.Price != nil {
		price := float64(*r.Price)
		patch.Price = &price
	}
	if r.Tags != nil {
		tags := cleanTags(*r.Tags)
		patch.Tags = &tags
	}
	return patch
}

func (r updateProfileRequest) toUserPatch() domain.UserPatch {
	return domain.UserPatch{
		Name:     r.Name,
		Email:    r.Email,
		Address:  r.Address,
		Password: r.Password,
	}
}

func cleanTags(raw tagList) []string {
	return domain.ParseTags(strings.Join(raw, ","))
}
