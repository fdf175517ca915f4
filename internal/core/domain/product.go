package domain

import (
	"strings"
	"time"
)

// Product is a catalog entry owned by exactly one seller.
type Product struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Image       string
	Tags        []string
	SellerID    string
	SoldCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether userID is the owning seller.
func (p *Product) OwnedBy(userID string) bool {
	return p.SellerID != "" && p.SellerID == userID
}

// Earnings is price multiplied by units sold.
func (p *Product) Earnings() float64 {
	return p.Price * float64(p.SoldCount)
}

// SellerSummary is the public projection of a product's owner.
type SellerSummary struct {
	ID    string
	Name  string
	Email string
}

// ProductListing is a product with its seller joined in. Seller is nil when
// the owning user no longer exists.
type ProductListing struct {
	Product
	Seller *SellerSummary
}

// ProductPatch lists the product fields the owning seller may change.
// Presence is tracked by the pointer, so a zero price can be set explicitly.
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Image       *string
	Tags        *[]string
}

// Empty reports whether no field is present.
func (p ProductPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Image == nil && p.Tags == nil
}

// Apply copies every present field onto prod.
func (p ProductPatch) Apply(prod *Product) {
	if p.Title != nil {
		prod.Title = *p.Title
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Image != nil {
		prod.Image = *p.Image
	}
	if p.Tags != nil {
		prod.Tags = append([]string{}, (*p.Tags)...)
	}
}

// ParseTags splits a comma separated tag list, trimming each entry.
// Blank entries are dropped; an empty input yields an empty, non-nil slice.
func ParseTags(csv string) []string {
	tags := []string{}
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
