package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// messageResponse is the envelope for plain acknowledgements and errors.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token,omitempty"`
	User    *userResponse `json:"user"`
}

// --- Users ---

type userResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// updateProfileRequest uses pointers so an omitted field is left unchanged
// while an explicit empty string is written.
type updateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"    validate:"omitnil,email"`
	Address  *string `json:"address"`
	Password *string `json:"password" validate:"omitnil,min=1"`
}

type profileSummary struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Role    string `json:"role"`
}

type updateProfileResponse struct {
	Message string         `json:"message"`
	User    profileSummary `json:"user"`
}

// --- Products ---

// tagList accepts either a comma separated string or a JSON array.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = nil
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err == nil {
		*t = strings.Split(csv, ",")
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

// priceValue accepts a JSON number or a numeric string such as "499".
type priceValue float64

func (p *priceValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = priceValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("price %q is not a number", s)
	}
	*p = priceValue(n)
	return nil
}

type addProductRequest struct {
	Title string `json:"title" validate:"required,notblank"`
	// Name is the older client's field for the title.
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       priceValue `json:"price"       swaggertype:"number"`
	Image       string     `json:"image"`
	Tags        tagList    `json:"tags"        swaggertype:"array,string"`
}

func (r *addProductRequest) normalize() {
	if strings.TrimSpace(r.Title) == "" {
		r.Title = r.Name
	}
}

type updateProductRequest struct {
	Title       *string     `json:"title" validate:"omitnil,notblank"`
	Description *string     `json:"description"`
	Price       *priceValue `json:"price"       swaggertype:"number"`
	Image       *string     `json:"image"`
	Tags        *tagList    `json:"tags"        swaggertype:"array,string"`
}

type productResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	SellerID    string    `json:"sellerId"`
	SoldCount   int       `json:"soldCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type sellerResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// listingResponse is a product whose sellerId is replaced by the seller
// object, or null when the seller no longer exists.
type listingResponse struct {
	productResponse
	SellerID *sellerResponse `json:"sellerId"`
}

type addProductResponse struct {
	Message string          `json:"message"`
	Product productResponse `json:"product"`
}

type imageUploadResponse struct {
	URL string `json:"url"`
}

type purchaseResponse struct {
	Message   string `json:"message"`
	SoldCount int    `json:"soldCount"`
}

// --- Payments ---

type paymentIntentRequest struct {
	Amount int64 `json:"amount"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
