package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// stubProductService records the last call of each kind.
type stubProductService struct {
	added    ports.AddProductInput
	patch    domain.ProductPatch
	upload   ports.ImageUpload
	uploaded []byte
	listings []*domain.ProductListing
	err      error
}

func (s *stubProductService) AddProduct(_ context.Context, in ports.AddProductInput) (*domain.Product, error) {
	s.added = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: "p1", Title: in.Title, Price: in.Price, Tags: domain.ParseTags(in.Tags), SellerID: in.SellerID}, nil
}

func (s *stubProductService) UploadImage(_ context.Context, in ports.ImageUpload) (string, error) {
	s.upload = in
	s.uploaded, _ = io.ReadAll(in.Body)
	return "http://images.local/p.png", s.err
}

func (s *stubProductService) ListBySeller(context.Context, string) ([]*domain.Product, error) {
	return nil, s.err
}

func (s *stubProductService) ListAll(context.Context) ([]*domain.ProductListing, error) {
	return s.listings, s.err
}

func (s *stubProductService) UpdateProduct(_ context.Context, callerID, productID string, patch domain.ProductPatch) (*domain.Product, error) {
	s.patch = patch
	if s.err != nil {
		return nil, s.err
	}
	p := &domain.Product{ID: productID, Title: "Lamp", Price: 10, SellerID: callerID}
	patch.Apply(p)
	return p, nil
}

func (s *stubProductService) DeleteProduct(context.Context, string, string) error { return s.err }

func (s *stubProductService) Purchase(context.Context, string) (int, error) { return 3, s.err }

func (s *stubProductService) Search(context.Context, string) ([]*domain.Product, error) {
	return []*domain.Product{}, s.err
}

func sellerContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	middleware.SetSession(c, &domain.User{ID: "seller-1", Role: domain.RoleSeller}, "tok")
	return c
}

func TestProductHandler_Add_NameFallbackAndTags(t *testing.T) {
	e := newTestEcho()
	svc := &stubProductService{}
	h := NewProductHandler(svc)

	req := jsonRequest(http.MethodPost, "/api/products/add", `{"name":"Denim Jacket","price":49.5,"tags":"denim, winter"}`)
	rec := httptest.NewRecorder()
	if err := h.Add(sellerContext(e, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.added.Title != "Denim Jacket" || svc.added.SellerID != "seller-1" || svc.added.Tags != "denim, winter" {
		t.Fatalf("unexpected input: %+v", svc.added)
	}

	var resp struct {
		Message string          `json:"message"`
		Product productResponse `json:"product"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !reflect.DeepEqual(resp.Product.Tags, []string{"denim", "winter"}) || resp.Product.SellerID != "seller-1" {
		t.Fatalf("unexpected product: %+v", resp.Product)
	}
}

func TestProductHandler_Add_TagArrayAndMissingTitle(t *testing.T) {
	e := newTestEcho()
	svc := &stubProductService{}
	h := NewProductHandler(svc)

	req := jsonRequest(http.MethodPost, "/api/products/add", `{"title":"Mug","tags":["kitchen","gift"]}`)
	if err := h.Add(sellerContext(e, req, httptest.NewRecorder())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.added.Tags != "kitchen,gift" {
		t.Fatalf("unexpected tags: %q", svc.added.Tags)
	}

	req = jsonRequest(http.MethodPost, "/api/products/add", `{"price":3}`)
	err := h.Add(sellerContext(e, req, httptest.NewRecorder()))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without title, got %v", err)
	}
}

func TestProductHandler_Update_TracksPresence(t *testing.T) {
	cases := []struct {
		body      string
		wantPrice *float64
		wantTitle *string
	}{
		{`{"price":0}`, ptr(0.0), nil},
		{`{"price":50}`, ptr(50.0), nil},
		{`{"title":"Desk lamp"}`, nil, ptr("Desk lamp")},
		{`{}`, nil, nil},
	}

	for _, tc := range cases {
		e := newTestEcho()
		svc := &stubProductService{}
		h := NewProductHandler(svc)

		req := jsonRequest(http.MethodPut, "/api/products/p1", tc.body)
		rec := httptest.NewRecorder()
		c := sellerContext(e, req, rec)
		c.SetParamNames("id")
		c.SetParamValues("p1")

		if err := h.Update(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.body, err)
		}
		if !reflect.DeepEqual(svc.patch.Price, tc.wantPrice) || !reflect.DeepEqual(svc.patch.Title, tc.wantTitle) {
			t.Errorf("%s: unexpected patch price=%v title=%v", tc.body, svc.patch.Price, svc.patch.Title)
		}
	}
}

func TestProductHandler_NegativePriceIsStored(t *testing.T) {
	e := newTestEcho()
	svc := &stubProductService{}
	h := NewProductHandler(svc)

	req := jsonRequest(http.MethodPost, "/api/products/add", `{"title":"Lamp","price":-5}`)
	rec := httptest.NewRecorder()
	if err := h.Add(sellerContext(e, req, rec)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.Code != http.StatusCreated || svc.added.Price != -5 {
		t.Fatalf("add: code=%d price=%v", rec.Code, svc.added.Price)
	}

	req = jsonRequest(http.MethodPut, "/api/products/p1", `{"price":-1}`)
	c := sellerContext(e, req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(svc.patch.Price, ptr(-1.0)) {
		t.Fatalf("update: unexpected price %v", svc.patch.Price)
	}
}

func TestProductHandler_PriceAsNumericString(t *testing.T) {
	e := newTestEcho()
	svc := &stubProductService{}
	h := NewProductHandler(svc)

	req := jsonRequest(http.MethodPost, "/api/products/add", `{"name":"Lamp","price":"499"}`)
	if err := h.Add(sellerContext(e, req, httptest.NewRecorder())); err != nil {
		t.Fatalf("add: %v", err)
	}
	if svc.added.Price != 499 {
		t.Fatalf("add: got price %v", svc.added.Price)
	}

	req = jsonRequest(http.MethodPut, "/api/products/p1", `{"price":" 12.5 "}`)
	c := sellerContext(e, req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(svc.patch.Price, ptr(12.5)) {
		t.Fatalf("update: unexpected price %v", svc.patch.Price)
	}

	req = jsonRequest(http.MethodPost, "/api/products/add", `{"title":"Lamp","price":"cheap"}`)
	err := h.Add(sellerContext(e, req, httptest.NewRecorder()))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric price, got %v", err)
	}
}

func TestProductHandler_Delete_Forbidden(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(&stubProductService{err: domain.ErrForbidden})

	req := httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil)
	if err := h.Delete(sellerContext(e, req, httptest.NewRecorder())); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProductHandler_ListAll_SellerObject(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(&stubProductService{listings: []*domain.ProductListing{
		{Product: domain.Product{ID: "p1", Title: "Lamp", SellerID: "s1"}, Seller: &domain.SellerSummary{ID: "s1", Name: "Sam", Email: "sam@example.com"}},
		{Product: domain.Product{ID: "p2", Title: "Orphan", SellerID: "gone"}},
	}})

	rec := httptest.NewRecorder()
	if err := h.ListAll(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/products", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	seller, ok := resp[0]["sellerId"].(map[string]any)
	if !ok || seller["name"] != "Sam" || seller["_id"] != "s1" {
		t.Fatalf("expected seller object, got %v", resp[0]["sellerId"])
	}
	if resp[1]["sellerId"] != nil {
		t.Fatalf("expected null seller, got %v", resp[1]["sellerId"])
	}
	if tags, ok := resp[0]["tags"].([]any); !ok || len(tags) != 0 {
		t.Fatalf("expected empty tags array, got %v", resp[0]["tags"])
	}
}

func TestProductHandler_UploadImage(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="lamp.png"`)
	header.Set("Content-Type", "image/png")
	part, _ := mw.CreatePart(header)
	_, _ = part.Write([]byte("\x89PNG data"))
	_ = mw.Close()

	e := newTestEcho()
	svc := &stubProductService{}
	h := NewProductHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/products/image", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	if err := h.UploadImage(sellerContext(e, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.upload.ContentType != "image/png" || svc.upload.Filename != "lamp.png" || string(svc.uploaded) != "\x89PNG data" {
		t.Fatalf("unexpected upload: %+v", svc.upload)
	}
}

func TestProductHandler_UploadImage_MissingFile(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(&stubProductService{})

	req := jsonRequest(http.MethodPost, "/api/products/image", `{}`)
	err := h.UploadImage(sellerContext(e, req, httptest.NewRecorder()))

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestProductHandler_Buy(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(&stubProductService{})

	rec := httptest.NewRecorder()
	if err := h.Buy(e.NewContext(httptest.NewRequest(http.MethodPost, "/api/products/buy/p1", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp purchaseResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.SoldCount != 3 || resp.Message == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTagList_Unmarshal(t *testing.T) {
	cases := map[string][]string{
		`"a, b"`:    {"a", " b"},
		`["a","b"]`: {"a", "b"},
		`null`:      nil,
		`[]`:        {},
	}
	for in, want := range cases {
		var got tagList
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !reflect.DeepEqual([]string(got), want) {
			t.Errorf("%s: got %#v, want %#v", in, got, want)
		}
	}

	var bad tagList
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Error("expected error for a number")
	}
}

func ptr[T any](v T) *T { return &v }
