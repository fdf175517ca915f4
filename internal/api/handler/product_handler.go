package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// ProductHandler serves the catalog endpoints.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Add handles POST /api/products/add.
//
// @Summary      List a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      addProductRequest  true  "Product; tags may be a comma separated string"
// @Success      201   {object}  addProductResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /products/add [post]
func (h *ProductHandler) Add(c echo.Context) error {
	caller, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req addProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product, err := h.service.AddProduct(c.Request().Context(), ports.AddProductInput{
		SellerID:    caller.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       float64(req.Price),
		Image:       req.Image,
		Tags:        strings.Join(req.Tags, ","),
	})
	if err != nil {
		return err
	}

	metrics.ProductsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, addProductResponse{
		Message: "Product added successfully!",
		Product: toProductResponse(product),
	})
}

// UploadImage handles POST /api/products/image.
//
// @Summary      Upload a product image
// @Tags         products
// @Accept       mpfd
// @Produce      json
// @Security     CookieAuth
// @Param        image  formData  file  true  "Image file"
// @Success      201    {object}  imageUploadResponse
// @Failure      400    {object}  messageResponse
// @Failure      403    {object}  messageResponse
// @Failure      503    {object}  messageResponse
// @Router       /products/image [post]
func (h *ProductHandler) UploadImage(c echo.Context) error {
	caller, err := sessionUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	file, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is unreadable")
	}
	defer file.Close()

	url, err := h.service.UploadImage(c.Request().Context(), ports.ImageUpload{
		SellerID:    caller.ID,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        file,
	})
	metrics.ImageUploadsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, imageUploadResponse{URL: url})
}

// ListMine handles GET /api/products/seller.
//
// @Summary      Products of the current seller
// @Tags         products
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   productResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /products/seller [get]
func (h *ProductHandler) ListMine(c echo.Context) error {
	caller, err := sessionUser(c)
	if err != nil {
		return err
	}

	products, err := h.service.ListBySeller(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(products))
}

// ListAll handles GET /api/products.
//
// @Summary      All products with their sellers
// @Tags         products
// @Produce      json
// @Success      200  {array}  listingResponse
// @Router       /products [get]
func (h *ProductHandler) ListAll(c echo.Context) error {
	listings, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponses(listings))
}

// Update handles PUT /api/products/:id. Fields omitted from the body keep
// their stored value.
//
// @Summary      Edit a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      updateProductRequest  true  "Fields to change"
// @Success      200   {object}  productResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	caller, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product, err := h.service.UpdateProduct(c.Request().Context(), caller.ID, c.Param("id"), req.toProductPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	caller, err := sessionUser(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.Request().Context(), caller.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// Buy handles POST /api/products/buy/:id.
//
// @Summary      Buy one unit of a product
// @Tags         products
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  purchaseResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /products/buy/{id} [post]
func (h *ProductHandler) Buy(c echo.Context) error {
	sold, err := h.service.Purchase(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.PurchasesTotal.Inc()
	return c.JSON(http.StatusOK, purchaseResponse{
		Message:   "Product purchased successfully!",
		SoldCount: sold,
	})
}

// Search handles GET /api/products/search?q=.
//
// @Summary      Search products by tag and text
// @Tags         products
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {array}   productResponse
// @Router       /products/search [get]
func (h *ProductHandler) Search(c echo.Context) error {
	products, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}

	metrics.SearchResults.Observe(float64(len(products)))
	return c.JSON(http.StatusOK, toProductResponses(products))
}
