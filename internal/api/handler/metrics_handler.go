package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/ports"
)

type MetricsHandler struct {
	service ports.SellerMetricsService
}

func NewMetricsHandler(service ports.SellerMetricsService) *MetricsHandler {
	return &MetricsHandler{service: service}
}

// Seller handles GET /api/metrics/seller.
//
// @Summary      Seller dashboard figures
// @Tags         metrics
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.SellerMetrics
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /metrics/seller [get]
func (h *MetricsHandler) Seller(c echo.Context) error {
	caller, err := sessionUser(c)
	if err != nil {
		return err
	}

	m, err := h.service.GetSellerMetrics(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}
