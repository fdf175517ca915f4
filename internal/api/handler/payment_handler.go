package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreateIntent handles POST /api/payments/create-payment-intent.
//
// @Summary      Start a card payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      paymentIntentRequest  true  "Amount in the smallest currency unit"
// @Success      200   {object}  paymentIntentResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /payments/create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req paymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	intent, err := h.service.CreatePaymentIntent(c.Request().Context(), req.Amount)
	metrics.PaymentIntentsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paymentIntentResponse{ClientSecret: intent.ClientSecret})
}
