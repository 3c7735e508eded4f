package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mateovidal/techmart-backend/api/middleware"
	"github.com/mateovidal/techmart-backend/api/responses"
	"github.com/mateovidal/techmart-backend/api/validators"
	checkoutsvc "github.com/mateovidal/techmart-backend/internal/checkout"
	"github.com/mateovidal/techmart-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerID      uuid.UUID `json:"customer_id" validate:"required"`
	ShippingAddress string    `json:"shipping_address" validate:"required"`
	Notes           *string   `json:"notes"`
}

type checkoutResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	TotalAmount string    `json:"total_amount"`
}

// Checkout converts the shopper's cart into a pending order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), shopperID, checkoutsvc.Input{
			CustomerID:      payload.CustomerID,
			ShippingAddress: payload.ShippingAddress,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:     result.OrderID,
			TotalAmount: result.TotalAmount.StringFixed(2),
		})
	}
}
