package controllers

import (
	"net/http"

	"github.com/mateovidal/techmart-backend/api/responses"
	"github.com/mateovidal/techmart-backend/api/validators"
	inventorysvc "github.com/mateovidal/techmart-backend/internal/inventory"
	"github.com/mateovidal/techmart-backend/pkg/enums"
	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
	"github.com/mateovidal/techmart-backend/pkg/logger"
)

type adjustStockRequest struct {
	Mode   string `json:"mode" validate:"required"`
	Amount int    `json:"amount" validate:"gte=0"`
}

type stockResponse struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

// InventoryGet returns the current stock level for a product.
func InventoryGet(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stock, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stockResponse{ProductID: productID.String(), Stock: stock})
	}
}

// InventoryAdjust applies a set, add, or remove mutation to a product's stock.
func InventoryAdjust(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParseStockAdjustmentMode(payload.Mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid adjustment mode"))
			return
		}

		stock, err := svc.Adjust(r.Context(), productID, mode, payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stockResponse{ProductID: productID.String(), Stock: stock})
	}
}
