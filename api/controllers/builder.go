package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateovidal/techmart-backend/api/middleware"
	"github.com/mateovidal/techmart-backend/api/responses"
	"github.com/mateovidal/techmart-backend/api/validators"
	buildersvc "github.com/mateovidal/techmart-backend/internal/builder"
	"github.com/mateovidal/techmart-backend/pkg/enums"
	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
	"github.com/mateovidal/techmart-backend/pkg/logger"
)

type selectComponentRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// BuildGet returns the shopper's in-progress build.
func BuildGet(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		build, err := svc.Get(r.Context(), shopperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, build)
	}
}

// BuildSelect places a product into its category slot.
func BuildSelect(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())

		var payload selectComponentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		build, err := svc.Select(r.Context(), shopperID, payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, build)
	}
}

// BuildDeselect empties one category slot.
func BuildDeselect(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())

		category, err := enums.ParseComponentCategory(chi.URLParam(r, "category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid component category"))
			return
		}

		build, err := svc.Deselect(r.Context(), shopperID, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, build)
	}
}

// BuildSummary evaluates completeness and compatibility.
func BuildSummary(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		summary, err := svc.Summary(r.Context(), shopperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// BuildCommit moves a finished build into the cart.
func BuildCommit(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		snapshot, err := svc.Commit(r.Context(), shopperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Cart: snapshot})
	}
}

// BuildClear resets the build.
func BuildClear(svc buildersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		if err := svc.Clear(r.Context(), shopperID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
