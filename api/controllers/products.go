package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mateovidal/techmart-backend/api/responses"
	"github.com/mateovidal/techmart-backend/api/validators"
	productssvc "github.com/mateovidal/techmart-backend/internal/products"
	"github.com/mateovidal/techmart-backend/pkg/db/models"
	"github.com/mateovidal/techmart-backend/pkg/logger"
)

type createProductRequest struct {
	SKU               string          `json:"sku" validate:"required"`
	Name              string          `json:"name" validate:"required"`
	Description       *string         `json:"description"`
	PriceAmount       decimal.Decimal `json:"price_amount" validate:"required"`
	ImageURL          *string         `json:"image_url"`
	ComponentCategory *string         `json:"component_category"`
	CompatibilityTags []string        `json:"compatibility_tags"`
	InitialStock      int             `json:"initial_stock" validate:"gte=0"`
	IsActive          *bool           `json:"is_active"`
}

type updateProductRequest struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	PriceAmount       *decimal.Decimal `json:"price_amount"`
	ImageURL          *string          `json:"image_url"`
	CompatibilityTags *[]string        `json:"compatibility_tags"`
	IsActive          *bool            `json:"is_active"`
}

type productResponse struct {
	ID                uuid.UUID `json:"id"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	Description       *string   `json:"description,omitempty"`
	PriceAmount       string    `json:"price_amount"`
	ImageURL          *string   `json:"image_url,omitempty"`
	ComponentCategory *string   `json:"component_category,omitempty"`
	CompatibilityTags []string  `json:"compatibility_tags"`
	IsActive          bool      `json:"is_active"`
	Stock             *int      `json:"stock,omitempty"`
}

func newProductResponse(product *models.Product) productResponse {
	out := productResponse{
		ID:                product.ID,
		SKU:               product.SKU,
		Name:              product.Name,
		Description:       product.Description,
		PriceAmount:       product.PriceAmount.StringFixed(2),
		ImageURL:          product.ImageURL,
		CompatibilityTags: product.CompatibilityTags,
		IsActive:          product.IsActive,
	}
	if product.ComponentCategory != nil {
		category := product.ComponentCategory.String()
		out.ComponentCategory = &category
	}
	if product.Inventory != nil {
		stock := product.Inventory.Stock
		out.Stock = &stock
	}
	return out
}

// ProductsList returns every active listing.
func ProductsList(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]productResponse, len(list))
		for i := range list {
			out[i] = newProductResponse(&list[i])
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductsGet returns one listing with its stock level.
func ProductsGet(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// ProductsCreate publishes a listing with its initial stock.
func ProductsCreate(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := true
		if payload.IsActive != nil {
			active = *payload.IsActive
		}

		product, err := svc.Create(r.Context(), productssvc.CreateProductInput{
			SKU:               payload.SKU,
			Name:              payload.Name,
			Description:       payload.Description,
			PriceAmount:       payload.PriceAmount,
			ImageURL:          payload.ImageURL,
			ComponentCategory: payload.ComponentCategory,
			CompatibilityTags: payload.CompatibilityTags,
			InitialStock:      payload.InitialStock,
			IsActive:          active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(product))
	}
}

// ProductsUpdate mutates a listing; absent fields are untouched.
func ProductsUpdate(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), productID, productssvc.UpdateProductInput{
			Name:              payload.Name,
			Description:       payload.Description,
			PriceAmount:       payload.PriceAmount,
			ImageURL:          payload.ImageURL,
			CompatibilityTags: payload.CompatibilityTags,
			IsActive:          payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(product))
	}
}
