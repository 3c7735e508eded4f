package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mateovidal/techmart-backend/internal/cart"
	"github.com/mateovidal/techmart-backend/pkg/logger"
)

const shopperIDHeader = "X-Shopper-Id"

type shopperIDKey struct{}

// ShopperContext resolves the shopper identity from the request header. An
// absent or blank header falls back to the shared guest identity so the cart
// and build flows never depend on ambient session state.
func ShopperContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shopperID := strings.TrimSpace(r.Header.Get(shopperIDHeader))
			if shopperID == "" {
				shopperID = cart.GuestShopperID
			}

			ctx := context.WithValue(r.Context(), shopperIDKey{}, shopperID)
			if logg != nil {
				ctx = logg.WithShopperID(ctx, shopperID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ShopperIDFromContext returns the resolved shopper id, or the guest identity
// when the middleware did not run.
func ShopperIDFromContext(ctx context.Context) string {
	if shopperID, ok := ctx.Value(shopperIDKey{}).(string); ok && shopperID != "" {
		return shopperID
	}
	return cart.GuestShopperID
}
