package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics records counters for the cart-to-order pipeline.
type CommerceMetrics struct {
	ordersPlaced     *prometheus.CounterVec
	stockAdjustments *prometheus.CounterVec
	cartOps          *prometheus.CounterVec
}

// NewCommerceMetrics registers the pipeline metrics on the provided registerer.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders persisted, by source (checkout or admin).",
	}, []string{"source"})
	stockAdjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Inventory adjustments applied, by mode.",
	}, []string{"mode"})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations, by operation and outcome.",
	}, []string{"op", "outcome"})
	reg.MustRegister(ordersPlaced, stockAdjustments, cartOps)
	return &CommerceMetrics{
		ordersPlaced:     ordersPlaced,
		stockAdjustments: stockAdjustments,
		cartOps:          cartOps,
	}
}

// IncOrderPlaced increments the placed-order counter for the given source.
func (c *CommerceMetrics) IncOrderPlaced(source string) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncStockAdjustment increments the adjustment counter for the given mode.
func (c *CommerceMetrics) IncStockAdjustment(mode string) {
	if c == nil || c.stockAdjustments == nil {
		return
	}
	c.stockAdjustments.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncCartOp increments the cart-operation counter.
func (c *CommerceMetrics) IncCartOp(op, outcome string) {
	if c == nil || c.cartOps == nil {
		return
	}
	c.cartOps.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
