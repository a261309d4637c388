package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the storefront's Prometheus collectors. A nil Recorder, or
// one built without a registerer, records nothing.
type Recorder struct {
	cartMutations *prometheus.CounterVec
	ordersPlaced  *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New registers the collectors on the provided registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return &Recorder{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakehouse_cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakehouse_orders_placed_total",
		Help: "Orders placed at checkout by delivery method.",
	}, []string{"delivery_method"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakehouse_order_status_changes_total",
		Help: "Order status changes by target status.",
	}, []string{"status"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bakehouse_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(cartMutations, ordersPlaced, statusChanges, httpDuration)
	return &Recorder{
		cartMutations: cartMutations,
		ordersPlaced:  ordersPlaced,
		statusChanges: statusChanges,
		httpDuration:  httpDuration,
	}
}

// CartMutation counts one cart operation (add, update, remove, clear).
func (r *Recorder) CartMutation(op string) {
	if r == nil || r.cartMutations == nil {
		return
	}
	r.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// OrderPlaced counts a successful checkout.
func (r *Recorder) OrderPlaced(deliveryMethod string) {
	if r == nil || r.ordersPlaced == nil {
		return
	}
	r.ordersPlaced.WithLabelValues(normalizeLabel(deliveryMethod)).Inc()
}

// StatusChanged counts an order moving to status.
func (r *Recorder) StatusChanged(status string) {
	if r == nil || r.statusChanges == nil {
		return
	}
	r.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveHTTP records the latency of a served request.
func (r *Recorder) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if r == nil || r.httpDuration == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
