package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegisterMetrics counts register activity for the operations dashboard.
type RegisterMetrics struct {
	cartAdds         prometheus.Counter
	checkouts        prometheus.Counter
	checkoutFailures prometheus.Counter
	completions      prometheus.Counter
}

// NewRegisterMetrics registers the register counters on the provided
// registerer. A nil registerer yields a no-op instance, which keeps tests
// free of global registry state.
func NewRegisterMetrics(reg prometheus.Registerer) *RegisterMetrics {
	if reg == nil {
		return &RegisterMetrics{}
	}
	cartAdds := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_cart_adds_total",
		Help: "Line items added to the register cart.",
	})
	checkouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_checkouts_total",
		Help: "Orders persisted at checkout.",
	})
	checkoutFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_checkout_failures_total",
		Help: "Checkout attempts rejected or failed.",
	})
	completions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_order_completions_total",
		Help: "Orders confirmed completed.",
	})
	reg.MustRegister(cartAdds, checkouts, checkoutFailures, completions)
	return &RegisterMetrics{
		cartAdds:         cartAdds,
		checkouts:        checkouts,
		checkoutFailures: checkoutFailures,
		completions:      completions,
	}
}

func (m *RegisterMetrics) IncCartAdd() {
	if m == nil || m.cartAdds == nil {
		return
	}
	m.cartAdds.Inc()
}

func (m *RegisterMetrics) IncCheckout() {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.Inc()
}

func (m *RegisterMetrics) IncCheckoutFailure() {
	if m == nil || m.checkoutFailures == nil {
		return
	}
	m.checkoutFailures.Inc()
}

func (m *RegisterMetrics) IncCompletion() {
	if m == nil || m.completions == nil {
		return
	}
	m.completions.Inc()
}
