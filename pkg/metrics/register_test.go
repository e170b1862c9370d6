package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegisterMetrics(reg)

	m.IncCartAdd()
	m.IncCartAdd()
	m.IncCheckout()
	m.IncCompletion()

	if got := testutil.ToFloat64(m.cartAdds); got != 2 {
		t.Fatalf("cart adds = %v", got)
	}
	if got := testutil.ToFloat64(m.checkouts); got != 1 {
		t.Fatalf("checkouts = %v", got)
	}
	if got := testutil.ToFloat64(m.completions); got != 1 {
		t.Fatalf("completions = %v", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewRegisterMetrics(nil)
	m.IncCartAdd()
	m.IncCheckout()
	m.IncCheckoutFailure()
	m.IncCompletion()
}
