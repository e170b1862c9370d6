package register

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/internal/pricing"
	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	"github.com/beanflow/cafe-pos-backend/pkg/metrics"
)

type catalogSource interface {
	Get(id uuid.UUID) (*models.Product, error)
}

// Session is the single active register: one cart, one receipt gate.
// Interaction is single-operator, but HTTP handlers may overlap, so the
// session serializes its own mutations.
type Session struct {
	mu      sync.Mutex
	cart    *Cart
	gate    receiptGate
	catalog catalogSource
	metrics *metrics.RegisterMetrics
}

// NewSession builds a register session over the catalog cache.
func NewSession(catalog catalogSource, m *metrics.RegisterMetrics) (*Session, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	return &Session{cart: NewCart(), catalog: catalog, metrics: m}, nil
}

// AddItem resolves the product through the catalog cache and merges it
// into the cart. Stock status is advisory and is never consulted here.
func (s *Session) AddItem(ctx context.Context, productID uuid.UUID, option string) (LineKey, error) {
	product, err := s.catalog.Get(productID)
	if err != nil {
		return LineKey{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key, err := s.cart.AddItem(product, option)
	if err != nil {
		return LineKey{}, err
	}
	s.metrics.IncCartAdd()
	return key, nil
}

func (s *Session) Increment(key LineKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Increment(key)
}

func (s *Session) Decrement(key LineKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Decrement(key)
}

// Clear resets the cart for the next customer. Allowed freely before
// checkout; after checkout the receipt gate decides (printed, or forced
// operator override).
func (s *Session) Clear(force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gate.allowsClear(force); err != nil {
		return err
	}
	s.cart.reset()
	s.gate.disarm()
	return nil
}

// Lines returns the cart contents for rendering.
func (s *Session) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// PriceLines projects the cart into the pricing engine's input.
func (s *Session) PriceLines() []pricing.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.PriceLines()
}

func (s *Session) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

// Totals carries the computed amounts, rounded for presentation.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// Totals recomputes pricing over the current cart. Pure function of cart
// contents plus the discount flag.
func (s *Session) Totals(discountApplied bool) Totals {
	lines := s.PriceLines()
	return Totals{
		Subtotal:       pricing.Round2(pricing.Subtotal(lines)),
		DiscountAmount: pricing.Round2(pricing.DiscountAmount(lines, discountApplied)),
		Total:          pricing.Round2(pricing.Total(lines, discountApplied)),
	}
}

// ArmReceipt records that checkout persisted the given order and the
// printed-receipt acknowledgement is now pending.
func (s *Session) ArmReceipt(orderID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.arm(orderID)
}

// MarkReceiptPrinted acknowledges the print action (one-way).
func (s *Session) MarkReceiptPrinted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.markPrinted()
}

// ReceiptState reports the pending order and gate state for rendering.
// ok is false when no receipt is pending.
func (s *Session) ReceiptState() (orderID uuid.UUID, state enums.ReceiptState, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gate.armed {
		return uuid.Nil, "", false
	}
	return s.gate.orderID, s.gate.state, true
}
