package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/beanflow/cafe-pos-backend/internal/ledger"
	"github.com/beanflow/cafe-pos-backend/internal/pricing"
	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
	"github.com/beanflow/cafe-pos-backend/pkg/metrics"
)

// txRunner runs a function inside one database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// allowedTransitions is the status toggle surface. Completed is terminal
// and is reachable only through the request/confirm pair, never through
// SetStatus.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusInProgress:    {enums.OrderStatusNotInProgress},
	enums.OrderStatusNotInProgress: {enums.OrderStatusInProgress},
}

// Service owns the order lifecycle from checkout to completion.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListActive(ctx context.Context) ([]models.Order, error)
	ListCompleted(ctx context.Context) ([]models.Order, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	RequestCompletion(ctx context.Context, id uuid.UUID) error
	CancelCompletion(id uuid.UUID) error
	ConfirmCompletion(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CompletionPending(id uuid.UUID) bool
}

type service struct {
	repo    Repository
	ledger  ledger.Service
	runner  txRunner
	metrics *metrics.RegisterMetrics
	now     func() time.Time

	checkoutInFlight atomic.Bool

	// pending completion marks live only in memory; a restart clears
	// them and the operator simply requests completion again.
	pendingMu sync.Mutex
	pending   map[uuid.UUID]struct{}
}

// NewService builds the order lifecycle service.
func NewService(repo Repository, ledgerSvc ledger.Service, runner txRunner, registerMetrics *metrics.RegisterMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if runner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		ledger:  ledgerSvc,
		runner:  runner,
		metrics: registerMetrics,
		now:     time.Now,
		pending: map[uuid.UUID]struct{}{},
	}, nil
}

// CheckoutLine is one frozen cart line entering checkout.
type CheckoutLine struct {
	ProductID   uuid.UUID
	ProductName string
	Option      string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CheckoutInput carries everything checkout confirmation needs.
type CheckoutInput struct {
	CustomerLabel   string
	DiscountApplied bool
	CashTendered    decimal.Decimal
	Lines           []CheckoutLine
}

// Checkout validates the sale, recomputes all money amounts from the
// frozen lines, and persists the order, its items, and the income ledger
// entry in one transaction. Nothing is written when any step fails.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if !s.checkoutInFlight.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a checkout is already in flight")
	}
	defer s.checkoutInFlight.Store(false)

	order, err := s.buildOrder(input)
	if err != nil {
		s.metrics.IncCheckoutFailure()
		return nil, err
	}

	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		return s.ledger.WithTx(tx).RecordIncome(ctx, order.ID, order.Total)
	})
	if err != nil {
		s.metrics.IncCheckoutFailure()
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout transaction")
	}

	s.metrics.IncCheckout()
	return order, nil
}

func (s *service) buildOrder(input CheckoutInput) (*models.Order, error) {
	label := strings.TrimSpace(input.CustomerLabel)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer label is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot check out an empty cart")
	}

	priceLines := make([]pricing.Line, 0, len(input.Lines))
	items := make([]models.OrderLineItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line product id is required")
		}
		if strings.TrimSpace(line.ProductName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line product name is required")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line unit price must be non-negative")
		}
		priceLines = append(priceLines, pricing.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, models.OrderLineItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Option:      line.Option,
			Quantity:    line.Quantity,
			UnitPrice:   pricing.Round2(line.UnitPrice),
			LineTotal:   pricing.Round2(lineTotal),
		})
	}

	change := pricing.Change(priceLines, input.DiscountApplied, input.CashTendered)
	if change.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash tendered does not cover the total").
			WithDetails(map[string]any{"shortfall": pricing.Round2(change.Neg()).String()})
	}

	return &models.Order{
		CustomerLabel:   label,
		Status:          enums.OrderStatusInProgress,
		DiscountApplied: input.DiscountApplied,
		Subtotal:        pricing.Round2(pricing.Subtotal(priceLines)),
		DiscountAmount:  pricing.Round2(pricing.DiscountAmount(priceLines, input.DiscountApplied)),
		Total:           pricing.Round2(pricing.Total(priceLines, input.DiscountApplied)),
		CashTendered:    pricing.Round2(input.CashTendered),
		ChangeGiven:     pricing.Round2(change),
		Items:           items,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// ListActive returns the open board: orders still being worked or
// parked, oldest first.
func (s *service) ListActive(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.ListByStatuses(ctx, []enums.OrderStatus{
		enums.OrderStatusInProgress,
		enums.OrderStatusNotInProgress,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active orders")
	}
	return orders, nil
}

func (s *service) ListCompleted(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.ListByStatuses(ctx, []enums.OrderStatus{enums.OrderStatusCompleted})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list completed orders")
	}
	return orders, nil
}

// SetStatus toggles an order between the two working statuses.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status == status {
		return nil
	}
	if !transitionAllowed(order.Status, status) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
			WithDetails(map[string]any{"from": order.Status, "to": status})
	}
	if err := s.repo.UpdateStatus(ctx, id, status, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// RequestCompletion marks the order as awaiting operator confirmation.
// The mark does not change the persisted status.
func (s *service) RequestCompletion(ctx context.Context, id uuid.UUID) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if order.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already completed")
	}

	s.pendingMu.Lock()
	s.pending[id] = struct{}{}
	s.pendingMu.Unlock()
	return nil
}

// CancelCompletion withdraws a pending completion mark. The order stays
// in its current status.
func (s *service) CancelCompletion(id uuid.UUID) error {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no completion pending for this order")
	}
	delete(s.pending, id)
	return nil
}

// ConfirmCompletion finalizes a pending completion. Only orders that went
// through RequestCompletion can reach the terminal status.
func (s *service) ConfirmCompletion(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	s.pendingMu.Lock()
	_, ok := s.pending[id]
	s.pendingMu.Unlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no completion pending for this order")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		s.clearPending(id)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already completed")
	}

	completedAt := s.now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, enums.OrderStatusCompleted, &completedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete order")
	}
	s.clearPending(id)
	s.metrics.IncCompletion()

	order.Status = enums.OrderStatusCompleted
	order.CompletedAt = &completedAt
	return order, nil
}

// CompletionPending reports whether the order awaits confirmation.
func (s *service) CompletionPending(id uuid.UUID) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	_, ok := s.pending[id]
	return ok
}

func (s *service) clearPending(id uuid.UUID) {
	s.pendingMu.Lock()
	delete(s.pending, id)
	s.pendingMu.Unlock()
}
