package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/beanflow/cafe-pos-backend/internal/ledger"
	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
)

type fakeOrderRepo struct {
	createFn       func(ctx context.Context, order *models.Order) error
	findFn         func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	listFn         func(ctx context.Context, statuses []enums.OrderStatus) ([]models.Order, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status enums.OrderStatus, completedAt *time.Time) error
}

func (f *fakeOrderRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if f.createFn != nil {
		return f.createFn(ctx, order)
	}
	order.ID = uuid.New()
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if f.findFn != nil {
		return f.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) ListByStatuses(ctx context.Context, statuses []enums.OrderStatus) ([]models.Order, error) {
	if f.listFn != nil {
		return f.listFn(ctx, statuses)
	}
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, completedAt *time.Time) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status, completedAt)
	}
	return nil
}

type fakeLedger struct {
	recordFn func(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) error
}

func (f *fakeLedger) WithTx(tx *gorm.DB) ledger.Service { return f }

func (f *fakeLedger) RecordIncome(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) error {
	if f.recordFn != nil {
		return f.recordFn(ctx, orderID, amount)
	}
	return nil
}

func (f *fakeLedger) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.LedgerEntry, error) {
	return nil, nil
}

type fakeRunner struct {
	calls int
}

func (f *fakeRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	return fn(nil)
}

func validCheckout() CheckoutInput {
	return CheckoutInput{
		CustomerLabel: "walk-in 7",
		CashTendered:  decimal.RequireFromString("10.00"),
		Lines: []CheckoutLine{
			{
				ProductID:   uuid.New(),
				ProductName: "Latte",
				Option:      "oat milk",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("4.50"),
			},
		},
	}
}

func newTestService(t *testing.T, repo Repository, led ledger.Service, runner txRunner) *service {
	t.Helper()
	if repo == nil {
		repo = &fakeOrderRepo{}
	}
	if led == nil {
		led = &fakeLedger{}
	}
	if runner == nil {
		runner = &fakeRunner{}
	}
	svc, err := NewService(repo, led, runner, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc.(*service)
}

func TestCheckoutPersistsOrderAndLedgerTogether(t *testing.T) {
	var persisted *models.Order
	var ledgerAmount decimal.Decimal
	runner := &fakeRunner{}
	repo := &fakeOrderRepo{
		createFn: func(ctx context.Context, order *models.Order) error {
			order.ID = uuid.New()
			persisted = order
			return nil
		},
	}
	led := &fakeLedger{
		recordFn: func(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) error {
			ledgerAmount = amount
			return nil
		},
	}
	svc := newTestService(t, repo, led, runner)

	input := validCheckout()
	input.DiscountApplied = true
	order, err := svc.Checkout(context.Background(), input)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if runner.calls != 1 {
		t.Fatalf("transactions = %d, want 1", runner.calls)
	}
	if persisted == nil {
		t.Fatal("order not persisted")
	}
	if !order.Subtotal.Equal(decimal.RequireFromString("9.00")) {
		t.Fatalf("subtotal = %s", order.Subtotal)
	}
	if !order.DiscountAmount.Equal(decimal.RequireFromString("1.80")) {
		t.Fatalf("discount = %s", order.DiscountAmount)
	}
	if !order.Total.Equal(decimal.RequireFromString("7.20")) {
		t.Fatalf("total = %s", order.Total)
	}
	if !order.ChangeGiven.Equal(decimal.RequireFromString("2.80")) {
		t.Fatalf("change = %s", order.ChangeGiven)
	}
	if !ledgerAmount.Equal(order.Total) {
		t.Fatalf("ledger amount = %s, want %s", ledgerAmount, order.Total)
	}
	if len(order.Items) != 1 || order.Items[0].Option != "oat milk" {
		t.Fatalf("items = %+v", order.Items)
	}
	if order.Status != enums.OrderStatusInProgress {
		t.Fatalf("status = %s", order.Status)
	}
}

func TestCheckoutInsufficientCashPersistsNothing(t *testing.T) {
	runner := &fakeRunner{}
	svc := newTestService(t, nil, nil, runner)

	input := validCheckout()
	input.CashTendered = decimal.RequireFromString("8.99")

	_, err := svc.Checkout(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if runner.calls != 0 {
		t.Fatal("no transaction should run when cash is short")
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["shortfall"] != "0.01" {
		t.Fatalf("details = %v", typed.Details())
	}
}

func TestCheckoutValidation(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	tests := []struct {
		name   string
		mutate func(*CheckoutInput)
	}{
		{"empty label", func(in *CheckoutInput) { in.CustomerLabel = "  " }},
		{"no lines", func(in *CheckoutInput) { in.Lines = nil }},
		{"zero quantity", func(in *CheckoutInput) { in.Lines[0].Quantity = 0 }},
		{"nil product", func(in *CheckoutInput) { in.Lines[0].ProductID = uuid.Nil }},
		{"blank name", func(in *CheckoutInput) { in.Lines[0].ProductName = "" }},
		{"negative price", func(in *CheckoutInput) { in.Lines[0].UnitPrice = decimal.RequireFromString("-1") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validCheckout()
			tc.mutate(&input)
			_, err := svc.Checkout(context.Background(), input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCheckoutRejectsOverlappingAttempt(t *testing.T) {
	var svc *service
	var nested error
	repo := &fakeOrderRepo{
		createFn: func(ctx context.Context, order *models.Order) error {
			_, nested = svc.Checkout(ctx, validCheckout())
			order.ID = uuid.New()
			return nil
		},
	}
	svc = newTestService(t, repo, nil, nil)

	if _, err := svc.Checkout(context.Background(), validCheckout()); err != nil {
		t.Fatalf("outer checkout: %v", err)
	}
	typed := pkgerrors.As(nested)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("overlapping checkout should conflict, got %v", nested)
	}
}

func TestCheckoutLedgerFailureAbortsTransaction(t *testing.T) {
	led := &fakeLedger{
		recordFn: func(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) error {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("disk full"), "persist ledger entry")
		},
	}
	svc := newTestService(t, nil, led, nil)

	_, err := svc.Checkout(context.Background(), validCheckout())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func storedOrder(status enums.OrderStatus) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		CustomerLabel: "walk-in 7",
		Status:        status,
	}
}

func TestSetStatusToggles(t *testing.T) {
	order := storedOrder(enums.OrderStatusInProgress)
	var updatedTo enums.OrderStatus
	repo := &fakeOrderRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			copied := *order
			return &copied, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status enums.OrderStatus, completedAt *time.Time) error {
			updatedTo = status
			return nil
		},
	}
	svc := newTestService(t, repo, nil, nil)

	if err := svc.SetStatus(context.Background(), order.ID, enums.OrderStatusNotInProgress); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updatedTo != enums.OrderStatusNotInProgress {
		t.Fatalf("updated to %s", updatedTo)
	}
}

func TestSetStatusSameStatusIsNoOp(t *testing.T) {
	order := storedOrder(enums.OrderStatusInProgress)
	updates := 0
	repo := &fakeOrderRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			copied := *order
			return &copied, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status enums.OrderStatus, completedAt *time.Time) error {
			updates++
			return nil
		},
	}
	svc := newTestService(t, repo, nil, nil)

	if err := svc.SetStatus(context.Background(), order.ID, enums.OrderStatusInProgress); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updates != 0 {
		t.Fatal("no-op toggle should not write")
	}
}

func TestSetStatusCannotReachCompletedDirectly(t *testing.T) {
	order := storedOrder(enums.OrderStatusInProgress)
	repo := &fakeOrderRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			copied := *order
			return &copied, nil
		},
	}
	svc := newTestService(t, repo, nil, nil)

	err := svc.SetStatus(context.Background(), order.ID, enums.OrderStatusCompleted)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("direct completion should conflict, got %v", err)
	}
}

func TestCompletionRequiresRequestThenConfirm(t *testing.T) {
	order := storedOrder(enums.OrderStatusInProgress)
	var completedAt *time.Time
	repo := &fakeOrderRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			copied := *order
			return &copied, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status enums.OrderStatus, at *time.Time) error {
			if status != enums.OrderStatusCompleted {
				t.Fatalf("unexpected status write %s", status)
			}
			completedAt = at
			return nil
		},
	}
	svc := newTestService(t, repo, nil, nil)

	if _, err := svc.ConfirmCompletion(context.Background(), order.ID); pkgerrors.As(err) == nil {
		t.Fatalf("confirm without request should conflict, got %v", err)
	}

	if err := svc.RequestCompletion(context.Background(), order.ID); err != nil {
		t.Fatalf("RequestCompletion: %v", err)
	}
	if !svc.CompletionPending(order.ID) {
		t.Fatal("completion mark not recorded")
	}

	confirmed, err := svc.ConfirmCompletion(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("ConfirmCompletion: %v", err)
	}
	if confirmed.Status != enums.OrderStatusCompleted {
		t.Fatalf("status = %s", confirmed.Status)
	}
	if completedAt == nil || confirmed.CompletedAt == nil {
		t.Fatal("completed timestamp not set")
	}
	if svc.CompletionPending(order.ID) {
		t.Fatal("completion mark should clear after confirm")
	}
}

func TestCancelCompletionLeavesOrderUntouched(t *testing.T) {
	order := storedOrder(enums.OrderStatusInProgress)
	updates := 0
	repo := &fakeOrderRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			copied := *order
			return &copied, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status enums.OrderStatus, at *time.Time) error {
			updates++
			return nil
		},
	}
	svc := newTestService(t, repo, nil, nil)

	if err := svc.RequestCompletion(context.Background(), order.ID); err != nil {
		t.Fatalf("RequestCompletion: %v", err)
	}
	if err := svc.CancelCompletion(order.ID); err != nil {
		t.Fatalf("CancelCompletion: %v", err)
	}
	if svc.CompletionPending(order.ID) {
		t.Fatal("mark should clear on cancel")
	}
	if updates != 0 {
		t.Fatal("cancel must not write the order")
	}

	if err := svc.CancelCompletion(order.ID); err == nil {
		t.Fatal("second cancel should conflict")
	}
}

func TestRequestCompletionOnCompletedOrderConflicts(t *testing.T) {
	order := storedOrder(enums.OrderStatusCompleted)
	repo := &fakeOrderRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			copied := *order
			return &copied, nil
		},
	}
	svc := newTestService(t, repo, nil, nil)

	err := svc.RequestCompletion(context.Background(), order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestGetUnknownOrderIsNotFound(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
