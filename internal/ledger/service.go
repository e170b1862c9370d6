package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/beanflow/cafe-pos-backend/internal/pricing"
	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
)

// Service records financial events against orders.
type Service interface {
	WithTx(tx *gorm.DB) Service
	RecordIncome(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.LedgerEntry, error)
}

type service struct {
	repo Repository
}

// NewService builds the ledger service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx)}
}

// RecordIncome writes the income entry for a settled sale. Amounts are
// rounded to cents at this persistence boundary.
func (s *service) RecordIncome(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "income amount must be non-negative")
	}

	entry := &models.LedgerEntry{
		OrderID: orderID,
		Type:    enums.LedgerEntryTypeIncome,
		Amount:  pricing.Round2(amount),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist ledger entry")
	}
	return nil
}

func (s *service) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.LedgerEntry, error) {
	entries, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}
	return entries, nil
}
