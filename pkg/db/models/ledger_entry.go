package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/pkg/enums"
)

// LedgerEntry is one append-only financial record row. Checkout records
// exactly one income entry equal to the order's final total.
type LedgerEntry struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID             `gorm:"column:order_id;type:uuid;not null"`
	Type      enums.LedgerEntryType `gorm:"column:type;type:ledger_entry_type;not null"`
	Amount    decimal.Decimal       `gorm:"column:amount;type:numeric(10,2);not null"`
	Note      *string               `gorm:"column:note"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
