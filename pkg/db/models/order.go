package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/pkg/enums"
)

// Order is the persisted snapshot taken at checkout confirmation. Money
// fields are rounded to two places when the snapshot is written; the item
// list never changes after creation.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerLabel   string            `gorm:"column:customer_label;not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'in_progress'"`
	DiscountApplied bool              `gorm:"column:discount_applied;not null;default:false"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DiscountAmount  decimal.Decimal   `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	CashTendered    decimal.Decimal   `gorm:"column:cash_tendered;type:numeric(10,2);not null"`
	ChangeGiven     decimal.Decimal   `gorm:"column:change_given;type:numeric(10,2);not null"`
	Items           []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CompletedAt     *time.Time        `gorm:"column:completed_at"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem freezes one cart line at checkout time, price included,
// so later catalog edits do not alter historical orders.
type OrderLineItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	Option      string          `gorm:"column:option;not null;default:''"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(10,2);not null"`
}
