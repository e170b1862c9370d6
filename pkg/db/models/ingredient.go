package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/pkg/enums"
)

// Ingredient is one row of the inventory collaborator's stock, read-only
// from the register's perspective.
type Ingredient struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string               `gorm:"column:name;not null"`
	Category  *string              `gorm:"column:category"`
	Quantity  decimal.Decimal      `gorm:"column:quantity;type:numeric(12,3);not null;default:0"`
	Unit      enums.IngredientUnit `gorm:"column:unit;type:ingredient_unit;not null"`
	ExpiresAt *time.Time           `gorm:"column:expires_at;type:date"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
