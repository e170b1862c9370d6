package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/pkg/enums"
)

// Product is a sellable catalog entry. Direct-add products go straight
// into the cart; option-select products carry a recipe and require a
// variant choice.
type Product struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string                `gorm:"column:name;not null"`
	Category  enums.ProductCategory `gorm:"column:category;type:product_category;not null"`
	Price     decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Tags      pq.StringArray        `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive  bool                  `gorm:"column:is_active;not null;default:true"`
	Recipe    []RecipeLine          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// RecipeLine advertises that a product uses an ingredient. It carries no
// quantity-per-unit: stock is advisory context, never decremented on sale.
type RecipeLine struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	IngredientID uuid.UUID            `gorm:"column:ingredient_id;type:uuid;not null"`
	Unit         enums.IngredientUnit `gorm:"column:unit;type:ingredient_unit;not null"`
	Position     int                  `gorm:"column:position;not null;default:0"`
}
