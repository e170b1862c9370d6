package register

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/internal/pricing"
	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
)

// OptionNone is the sentinel option for direct-add products, which never
// prompt the operator for a variant.
const OptionNone = ""

// LineKey identifies a cart line. Two lines for the same product with
// different options are distinct entries.
type LineKey struct {
	ProductID uuid.UUID `json:"product_id"`
	Option    string    `json:"option"`
}

// Line is one cart entry. UnitPrice is frozen at add time so later
// catalog price edits do not retroactively change an open cart.
type Line struct {
	Key         LineKey
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Cart is the mutable working set for the order being built. It is
// single-owner session state: callers serialize access (see Session).
type Cart struct {
	lines map[LineKey]*Line
	order []LineKey
}

func NewCart() *Cart {
	return &Cart{lines: map[LineKey]*Line{}}
}

// AddItem merges on (product, option): an existing line gains quantity 1,
// otherwise a new line is inserted with the product's current price
// frozen in.
func (c *Cart) AddItem(product *models.Product, option string) (LineKey, error) {
	if product == nil {
		return LineKey{}, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}

	option = strings.TrimSpace(option)
	switch product.Category {
	case enums.ProductCategoryDirectAdd:
		if option != OptionNone {
			return LineKey{}, pkgerrors.New(pkgerrors.CodeValidation, "direct-add products do not take an option")
		}
	case enums.ProductCategoryOptionSelect:
		if option == OptionNone {
			return LineKey{}, pkgerrors.New(pkgerrors.CodeValidation, "option is required for this product")
		}
	default:
		return LineKey{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}

	key := LineKey{ProductID: product.ID, Option: option}
	if existing, ok := c.lines[key]; ok {
		existing.Quantity++
		return key, nil
	}

	c.lines[key] = &Line{
		Key:         key,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    1,
	}
	c.order = append(c.order, key)
	return key, nil
}

// Increment raises the line's quantity by one.
func (c *Cart) Increment(key LineKey) error {
	line, ok := c.lines[key]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart line not found")
	}
	line.Quantity++
	return nil
}

// Decrement lowers the line's quantity by one; reaching zero removes the
// line entirely so quantity-0 lines never surface.
func (c *Cart) Decrement(key LineKey) error {
	line, ok := c.lines[key]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart line not found")
	}
	line.Quantity--
	if line.Quantity <= 0 {
		c.remove(key)
	}
	return nil
}

func (c *Cart) remove(key LineKey) {
	delete(c.lines, key)
	for i, candidate := range c.order {
		if candidate == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Lines returns the cart contents in insertion order. The returned slice
// is a copy; mutating it does not affect the cart.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.lines[key])
	}
	return out
}

// PriceLines projects the cart into the pricing engine's input.
func (c *Cart) PriceLines() []pricing.Line {
	out := make([]pricing.Line, 0, len(c.order))
	for _, key := range c.order {
		line := c.lines[key]
		out = append(out, pricing.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
	}
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) reset() {
	c.lines = map[LineKey]*Line{}
	c.order = nil
}
