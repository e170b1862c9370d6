package register

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
)

func optionProduct(name, price string) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: enums.ProductCategoryOptionSelect,
		Price:    decimal.RequireFromString(price),
	}
}

func directProduct(name, price string) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: enums.ProductCategoryDirectAdd,
		Price:    decimal.RequireFromString(price),
	}
}

func TestAddItemMergesOnProductAndOption(t *testing.T) {
	cart := NewCart()
	latte := optionProduct("Latte", "4.50")

	key1, err := cart.AddItem(latte, "sweet")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	key2, err := cart.AddItem(latte, "sweet")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if key1 != key2 {
		t.Fatal("same (product, option) should yield the same line key")
	}

	lines := cart.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", lines[0].Quantity)
	}
}

func TestDifferentOptionsAreDistinctLines(t *testing.T) {
	cart := NewCart()
	latte := optionProduct("Latte", "4.50")

	if _, err := cart.AddItem(latte, "sweet"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := cart.AddItem(latte, "unsweetened"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(cart.Lines()) != 2 {
		t.Fatalf("expected 2 distinct lines, got %d", len(cart.Lines()))
	}
}

func TestDirectAddRejectsOption(t *testing.T) {
	cart := NewCart()
	croissant := directProduct("Croissant", "2.80")

	if _, err := cart.AddItem(croissant, "sweet"); err == nil {
		t.Fatal("direct-add product should reject an option")
	}
	if _, err := cart.AddItem(croissant, OptionNone); err != nil {
		t.Fatalf("sentinel option should be accepted: %v", err)
	}
}

func TestOptionSelectRequiresOption(t *testing.T) {
	cart := NewCart()
	latte := optionProduct("Latte", "4.50")

	if _, err := cart.AddItem(latte, "  "); err == nil {
		t.Fatal("option-select product should require an option")
	}
}

func TestDecrementToZeroRemovesLine(t *testing.T) {
	cart := NewCart()
	latte := optionProduct("Latte", "4.50")
	key, _ := cart.AddItem(latte, "sweet")

	if err := cart.Increment(key); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := cart.Decrement(key); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if cart.Lines()[0].Quantity != 1 {
		t.Fatalf("quantity = %d, want 1", cart.Lines()[0].Quantity)
	}

	if err := cart.Decrement(key); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("decrement to zero should remove the line")
	}
	if err := cart.Decrement(key); err == nil {
		t.Fatal("removed line should not be decrementable")
	}
}

func TestQuantityNeverBelowOne(t *testing.T) {
	cart := NewCart()
	latte := optionProduct("Latte", "4.50")
	espresso := optionProduct("Espresso", "2.00")

	// Arbitrary interleaving of add/increment/decrement: no surviving
	// line may show quantity < 1.
	k1, _ := cart.AddItem(latte, "sweet")
	k2, _ := cart.AddItem(espresso, "double")
	_ = cart.Increment(k1)
	_ = cart.Decrement(k2)
	_ = cart.Decrement(k1)
	_ = cart.Decrement(k1)
	_, _ = cart.AddItem(latte, "sweet")

	for _, line := range cart.Lines() {
		if line.Quantity < 1 {
			t.Fatalf("line %v has quantity %d", line.Key, line.Quantity)
		}
	}
}

func TestUnitPriceFrozenAtAddTime(t *testing.T) {
	cart := NewCart()
	latte := optionProduct("Latte", "4.50")
	if _, err := cart.AddItem(latte, "sweet"); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Catalog edit after the line was added.
	latte.Price = decimal.RequireFromString("9.99")

	price := cart.PriceLines()
	if !price[0].UnitPrice.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("line price changed with catalog: %s", price[0].UnitPrice)
	}
}

func TestLinesPreserveInsertionOrder(t *testing.T) {
	cart := NewCart()
	a := optionProduct("Latte", "4.50")
	b := optionProduct("Mocha", "5.00")
	c := directProduct("Croissant", "2.80")

	_, _ = cart.AddItem(a, "sweet")
	kb, _ := cart.AddItem(b, "sweet")
	_, _ = cart.AddItem(c, OptionNone)
	_ = cart.Decrement(kb)

	lines := cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ProductName != "Latte" || lines[1].ProductName != "Croissant" {
		t.Fatalf("unexpected order: %s, %s", lines[0].ProductName, lines[1].ProductName)
	}
}
