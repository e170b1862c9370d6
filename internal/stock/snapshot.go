package stock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
)

// LowStockThreshold is the fixed display threshold for the advisory
// badge. It is an engine-level default, distinct from any per-item
// reorder threshold inventory management may use.
var LowStockThreshold = decimal.NewFromInt(10)

// Snapshot holds the current ingredient quantities and expiry dates.
// Purely advisory: it informs the operator, it never blocks a sale.
// Refreshed on demand and by the inventory push subscription, so reads
// and refreshes may overlap.
type Snapshot struct {
	repo Repository

	mu   sync.RWMutex
	byID map[uuid.UUID]models.Ingredient
}

// NewSnapshot builds an empty snapshot over the inventory reader.
func NewSnapshot(repo Repository) (*Snapshot, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &Snapshot{repo: repo, byID: map[uuid.UUID]models.Ingredient{}}, nil
}

// Refresh reloads the full ingredient set from the inventory
// collaborator.
func (s *Snapshot) Refresh(ctx context.Context) error {
	ingredients, err := s.repo.ListIngredients(ctx, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient stock")
	}

	byID := make(map[uuid.UUID]models.Ingredient, len(ingredients))
	for _, ingredient := range ingredients {
		byID[ingredient.ID] = ingredient
	}

	s.mu.Lock()
	s.byID = byID
	s.mu.Unlock()
	return nil
}

// List passes through to the inventory reader with an optional category
// filter; the snapshot cache is not consulted so the listing is always
// current.
func (s *Snapshot) List(ctx context.Context, categoryFilter *string) ([]models.Ingredient, error) {
	ingredients, err := s.repo.ListIngredients(ctx, categoryFilter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ingredients")
	}
	return ingredients, nil
}

// LineAdvisory is the per-recipe-line status rendered before an
// option-select product is added to the cart.
type LineAdvisory struct {
	IngredientID   uuid.UUID            `json:"ingredient_id"`
	IngredientName string               `json:"ingredient_name"`
	Unit           enums.IngredientUnit `json:"unit"`
	Status         enums.StockStatus    `json:"status"`
	// MissingFromSnapshot flags a recipe reference with no stock row: a
	// data-quality signal, rendered as low (quantity 0, non-expired).
	MissingFromSnapshot bool `json:"missing_from_snapshot"`
}

// Advisory derives the stock badge for every recipe line of the product.
// Expired wins over low even when quantity is healthy.
func (s *Snapshot) Advisory(product *models.Product, now time.Time) []LineAdvisory {
	if product == nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LineAdvisory, 0, len(product.Recipe))
	for _, line := range product.Recipe {
		advisory := LineAdvisory{
			IngredientID: line.IngredientID,
			Unit:         line.Unit,
		}

		ingredient, ok := s.byID[line.IngredientID]
		if !ok {
			advisory.Status = enums.StockStatusLow
			advisory.MissingFromSnapshot = true
			out = append(out, advisory)
			continue
		}

		advisory.IngredientName = ingredient.Name
		advisory.Status = statusFor(ingredient, now)
		out = append(out, advisory)
	}
	return out
}

func statusFor(ingredient models.Ingredient, now time.Time) enums.StockStatus {
	if ingredient.ExpiresAt != nil && !dateOf(*ingredient.ExpiresAt).After(dateOf(now)) {
		return enums.StockStatusExpired
	}
	if ingredient.Quantity.LessThan(LowStockThreshold) {
		return enums.StockStatusLow
	}
	return enums.StockStatusOK
}

// dateOf truncates to the calendar day: expiry is a date comparison,
// "expires today" already counts as expired.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
