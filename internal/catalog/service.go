package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
)

// Service is the catalog cache: an explicitly owned, refreshable view of
// the sellable products. The cache has a defined lifecycle — Refresh on
// session start, explicit refresh thereafter — instead of ambient global
// state. Writes go through to the repository and update the cache; reads
// elsewhere in the system are eventually consistent with out-of-band
// catalog edits until the next refresh.
type Service interface {
	Refresh(ctx context.Context) error
	List() []models.Product
	Get(id uuid.UUID) (*models.Product, error)
	Upsert(ctx context.Context, input UpsertProductInput) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository

	mu    sync.RWMutex
	byID  map[uuid.UUID]models.Product
	order []uuid.UUID
}

// NewService builds the catalog cache over the given repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, byID: map[uuid.UUID]models.Product{}}, nil
}

// Refresh reloads the full product set from persistence.
func (s *service) Refresh(ctx context.Context) error {
	products, err := s.repo.List(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product catalog")
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	order := make([]uuid.UUID, 0, len(products))
	for _, product := range products {
		byID[product.ID] = product
		order = append(order, product.ID)
	}

	s.mu.Lock()
	s.byID = byID
	s.order = order
	s.mu.Unlock()
	return nil
}

// List returns the cached products in catalog order.
func (s *service) List() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Get returns the cached product. A miss is a stale reference: the
// product was deleted or the cache has not seen it yet.
func (s *service) Get(id uuid.UUID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.byID[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStale, "product missing from catalog cache").
			WithDetails(map[string]any{"product_id": id})
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStale, "product is no longer sellable").
			WithDetails(map[string]any{"product_id": id})
	}
	copied := product
	return &copied, nil
}

// RecipeLineInput references one ingredient a product uses.
type RecipeLineInput struct {
	IngredientID uuid.UUID
	Unit         enums.IngredientUnit
}

// UpsertProductInput captures a catalog write. A nil ID inserts.
type UpsertProductInput struct {
	ID       *uuid.UUID
	Name     string
	Category enums.ProductCategory
	Price    decimal.Decimal
	Tags     []string
	IsActive *bool
	Recipe   []RecipeLineInput
}

// Upsert validates and persists a product, then updates the cache entry.
func (s *service) Upsert(ctx context.Context, input UpsertProductInput) (uuid.UUID, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.Category.IsValid() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	if input.Price.IsNegative() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	for _, line := range input.Recipe {
		if line.IngredientID == uuid.Nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe ingredient id is required")
		}
		if !line.Unit.IsValid() {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid recipe unit")
		}
	}

	product := &models.Product{
		Name:     name,
		Category: input.Category,
		Price:    input.Price,
		Tags:     input.Tags,
		IsActive: true,
	}
	if input.ID != nil {
		product.ID = *input.ID
	} else {
		product.ID = uuid.New()
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	for i, line := range input.Recipe {
		product.Recipe = append(product.Recipe, models.RecipeLine{
			ProductID:    product.ID,
			IngredientID: line.IngredientID,
			Unit:         line.Unit,
			Position:     i,
		})
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist product")
	}

	saved, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}

	s.mu.Lock()
	if _, exists := s.byID[saved.ID]; !exists {
		s.order = append(s.order, saved.ID)
	}
	s.byID[saved.ID] = *saved
	s.mu.Unlock()

	return saved.ID, nil
}

// Delete removes the product from persistence and the cache. Open cart
// lines referencing it keep their frozen data.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}

	s.mu.Lock()
	delete(s.byID, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}
