package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
)

type fakeRepository struct {
	listFn   func(ctx context.Context) ([]models.Product, error)
	saveFn   func(ctx context.Context, product *models.Product) error
	findFn   func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) List(ctx context.Context) ([]models.Product, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if f.findFn != nil {
		return f.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Save(ctx context.Context, product *models.Product) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, product)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func sampleProduct(name string) models.Product {
	return models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: enums.ProductCategoryOptionSelect,
		Price:    decimal.RequireFromString("4.50"),
		IsActive: true,
	}
}

func TestRefreshPopulatesCache(t *testing.T) {
	latte := sampleProduct("Latte")
	mocha := sampleProduct("Mocha")
	repo := &fakeRepository{
		listFn: func(ctx context.Context) ([]models.Product, error) {
			return []models.Product{latte, mocha}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if got := len(svc.List()); got != 2 {
		t.Fatalf("cached products = %d, want 2", got)
	}
	found, err := svc.Get(latte.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found.Name != "Latte" {
		t.Fatalf("unexpected product %q", found.Name)
	}
}

func TestGetMissIsStaleReference(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	_, err := svc.Get(uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStale {
		t.Fatalf("expected stale reference, got %v", err)
	}
}

func TestGetInactiveProductIsStale(t *testing.T) {
	inactive := sampleProduct("Retired Blend")
	inactive.IsActive = false
	repo := &fakeRepository{
		listFn: func(ctx context.Context) ([]models.Product, error) {
			return []models.Product{inactive}, nil
		},
	}
	svc, _ := NewService(repo)
	_ = svc.Refresh(context.Background())

	if _, err := svc.Get(inactive.ID); pkgerrors.As(err) == nil {
		t.Fatalf("inactive product should be stale, got %v", err)
	}
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	tests := []struct {
		name  string
		input UpsertProductInput
	}{
		{
			name:  "missing name",
			input: UpsertProductInput{Category: enums.ProductCategoryDirectAdd},
		},
		{
			name:  "bad category",
			input: UpsertProductInput{Name: "Latte", Category: enums.ProductCategory("snack")},
		},
		{
			name: "negative price",
			input: UpsertProductInput{
				Name:     "Latte",
				Category: enums.ProductCategoryDirectAdd,
				Price:    decimal.RequireFromString("-1"),
			},
		},
		{
			name: "recipe line without ingredient",
			input: UpsertProductInput{
				Name:     "Latte",
				Category: enums.ProductCategoryOptionSelect,
				Recipe:   []RecipeLineInput{{Unit: enums.IngredientUnitMilliliter}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Upsert(context.Background(), tc.input); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestUpsertWritesThroughAndCaches(t *testing.T) {
	var saved *models.Product
	repo := &fakeRepository{
		saveFn: func(ctx context.Context, product *models.Product) error {
			saved = product
			return nil
		},
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			copied := *saved
			return &copied, nil
		},
	}
	svc, _ := NewService(repo)

	ingredient := uuid.New()
	id, err := svc.Upsert(context.Background(), UpsertProductInput{
		Name:     "Latte",
		Category: enums.ProductCategoryOptionSelect,
		Price:    decimal.RequireFromString("4.50"),
		Recipe: []RecipeLineInput{
			{IngredientID: ingredient, Unit: enums.IngredientUnitMilliliter},
		},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if saved == nil || saved.ID != id {
		t.Fatal("repository did not receive the product")
	}
	if len(saved.Recipe) != 1 || saved.Recipe[0].IngredientID != ingredient {
		t.Fatalf("recipe not carried: %+v", saved.Recipe)
	}

	cached, err := svc.Get(id)
	if err != nil {
		t.Fatalf("Get after upsert: %v", err)
	}
	if cached.Name != "Latte" {
		t.Fatalf("cache entry = %q", cached.Name)
	}
}

func TestDeleteEvictsCache(t *testing.T) {
	latte := sampleProduct("Latte")
	repo := &fakeRepository{
		listFn: func(ctx context.Context) ([]models.Product, error) {
			return []models.Product{latte}, nil
		},
	}
	svc, _ := NewService(repo)
	_ = svc.Refresh(context.Background())

	if err := svc.Delete(context.Background(), latte.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(latte.ID); err == nil {
		t.Fatal("deleted product should be gone from the cache")
	}
	if len(svc.List()) != 0 {
		t.Fatal("list should be empty after delete")
	}
}

func TestRefreshSurfacesDependencyError(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context) ([]models.Product, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc, _ := NewService(repo)

	err := svc.Refresh(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
