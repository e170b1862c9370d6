package stock

import (
	"context"

	"gorm.io/gorm"

	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
)

// Repository is the read-only surface of the inventory collaborator.
type Repository interface {
	ListIngredients(ctx context.Context, categoryFilter *string) ([]models.Ingredient, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed inventory reader.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListIngredients(ctx context.Context, categoryFilter *string) ([]models.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if categoryFilter != nil && *categoryFilter != "" {
		query = query.Where("category = ?", *categoryFilter)
	}
	var ingredients []models.Ingredient
	err := query.Find(&ingredients).Error
	return ingredients, err
}
