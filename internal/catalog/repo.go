package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
)

// Repository is the persistence surface of the product catalog
// collaborator.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed catalog repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Recipe", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Recipe", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Save upserts the product row and replaces its recipe lines wholesale.
func (r *repository) Save(ctx context.Context, product *models.Product) error {
	recipe := product.Recipe
	product.Recipe = nil
	defer func() { product.Recipe = recipe }()

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(product).Error; err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Where("product_id = ?", product.ID).
		Delete(&models.RecipeLine{}).Error; err != nil {
		return err
	}
	for i := range recipe {
		recipe[i].ProductID = product.ID
	}
	if len(recipe) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&recipe).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
