package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/api/responses"
	"github.com/beanflow/cafe-pos-backend/api/validators"
	"github.com/beanflow/cafe-pos-backend/internal/catalog"
	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
	"github.com/beanflow/cafe-pos-backend/pkg/logger"
)

type recipeLineDTO struct {
	IngredientID string `json:"ingredient_id"`
	Unit         string `json:"unit"`
}

type productDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    string          `json:"price"`
	Tags     []string        `json:"tags"`
	IsActive bool            `json:"is_active"`
	Recipe   []recipeLineDTO `json:"recipe"`
}

func productView(product models.Product) productDTO {
	dto := productDTO{
		ID:       product.ID.String(),
		Name:     product.Name,
		Category: string(product.Category),
		Price:    product.Price.StringFixed(2),
		Tags:     product.Tags,
		IsActive: product.IsActive,
		Recipe:   make([]recipeLineDTO, 0, len(product.Recipe)),
	}
	for _, line := range product.Recipe {
		dto.Recipe = append(dto.Recipe, recipeLineDTO{
			IngredientID: line.IngredientID.String(),
			Unit:         string(line.Unit),
		})
	}
	return dto
}

// ProductList renders the catalog cache in display order.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products := svc.List()
		out := make([]productDTO, 0, len(products))
		for _, product := range products {
			out = append(out, productView(product))
		}
		responses.WriteSuccess(w, map[string]any{"products": out})
	}
}

// CatalogRefresh reloads the cache from persistence on demand.
func CatalogRefresh(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": len(svc.List())})
	}
}

type recipeLineRequest struct {
	IngredientID string `json:"ingredient_id" validate:"required,uuid"`
	Unit         string `json:"unit" validate:"required"`
}

type productRequest struct {
	Name     string              `json:"name" validate:"required,max=120"`
	Category string              `json:"category" validate:"required"`
	Price    decimal.Decimal     `json:"price"`
	Tags     []string            `json:"tags"`
	IsActive *bool               `json:"is_active"`
	Recipe   []recipeLineRequest `json:"recipe" validate:"dive"`
}

func (req productRequest) toInput(id *uuid.UUID) (catalog.UpsertProductInput, error) {
	category, err := enums.ParseProductCategory(req.Category)
	if err != nil {
		return catalog.UpsertProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product category")
	}

	input := catalog.UpsertProductInput{
		ID:       id,
		Name:     validators.SanitizeString(req.Name, 120),
		Category: category,
		Price:    req.Price,
		Tags:     req.Tags,
		IsActive: req.IsActive,
	}
	for _, line := range req.Recipe {
		ingredientID, err := validators.ParseUUID(line.IngredientID, "ingredient_id")
		if err != nil {
			return catalog.UpsertProductInput{}, err
		}
		unit, err := enums.ParseIngredientUnit(line.Unit)
		if err != nil {
			return catalog.UpsertProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid recipe unit")
		}
		input.Recipe = append(input.Recipe, catalog.RecipeLineInput{IngredientID: ingredientID, Unit: unit})
	}
	return input, nil
}

// ProductCreate adds a product to the catalog.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput(nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := svc.Upsert(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"id": id.String()})
	}
}

// ProductUpdate replaces the product definition, recipe included. Open
// cart lines keep their frozen name and price.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput(&productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := svc.Upsert(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": productID.String()})
	}
}

// ProductDelete removes the product; existing orders and open carts are
// unaffected.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": productID.String()})
	}
}
