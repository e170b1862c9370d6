package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/beanflow/cafe-pos-backend/api/responses"
	"github.com/beanflow/cafe-pos-backend/internal/stock"
	"github.com/beanflow/cafe-pos-backend/pkg/logger"
)

type ingredientDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  *string `json:"category,omitempty"`
	Quantity  string  `json:"quantity"`
	Unit      string  `json:"unit"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

// IngredientList reads the ingredient inventory, optionally filtered by
// category.
func IngredientList(snapshot *stock.Snapshot, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var categoryFilter *string
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			categoryFilter = &raw
		}

		ingredients, err := snapshot.List(r.Context(), categoryFilter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]ingredientDTO, 0, len(ingredients))
		for _, ingredient := range ingredients {
			dto := ingredientDTO{
				ID:       ingredient.ID.String(),
				Name:     ingredient.Name,
				Category: ingredient.Category,
				Quantity: ingredient.Quantity.String(),
				Unit:     string(ingredient.Unit),
			}
			if ingredient.ExpiresAt != nil {
				at := ingredient.ExpiresAt.Format(time.DateOnly)
				dto.ExpiresAt = &at
			}
			out = append(out, dto)
		}
		responses.WriteSuccess(w, map[string]any{"ingredients": out})
	}
}

// StockRefresh reloads the advisory snapshot on demand, outside the push
// subscription.
func StockRefresh(snapshot *stock.Snapshot, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := snapshot.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "refreshed"})
	}
}
