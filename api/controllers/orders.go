package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/beanflow/cafe-pos-backend/api/responses"
	"github.com/beanflow/cafe-pos-backend/api/validators"
	"github.com/beanflow/cafe-pos-backend/internal/ledger"
	"github.com/beanflow/cafe-pos-backend/internal/orders"
	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
	"github.com/beanflow/cafe-pos-backend/pkg/logger"
)

type orderItemDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Option      string `json:"option"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

type orderDTO struct {
	ID                string         `json:"id"`
	CustomerLabel     string         `json:"customer_label"`
	Status            string         `json:"status"`
	DiscountApplied   bool           `json:"discount_applied"`
	Subtotal          string         `json:"subtotal"`
	DiscountAmount    string         `json:"discount_amount"`
	Total             string         `json:"total"`
	CashTendered      string         `json:"cash_tendered"`
	ChangeGiven       string         `json:"change_given"`
	Items             []orderItemDTO `json:"items"`
	CompletionPending bool           `json:"completion_pending"`
	CompletedAt       *string        `json:"completed_at,omitempty"`
	CreatedAt         string         `json:"created_at"`
}

func orderView(order models.Order, pending bool) orderDTO {
	dto := orderDTO{
		ID:                order.ID.String(),
		CustomerLabel:     order.CustomerLabel,
		Status:            string(order.Status),
		DiscountApplied:   order.DiscountApplied,
		Subtotal:          order.Subtotal.StringFixed(2),
		DiscountAmount:    order.DiscountAmount.StringFixed(2),
		Total:             order.Total.StringFixed(2),
		CashTendered:      order.CashTendered.StringFixed(2),
		ChangeGiven:       order.ChangeGiven.StringFixed(2),
		Items:             make([]orderItemDTO, 0, len(order.Items)),
		CompletionPending: pending,
		CreatedAt:         order.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, orderItemDTO{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Option:      item.Option,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			LineTotal:   item.LineTotal.StringFixed(2),
		})
	}
	if order.CompletedAt != nil {
		at := order.CompletedAt.UTC().Format(time.RFC3339)
		dto.CompletedAt = &at
	}
	return dto
}

// OrderList returns the open board by default; status=completed switches
// to the settled history.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []models.Order
			err  error
		)
		switch r.URL.Query().Get("status") {
		case "", "active":
			list, err = svc.ListActive(r.Context())
		case string(enums.OrderStatusCompleted):
			list, err = svc.ListCompleted(r.Context())
		default:
			err = pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter")
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderDTO, 0, len(list))
		for _, order := range list {
			out = append(out, orderView(order, svc.CompletionPending(order.ID)))
		}
		responses.WriteSuccess(w, map[string]any{"orders": out})
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderView(*order, svc.CompletionPending(order.ID)))
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderSetStatus toggles an order between the two working statuses.
// Completion goes through the request/confirm pair instead.
func OrderSetStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}
		if err := svc.SetStatus(r.Context(), orderID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(status)})
	}
}

// OrderRequestCompletion marks the order as awaiting the confirm step.
func OrderRequestCompletion(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RequestCompletion(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"completion_pending": true})
	}
}

// OrderCancelCompletion withdraws the pending mark without touching the
// persisted status.
func OrderCancelCompletion(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.CancelCompletion(orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"completion_pending": false})
	}
}

// OrderConfirmCompletion finalizes a pending completion.
func OrderConfirmCompletion(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.ConfirmCompletion(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderView(*order, false))
	}
}

// OrderLedger lists the financial entries recorded against an order.
func OrderLedger(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.ListByOrderID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		type entryDTO struct {
			ID        string  `json:"id"`
			Type      string  `json:"type"`
			Amount    string  `json:"amount"`
			Note      *string `json:"note,omitempty"`
			CreatedAt string  `json:"created_at"`
		}
		out := make([]entryDTO, 0, len(entries))
		for _, entry := range entries {
			out = append(out, entryDTO{
				ID:        entry.ID.String(),
				Type:      string(entry.Type),
				Amount:    entry.Amount.StringFixed(2),
				Note:      entry.Note,
				CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		responses.WriteSuccess(w, map[string]any{"entries": out})
	}
}
