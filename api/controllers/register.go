package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/beanflow/cafe-pos-backend/api/responses"
	"github.com/beanflow/cafe-pos-backend/api/validators"
	"github.com/beanflow/cafe-pos-backend/internal/orders"
	"github.com/beanflow/cafe-pos-backend/internal/register"
	"github.com/beanflow/cafe-pos-backend/internal/stock"
	"github.com/beanflow/cafe-pos-backend/pkg/db/models"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
	"github.com/beanflow/cafe-pos-backend/pkg/logger"
)

const customerLabelMaxLen = 80

type cartLineDTO struct {
	ProductID   string `json:"product_id"`
	Option      string `json:"option"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total"`
}

type cartViewDTO struct {
	Lines          []cartLineDTO   `json:"lines"`
	Subtotal       string          `json:"subtotal"`
	DiscountAmount string          `json:"discount_amount"`
	Total          string          `json:"total"`
	Receipt        *receiptViewDTO `json:"receipt,omitempty"`
}

type receiptViewDTO struct {
	OrderID string `json:"order_id"`
	State   string `json:"state"`
}

func cartView(session *register.Session, discountApplied bool) cartViewDTO {
	lines := session.Lines()
	totals := session.Totals(discountApplied)

	view := cartViewDTO{
		Lines:          make([]cartLineDTO, 0, len(lines)),
		Subtotal:       totals.Subtotal.StringFixed(2),
		DiscountAmount: totals.DiscountAmount.StringFixed(2),
		Total:          totals.Total.StringFixed(2),
	}
	for _, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Lines = append(view.Lines, cartLineDTO{
			ProductID:   line.Key.ProductID.String(),
			Option:      line.Key.Option,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Quantity:    line.Quantity,
			LineTotal:   lineTotal.StringFixed(2),
		})
	}
	if orderID, state, ok := session.ReceiptState(); ok {
		view.Receipt = &receiptViewDTO{OrderID: orderID.String(), State: string(state)}
	}
	return view
}

// CartFetch renders the working cart with totals for the given discount
// flag.
func CartFetch(session *register.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discountApplied, err := validators.ParseQueryBool(r, "discount", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartView(session, discountApplied))
	}
}

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Option    string `json:"option"`
}

// CartAdd resolves the product and merges it into the cart.
func CartAdd(session *register.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseUUID(body.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key, err := session.AddItem(r.Context(), productID, body.Option)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"line": key,
			"cart": cartView(session, false),
		})
	}
}

// CartIncrement raises the identified line's quantity by one.
func CartIncrement(session *register.Session, logg *logger.Logger) http.HandlerFunc {
	return cartQuantityHandler(session, logg, session.Increment)
}

// CartDecrement lowers it by one, removing the line at zero.
func CartDecrement(session *register.Session, logg *logger.Logger) http.HandlerFunc {
	return cartQuantityHandler(session, logg, session.Decrement)
}

func cartQuantityHandler(session *register.Session, logg *logger.Logger, apply func(register.LineKey) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseUUID(body.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := apply(register.LineKey{ProductID: productID, Option: body.Option}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartView(session, false))
	}
}

// CartClear resets the register for the next customer. The force query
// acknowledges an unprinted receipt.
func CartClear(session *register.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		force, err := validators.ParseQueryBool(r, "force", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.Clear(force); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartView(session, false))
	}
}

type checkoutRequest struct {
	CustomerLabel   string          `json:"customer_label" validate:"required"`
	DiscountApplied bool            `json:"discount_applied"`
	CashTendered    decimal.Decimal `json:"cash_tendered"`
}

type checkoutResponse struct {
	OrderID       string `json:"order_id"`
	CustomerLabel string `json:"customer_label"`
	Subtotal      string `json:"subtotal"`
	Discount      string `json:"discount_amount"`
	Total         string `json:"total"`
	CashTendered  string `json:"cash_tendered"`
	ChangeGiven   string `json:"change_given"`
	ReceiptState  string `json:"receipt_state"`
}

// Checkout settles the current cart: the order, its items, and the
// income entry persist together, then the receipt gate arms. The cart
// itself stays on screen until the operator clears it.
func Checkout(session *register.Session, ordersSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := session.Lines()
		input := orders.CheckoutInput{
			CustomerLabel:   validators.SanitizeString(body.CustomerLabel, customerLabelMaxLen),
			DiscountApplied: body.DiscountApplied,
			CashTendered:    body.CashTendered,
			Lines:           make([]orders.CheckoutLine, 0, len(lines)),
		}
		for _, line := range lines {
			input.Lines = append(input.Lines, orders.CheckoutLine{
				ProductID:   line.Key.ProductID,
				ProductName: line.ProductName,
				Option:      line.Key.Option,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
			})
		}

		order, err := ordersSvc.Checkout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.ArmReceipt(order.ID)
		if logg != nil {
			ctx := logg.WithOrderID(r.Context(), order.ID.String())
			logg.Info(ctx, "checkout settled")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:       order.ID.String(),
			CustomerLabel: order.CustomerLabel,
			Subtotal:      order.Subtotal.StringFixed(2),
			Discount:      order.DiscountAmount.StringFixed(2),
			Total:         order.Total.StringFixed(2),
			CashTendered:  order.CashTendered.StringFixed(2),
			ChangeGiven:   order.ChangeGiven.StringFixed(2),
			ReceiptState:  "unprinted",
		})
	}
}

// ReceiptPrinted acknowledges the print action for the pending order.
func ReceiptPrinted(session *register.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := session.MarkReceiptPrinted(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, state, _ := session.ReceiptState()
		responses.WriteSuccess(w, receiptViewDTO{OrderID: orderID.String(), State: string(state)})
	}
}

// ReceiptFetch reports whether a receipt acknowledgement is pending.
func ReceiptFetch(session *register.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, state, ok := session.ReceiptState()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no receipt pending"))
			return
		}
		responses.WriteSuccess(w, receiptViewDTO{OrderID: orderID.String(), State: string(state)})
	}
}

type productGetter interface {
	Get(id uuid.UUID) (*models.Product, error)
}

// ProductAdvisory renders the per-ingredient stock badges shown before
// an option-select product is added.
func ProductAdvisory(catalog productGetter, snapshot *stock.Snapshot, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := catalog.Get(productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"product_id": product.ID,
			"advisories": snapshot.Advisory(product, time.Now().UTC()),
		})
	}
}
