package register

import (
	"github.com/google/uuid"

	"github.com/beanflow/cafe-pos-backend/pkg/enums"
	pkgerrors "github.com/beanflow/cafe-pos-backend/pkg/errors"
)

// receiptGate is the per-order print acknowledgement machine. Armed by a
// successful checkout, it blocks clearing the cart for the next customer
// until the operator confirms printing or deliberately overrides.
type receiptGate struct {
	armed   bool
	orderID uuid.UUID
	state   enums.ReceiptState
}

func (g *receiptGate) arm(orderID uuid.UUID) {
	g.armed = true
	g.orderID = orderID
	g.state = enums.ReceiptStateUnprinted
}

func (g *receiptGate) disarm() {
	*g = receiptGate{}
}

// markPrinted is the one-way unprinted -> printed transition.
func (g *receiptGate) markPrinted() error {
	if !g.armed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no receipt pending")
	}
	g.state = enums.ReceiptStatePrinted
	return nil
}

// allowsClear reports whether the cart may be reset. From printed no
// confirmation is needed; from unprinted the operator must force an
// override acknowledging the unprinted state.
func (g *receiptGate) allowsClear(force bool) error {
	if !g.armed {
		return nil
	}
	if g.state == enums.ReceiptStatePrinted {
		return nil
	}
	if force {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "receipt not printed; print it or force the override").
		WithDetails(map[string]any{"order_id": g.orderID, "receipt_state": g.state})
}
