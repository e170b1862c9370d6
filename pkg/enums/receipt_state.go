package enums

// ReceiptState gates cart reset after a checkout: unprinted until the
// operator acknowledges printing, then printed. One-way.
type ReceiptState string

const (
	ReceiptStateUnprinted ReceiptState = "unprinted"
	ReceiptStatePrinted   ReceiptState = "printed"
)

// String implements fmt.Stringer.
func (r ReceiptState) String() string {
	return string(r)
}
