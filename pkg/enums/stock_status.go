package enums

// StockStatus is the advisory badge rendered next to a recipe line.
// Expired takes precedence over low regardless of quantity.
type StockStatus string

const (
	StockStatusOK      StockStatus = "ok"
	StockStatusLow     StockStatus = "low"
	StockStatusExpired StockStatus = "expired"
)

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusOK, StockStatusLow, StockStatusExpired:
		return true
	default:
		return false
	}
}
