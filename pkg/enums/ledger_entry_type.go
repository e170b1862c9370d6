package enums

import "fmt"

// LedgerEntryType classifies append-only financial record rows.
type LedgerEntryType string

const (
	LedgerEntryTypeIncome     LedgerEntryType = "income"
	LedgerEntryTypeAdjustment LedgerEntryType = "adjustment"
)

var validLedgerEntryTypes = []LedgerEntryType{
	LedgerEntryTypeIncome,
	LedgerEntryTypeAdjustment,
}

// String implements fmt.Stringer.
func (l LedgerEntryType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LedgerEntryType.
func (l LedgerEntryType) IsValid() bool {
	for _, candidate := range validLedgerEntryTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLedgerEntryType converts raw input into a LedgerEntryType.
func ParseLedgerEntryType(value string) (LedgerEntryType, error) {
	for _, candidate := range validLedgerEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger entry type %q", value)
}
