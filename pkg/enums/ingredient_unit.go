package enums

import "fmt"

// IngredientUnit is the display unit attached to ingredient stock and
// recipe lines.
type IngredientUnit string

const (
	IngredientUnitGram       IngredientUnit = "g"
	IngredientUnitMilliliter IngredientUnit = "ml"
	IngredientUnitPiece      IngredientUnit = "pcs"
	IngredientUnitShot       IngredientUnit = "shot"
	IngredientUnitScoop      IngredientUnit = "scoop"
)

var validIngredientUnits = []IngredientUnit{
	IngredientUnitGram,
	IngredientUnitMilliliter,
	IngredientUnitPiece,
	IngredientUnitShot,
	IngredientUnitScoop,
}

// String implements fmt.Stringer.
func (u IngredientUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known IngredientUnit.
func (u IngredientUnit) IsValid() bool {
	for _, candidate := range validIngredientUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseIngredientUnit converts raw input into an IngredientUnit.
func ParseIngredientUnit(value string) (IngredientUnit, error) {
	for _, candidate := range validIngredientUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ingredient unit %q", value)
}
