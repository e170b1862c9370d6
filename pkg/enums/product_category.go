package enums

import "fmt"

// ProductCategory determines how a product is added to the cart: direct-add
// products go straight in, option-select products require a variant choice
// first.
type ProductCategory string

const (
	ProductCategoryDirectAdd    ProductCategory = "direct_add"
	ProductCategoryOptionSelect ProductCategory = "option_select"
)

var validProductCategories = []ProductCategory{
	ProductCategoryDirectAdd,
	ProductCategoryOptionSelect,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
