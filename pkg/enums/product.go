package enums

import (
	"fmt"
	"strings"
)

// ProductCategory groups products on the shelf and in reports.
type ProductCategory string

const (
	ProductCategoryProduce      ProductCategory = "PRODUCE"
	ProductCategoryDairy        ProductCategory = "DAIRY"
	ProductCategoryMeat         ProductCategory = "MEAT"
	ProductCategoryBakery       ProductCategory = "BAKERY"
	ProductCategoryFrozen       ProductCategory = "FROZEN"
	ProductCategoryBeverages    ProductCategory = "BEVERAGES"
	ProductCategorySnacks       ProductCategory = "SNACKS"
	ProductCategoryCannedGoods  ProductCategory = "CANNED_GOODS"
	ProductCategoryCondiments   ProductCategory = "CONDIMENTS"
	ProductCategoryHousehold    ProductCategory = "HOUSEHOLD"
	ProductCategoryPersonalCare ProductCategory = "PERSONAL_CARE"
	ProductCategoryOther        ProductCategory = "OTHER"
)

var validProductCategories = []ProductCategory{
	ProductCategoryProduce,
	ProductCategoryDairy,
	ProductCategoryMeat,
	ProductCategoryBakery,
	ProductCategoryFrozen,
	ProductCategoryBeverages,
	ProductCategorySnacks,
	ProductCategoryCannedGoods,
	ProductCategoryCondiments,
	ProductCategoryHousehold,
	ProductCategoryPersonalCare,
	ProductCategoryOther,
}

// ProductCategories returns the known categories in display order.
func ProductCategories() []ProductCategory {
	return append([]ProductCategory(nil), validProductCategories...)
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input such as "canned goods" into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	normalized := normalizeToken(value)
	for _, candidate := range validProductCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

func normalizeToken(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(value)
}
