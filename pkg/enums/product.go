package enums

import "fmt"

// ProductCategory classifies catalog entries.
type ProductCategory string

const (
	ProductCategoryDoorLock    ProductCategory = "door_lock"
	ProductCategoryPadlock     ProductCategory = "padlock"
	ProductCategorySafe        ProductCategory = "safe"
	ProductCategoryCylinder    ProductCategory = "cylinder"
	ProductCategoryDoorHandle  ProductCategory = "door_handle"
	ProductCategorySmartLock   ProductCategory = "smart_lock"
	ProductCategoryKeyMachine  ProductCategory = "key_machine"
	ProductCategoryAccessories ProductCategory = "accessories"
)

var validProductCategories = []ProductCategory{
	ProductCategoryDoorLock,
	ProductCategoryPadlock,
	ProductCategorySafe,
	ProductCategoryCylinder,
	ProductCategoryDoorHandle,
	ProductCategorySmartLock,
	ProductCategoryKeyMachine,
	ProductCategoryAccessories,
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

// ProductTag is a storefront merchandising label.
type ProductTag string

const (
	ProductTagNew         ProductTag = "new"
	ProductTagBestSeller  ProductTag = "best_seller"
	ProductTagDiscounted  ProductTag = "discounted"
	ProductTagHeavyDuty   ProductTag = "heavy_duty"
	ProductTagOutdoor     ProductTag = "outdoor"
	ProductTagSmart       ProductTag = "smart"
	ProductTagRecommended ProductTag = "recommended"
)

var validProductTags = []ProductTag{
	ProductTagNew,
	ProductTagBestSeller,
	ProductTagDiscounted,
	ProductTagHeavyDuty,
	ProductTagOutdoor,
	ProductTagSmart,
	ProductTagRecommended,
}

// MaxProductTags caps how many tags one product may carry.
const MaxProductTags = 3

// String implements fmt.Stringer.
func (p ProductTag) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductTag.
func (p ProductTag) IsValid() bool {
	for _, candidate := range validProductTags {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductTag converts raw input into a ProductTag.
func ParseProductTag(value string) (ProductTag, error) {
	for _, candidate := range validProductTags {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product tag %q", value)
}
