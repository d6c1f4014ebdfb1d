package catalog

import "fmt"

// Category classifies a catalog item for listing and balancing purposes.
type Category string

const (
	CategoryVanilla      Category = "VANILLA"
	CategoryFoodCore     Category = "FOOD_CORE"
	CategoryCrops        Category = "CROPS"
	CategoryFoodExtended Category = "FOOD_EXTENDED"
	CategoryTools        Category = "TOOLS"
)

var validCategories = map[Category]bool{
	CategoryVanilla:      true,
	CategoryFoodCore:     true,
	CategoryCrops:        true,
	CategoryFoodExtended: true,
	CategoryTools:        true,
}

// ParseCategory converts a string to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid item category: %q", s)
	}
	return c, nil
}

// IsValid reports whether the category is one of the known values.
func (c Category) IsValid() bool {
	return validCategories[c]
}

func (c Category) String() string {
	return string(c)
}
