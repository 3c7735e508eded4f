package enums

import "fmt"

// ComponentCategory classifies a product within the PC-builder flow.
type ComponentCategory string

const (
	ComponentProcessor   ComponentCategory = "processor"
	ComponentBoard       ComponentCategory = "board"
	ComponentMemory      ComponentCategory = "memory"
	ComponentStorage     ComponentCategory = "storage"
	ComponentPowerSupply ComponentCategory = "power_supply"
	ComponentEnclosure   ComponentCategory = "enclosure"
	ComponentDisplay     ComponentCategory = "display"
	ComponentPeripherals ComponentCategory = "peripherals"
)

// ComponentCategoryCount is the number of builder slots; selections are
// indexed by Index() so completeness checks stay exhaustive.
const ComponentCategoryCount = 8

var allComponentCategories = [ComponentCategoryCount]ComponentCategory{
	ComponentProcessor,
	ComponentBoard,
	ComponentMemory,
	ComponentStorage,
	ComponentPowerSupply,
	ComponentEnclosure,
	ComponentDisplay,
	ComponentPeripherals,
}

// AllComponentCategories returns the builder slots in canonical order.
func AllComponentCategories() [ComponentCategoryCount]ComponentCategory {
	return allComponentCategories
}

// String implements fmt.Stringer.
func (c ComponentCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ComponentCategory.
func (c ComponentCategory) IsValid() bool {
	return c.Index() >= 0
}

// Index returns the canonical slot index for the category, or -1.
func (c ComponentCategory) Index() int {
	for i, candidate := range allComponentCategories {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Essential reports whether a build cannot be committed without the category.
// Display and peripherals are optional extras.
func (c ComponentCategory) Essential() bool {
	switch c {
	case ComponentProcessor, ComponentBoard, ComponentMemory,
		ComponentStorage, ComponentPowerSupply, ComponentEnclosure:
		return true
	default:
		return false
	}
}

// ParseComponentCategory converts raw input into a ComponentCategory.
func ParseComponentCategory(value string) (ComponentCategory, error) {
	for _, candidate := range allComponentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid component category %q", value)
}
