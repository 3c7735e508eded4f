package builder

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mateovidal/techmart-backend/pkg/enums"
)

// Component is one selected product within a build slot.
type Component struct {
	ProductID         uuid.UUID               `json:"product_id"`
	Name              string                  `json:"name"`
	Category          enums.ComponentCategory `json:"category"`
	UnitPrice         decimal.Decimal         `json:"unit_price"`
	ImageURL          string                  `json:"image_url,omitempty"`
	CompatibilityTags []string                `json:"compatibility_tags"`
}

// Build holds one selection per component category. Slots are indexed by the
// canonical category order so completeness checks stay exhaustive; selecting
// for an occupied slot replaces the previous component.
type Build struct {
	Slots [enums.ComponentCategoryCount]*Component `json:"slots"`
}

// NewBuild returns a build with every slot empty.
func NewBuild() *Build {
	return &Build{}
}

// Component returns the selection for the category, or nil.
func (b *Build) Component(category enums.ComponentCategory) *Component {
	idx := category.Index()
	if idx < 0 {
		return nil
	}
	return b.Slots[idx]
}

func (b *Build) set(component *Component) {
	b.Slots[component.Category.Index()] = component
}

func (b *Build) clear(category enums.ComponentCategory) {
	if idx := category.Index(); idx >= 0 {
		b.Slots[idx] = nil
	}
}

// MissingEssential lists the essential categories without a selection.
func (b *Build) MissingEssential() []enums.ComponentCategory {
	var missing []enums.ComponentCategory
	for i, category := range enums.AllComponentCategories() {
		if category.Essential() && b.Slots[i] == nil {
			missing = append(missing, category)
		}
	}
	return missing
}

// IsComplete reports whether every essential slot is filled.
func (b *Build) IsComplete() bool {
	return len(b.MissingEssential()) == 0
}

// IsCompatible reports whether the processor and board selections share at
// least one compatibility tag. A missing selection or an untagged component
// never blocks the build.
func (b *Build) IsCompatible() bool {
	processor := b.Component(enums.ComponentProcessor)
	board := b.Component(enums.ComponentBoard)
	if processor == nil || board == nil {
		return true
	}
	if len(processor.CompatibilityTags) == 0 || len(board.CompatibilityTags) == 0 {
		return true
	}
	tags := make(map[string]bool, len(processor.CompatibilityTags))
	for _, tag := range processor.CompatibilityTags {
		tags[tag] = true
	}
	for _, tag := range board.CompatibilityTags {
		if tags[tag] {
			return true
		}
	}
	return false
}

// TotalPrice sums the prices of every selected component.
func (b *Build) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, component := range b.Slots {
		if component != nil {
			total = total.Add(component.UnitPrice)
		}
	}
	return total
}

// Summary is the evaluation of a build against the commit preconditions.
type Summary struct {
	Complete   bool                      `json:"complete"`
	Compatible bool                      `json:"compatible"`
	TotalPrice decimal.Decimal           `json:"total_price"`
	Missing    []enums.ComponentCategory `json:"missing,omitempty"`
}

// Summarize evaluates the build.
func (b *Build) Summarize() *Summary {
	return &Summary{
		Complete:   b.IsComplete(),
		Compatible: b.IsCompatible(),
		TotalPrice: b.TotalPrice(),
		Missing:    b.MissingEssential(),
	}
}
