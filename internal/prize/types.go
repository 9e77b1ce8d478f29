// types.go
package prize

import (
	"fmt"
	"strings"
)

// FillerID is the well-known id of the "try again" segment. Matching is case-insensitive.
const FillerID = "TRYAGAIN"

// Category is the prize tier used by the eligibility modes.
type Category int

const (
	Small Category = iota
	Medium
	Large
)

func (c Category) String() string {
	switch c {
	case Medium:
		return "Medium"
	case Large:
		return "Large"
	default:
		return "Small"
	}
}

// ParseCategory maps a category string (any case) to a Category.
// Unknown values report ok=false and Small.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return Small, true
	case "medium":
		return Medium, true
	case "large":
		return Large, true
	}
	return Small, false
}

// Definition is one wheel segment. Immutable for a run.
type Definition struct {
	ID           string
	Name         string
	Category     Category
	Weight       float64
	InitialStock int
}

// IsFiller reports whether d is the filler sentinel.
func (d Definition) IsFiller() bool {
	return strings.EqualFold(d.ID, FillerID)
}

// Catalog is the ordered list of segments; the index is the wheel slot.
type Catalog struct {
	Prizes []Definition
}

func (c Catalog) Len() int { return len(c.Prizes) }

// IndexOf finds a prize by id (case-insensitive). -1 if absent.
func (c Catalog) IndexOf(id string) int {
	for i, p := range c.Prizes {
		if strings.EqualFold(p.ID, id) {
			return i
		}
	}
	return -1
}

// FillerIndex returns the slot of the filler sentinel, or -1.
func (c Catalog) FillerIndex() int {
	return c.IndexOf(FillerID)
}

func (c Catalog) Categories() []Category {
	out := make([]Category, len(c.Prizes))
	for i, p := range c.Prizes {
		out[i] = p.Category
	}
	return out
}

func (c Catalog) Weights() []float64 {
	out := make([]float64, len(c.Prizes))
	for i, p := range c.Prizes {
		out[i] = p.Weight
	}
	return out
}

// InitialStock returns the configured per-prize stock, clamped at 0.
func (c Catalog) InitialStock() []int {
	out := make([]int, len(c.Prizes))
	for i, p := range c.Prizes {
		if p.InitialStock > 0 {
			out[i] = p.InitialStock
		}
	}
	return out
}

// Validate checks id presence and case-insensitive uniqueness.
func (c Catalog) Validate() error {
	var errs []string
	seen := make(map[string]int, len(c.Prizes))
	for i, p := range c.Prizes {
		id := strings.ToLower(strings.TrimSpace(p.ID))
		if id == "" {
			errs = append(errs, fmt.Sprintf("prizes[%d].id is required", i))
			continue
		}
		if j, dup := seen[id]; dup {
			errs = append(errs, fmt.Sprintf("prizes[%d].id %q duplicates prizes[%d]", i, p.ID, j))
			continue
		}
		seen[id] = i
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Default is the built-in catalog used when no artifact exists.
func Default() Catalog {
	return Catalog{Prizes: []Definition{
		{ID: "STICKER", Name: "Sticker", Category: Small, Weight: 3, InitialStock: 40},
		{ID: "KEYCHAIN", Name: "Keychain", Category: Small, Weight: 2, InitialStock: 25},
		{ID: "MUG", Name: "Mug", Category: Medium, Weight: 1, InitialStock: 10},
		{ID: "TSHIRT", Name: "T-Shirt", Category: Medium, Weight: 1, InitialStock: 8},
		{ID: "HEADPHONES", Name: "Headphones", Category: Large, Weight: 1, InitialStock: 2},
		{ID: FillerID, Name: "Try again", Category: Small, Weight: 1, InitialStock: 1},
	}}
}
