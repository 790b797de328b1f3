// Package preset holds the curated search presets for repository discovery.
// The catalog is immutable, built once at process start.
package preset

import (
	"fmt"
	"math/rand/v2"

	"github.com/inovacc/relic/internal/query"
)

// Category groups presets by theme. Every preset belongs to exactly one.
type Category string

const (
	CategoryArchaeology   Category = "archaeology"
	CategoryDeadLanguages Category = "dead-languages"
	CategoryEras          Category = "eras"
	CategoryCulture       Category = "culture"
	CategoryScience       Category = "science"
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryArchaeology,
		CategoryDeadLanguages,
		CategoryEras,
		CategoryCulture,
		CategoryScience,
	}
}

// Preset is a named, pre-filled filter template for a themed search.
// Filters is merged with user-supplied overrides at query-build time; the
// user's explicit values win on conflict.
type Preset struct {
	ID          string
	Category    Category
	Description string
	Filters     query.FilterParams
}

// NotFoundError reports a preset id that is not in the catalog.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("preset %q not found", e.ID)
}

// Get returns the preset with the given id.
func Get(id string) (Preset, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, &NotFoundError{ID: id}
}

// List returns all presets in registration order.
func List() []Preset {
	out := make([]Preset, len(catalog))
	copy(out, catalog)
	return out
}

// ListByCategory returns the presets in one category, registration order.
func ListByCategory(cat Category) []Preset {
	var out []Preset
	for _, p := range catalog {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// ValidCategory reports whether cat names a known category.
func ValidCategory(cat Category) bool {
	for _, c := range Categories() {
		if c == cat {
			return true
		}
	}
	return false
}

// Random draws one preset uniformly from the catalog, skipping any ids in
// exclude. The draw is not reproducible across runs.
func Random(exclude map[string]bool) (Preset, error) {
	var pool []Preset
	for _, p := range catalog {
		if !exclude[p.ID] {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return Preset{}, fmt.Errorf("no presets left after exclusions")
	}
	return pool[rand.IntN(len(pool))], nil
}
