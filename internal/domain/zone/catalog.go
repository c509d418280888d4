package zone

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrEmptyCatalog is returned when a catalog without zones is constructed.
	ErrEmptyCatalog = errors.New("zone catalog is empty")
	// ErrBlankZoneName is returned when a catalog entry is empty or whitespace.
	ErrBlankZoneName = errors.New("zone catalog contains a blank name")
)

// Catalog is the ordered list of zone names an Engine indexes into.
// The order is part of the rotation contract: entries are never sorted
// or deduplicated, and a Catalog cannot be modified once built.
type Catalog struct {
	// names holds the zones in their canonical order.
	names []string
	// positions maps a zone name to the index of its first occurrence.
	positions map[string]int
}

// NewCatalog copies names into a new Catalog.
// It fails with ErrEmptyCatalog or ErrBlankZoneName for misconfigured input.
func NewCatalog(names []string) (*Catalog, error) {
	if len(names) == 0 {
		return nil, ErrEmptyCatalog
	}

	positions := make(map[string]int, len(names))

	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w at position %d", ErrBlankZoneName, i)
		}

		if _, ok := positions[name]; !ok {
			positions[name] = i
		}
	}

	return &Catalog{
		names:     slices.Clone(names),
		positions: positions,
	}, nil
}

// Len returns the number of entries, duplicates included.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Name returns the zone at index i.
func (c *Catalog) Name(i int) string {
	return c.names[i]
}

// Names returns a copy of the catalog entries in order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Contains reports whether name is one of the catalog entries.
// Matching is exact; callers normalise user input themselves.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.positions[name]

	return ok
}

// Index returns the position of the first entry equal to name.
func (c *Catalog) Index(name string) (int, bool) {
	i, ok := c.positions[name]

	return i, ok
}

// Lookup resolves name case-insensitively and ignoring surrounding spaces,
// returning the canonical catalog spelling.
func (c *Catalog) Lookup(name string) (string, bool) {
	if c.Contains(name) {
		return name, true
	}

	needle := strings.TrimSpace(name)
	for _, candidate := range c.names {
		if strings.EqualFold(candidate, needle) {
			return candidate, true
		}
	}

	return "", false
}
