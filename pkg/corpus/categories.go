// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package corpus

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

// Categories maps category names to dense integer ids in [0, Len()) and back.
//
// It is immutable once created.
type Categories struct {
	names []string
	ids   map[string]int
}

// NewSortedCategories assigns ids to the unique names in sorted order: the smallest name gets id 0.
func NewSortedCategories(names []string) *Categories {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	c := &Categories{
		names: sorted,
		ids:   make(map[string]int, len(sorted)),
	}
	for id, name := range sorted {
		c.ids[name] = id
	}
	return c
}

// NewCategoriesFromIDs creates Categories from an explicit name to id mapping. The ids must be
// unique and dense, that is, cover exactly [0, len(ids)).
func NewCategoriesFromIDs(ids map[string]int) (*Categories, error) {
	c := &Categories{
		names: make([]string, len(ids)),
		ids:   make(map[string]int, len(ids)),
	}
	for name, id := range ids {
		if id < 0 || id >= len(ids) {
			return nil, errors.Errorf("category %q has id %d, but ids must be dense in [0, %d)", name, id, len(ids))
		}
		if c.names[id] != "" {
			return nil, errors.Errorf("categories %q and %q share the same id %d", c.names[id], name, id)
		}
		c.names[id] = name
		c.ids[name] = id
	}
	return c, nil
}

// Len returns the number of categories.
func (c *Categories) Len() int { return len(c.names) }

// ID returns the id of the category name, and whether it was found.
func (c *Categories) ID(name string) (int, bool) {
	id, found := c.ids[name]
	return id, found
}

// Name returns the name of the category with the given id. It panics if id is out of range.
func (c *Categories) Name(id int) string {
	return c.names[id]
}

// Names returns a copy of the category names, indexed by id.
func (c *Categories) Names() []string {
	return slices.Clone(c.names)
}

// String implements fmt.Stringer.
func (c *Categories) String() string {
	return fmt.Sprintf("%d categories %v", len(c.names), c.names)
}
