// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package corpus builds the index of the samples of a point cloud corpus for a given split:
// the list of entries (category and sample file paths) and the mapping of categories to ids.
//
// Three on-disk layouts are supported, each by its own Indexer:
//
//   - ShapeNetIndexer: the ShapeNet part segmentation benchmark, driven by a category lookup file and
//     JSON split manifests.
//   - ModelNetIndexer: ModelNet, driven by per-split list files and an external category id table.
//   - FoldersIndexer: a generic layout with one folder per category holding text files, optionally
//     with a JSON file with the splits.
//
// It also includes the offline utilities that generate the side tables some layouts need (see
// CountShapeNetSegClasses and GenerateModelNetIDs).
package corpus

import (
	"github.com/gomlx/pointclouds/pkg/support/sets"
)

// Entry is one addressable sample of a corpus.
type Entry struct {
	// Category name.
	Category string

	// PointsPath is the path to the file with the points.
	PointsPath string

	// LabelsPath is the path to the file with the per-point labels, if they are stored in a separate
	// file. Empty otherwise.
	LabelsPath string
}

// Index is the result of indexing a corpus split. It is never modified after it is built.
type Index struct {
	// Entries in a deterministic order.
	Entries []Entry

	// Categories maps category names to ids.
	Categories *Categories

	// Active lists the categories selected (after filtering), in the order they were defined by the corpus.
	Active []string
}

// Indexer produces the Index of a corpus split.
//
// If filter is not empty, only entries of categories in filter are included.
type Indexer interface {
	Index(split string, filter sets.Set[string]) (*Index, error)
}

// allowed returns whether the category passes the filter. An empty filter allows everything.
func allowed(filter sets.Set[string], category string) bool {
	return len(filter) == 0 || filter.Has(category)
}
