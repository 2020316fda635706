// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package corpus

import (
	"path/filepath"
	"strings"

	"github.com/gomlx/pointclouds/pkg/support/sets"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ModelNetListPath returns the path of the file listing the samples of the split.
func ModelNetListPath(root, split string) string {
	return filepath.Join(root, split+".txt")
}

// CategoryOfPath returns the category of a sample path relative to the corpus root: its first path segment.
func CategoryOfPath(relPath string) string {
	relPath = strings.TrimPrefix(filepath.ToSlash(relPath), "./")
	category, _, _ := strings.Cut(relPath, "/")
	return category
}

// ModelNetIndexer indexes a ModelNet layout:
//
//	<root>/<split>.txt             # one path relative to root per line, "<category>/<file>.ply"
//	<root>/<category>/<file>.ply
//
// The category ids are not derived from the corpus, they are given by an external table (IDs),
// usually generated once by GenerateModelNetIDs. The sample files are assumed to exist.
type ModelNetIndexer struct {
	Root string

	// IDs maps every category (top-level folder name) to its id.
	IDs map[string]int
}

var _ Indexer = (*ModelNetIndexer)(nil)

// Index implements Indexer. Entries are in the order of the list file.
//
// The category mapping is always the full IDs table, even if filter selects only some of the categories.
func (idx *ModelNetIndexer) Index(split string, filter sets.Set[string]) (*Index, error) {
	if len(idx.IDs) == 0 {
		return nil, NewConfigurationError("ModelNet category id table", errors.New("table missing or empty"))
	}
	categories, err := NewCategoriesFromIDs(idx.IDs)
	if err != nil {
		return nil, NewConfigurationError("ModelNet category id table", err)
	}

	listPath := ModelNetListPath(idx.Root, split)
	lines, err := ReadLines(listPath)
	if err != nil {
		return nil, err
	}
	index := &Index{Categories: categories}
	activeSet := sets.Make[string]()
	for lineIdx, relPath := range lines {
		category := CategoryOfPath(relPath)
		if _, found := categories.ID(category); !found {
			return nil, NewConfigurationError(listPath,
				errors.Errorf("line %d: category %q of %q not in the category id table", lineIdx+1, category, relPath))
		}
		if !allowed(filter, category) {
			continue
		}
		if !activeSet.Has(category) {
			activeSet.Insert(category)
			index.Active = append(index.Active, category)
		}
		index.Entries = append(index.Entries, Entry{
			Category:   category,
			PointsPath: filepath.Join(idx.Root, relPath),
		})
	}
	klog.V(1).Infof("ModelNet %q split: %d entries, %d categories", split, len(index.Entries), categories.Len())
	return index, nil
}
