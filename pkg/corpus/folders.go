// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package corpus

import (
	"path/filepath"

	"github.com/gomlx/pointclouds/pkg/support/fsutil"
	"github.com/gomlx/pointclouds/pkg/support/sets"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// FoldersSplitsPath returns the path of the optional JSON file mapping split names to lists of
// sample paths (relative to root).
func FoldersSplitsPath(root string) string {
	return filepath.Join(root, "train_test_split", "file_splits.json")
}

// FoldersSampleExt is the extension of the sample files searched in each category folder.
const FoldersSampleExt = ".txt"

// FoldersIndexer indexes a generic corpus with one folder per category:
//
//	<root>/<category>/<any>.txt
//	<root>/train_test_split/file_splits.json   # optional: {"train": ["<category>/<file>.txt", ...], ...}
//
// If the splits file exists it defines the entries of the split, otherwise every sample in every
// category folder is included (the split name is then ignored). Without a filter, every
// sub-directory of root is a category.
//
// Entries whose file doesn't exist are dropped. Category ids are assigned by sorting the names of
// the categories that have at least one entry.
type FoldersIndexer struct {
	Root string
}

var _ Indexer = (*FoldersIndexer)(nil)

// Index implements Indexer.
func (idx *FoldersIndexer) Index(split string, filter sets.Set[string]) (*Index, error) {
	splitsPath := FoldersSplitsPath(idx.Root)
	hasSplits, err := fsutil.FileExists(splitsPath)
	if err != nil {
		return nil, NewConfigurationError(splitsPath, err)
	}
	var entries []Entry
	if hasSplits {
		entries, err = idx.entriesFromSplits(splitsPath, split, filter)
	} else {
		entries, err = idx.entriesFromScan(filter)
	}
	if err != nil {
		return nil, err
	}

	index := &Index{Entries: entries}
	activeSet := sets.Make[string]()
	for _, entry := range entries {
		if !activeSet.Has(entry.Category) {
			activeSet.Insert(entry.Category)
			index.Active = append(index.Active, entry.Category)
		}
	}
	index.Categories = NewSortedCategories(index.Active)
	if len(entries) == 0 {
		klog.Warningf("No samples found for split %q in %q", split, idx.Root)
	}
	klog.V(1).Infof("Folders %q split: %d entries, %s", split, len(index.Entries), index.Categories)
	return index, nil
}

func (idx *FoldersIndexer) entriesFromSplits(splitsPath, split string, filter sets.Set[string]) ([]Entry, error) {
	splits, err := readJSONManifest[map[string][]string](splitsPath)
	if err != nil {
		return nil, err
	}
	relPaths, found := splits[split]
	if !found {
		klog.Warningf("Split %q not defined in %q", split, splitsPath)
	}
	var entries []Entry
	for _, relPath := range relPaths {
		category := CategoryOfPath(relPath)
		if !allowed(filter, category) {
			continue
		}
		path := filepath.Join(idx.Root, relPath)
		if !fsutil.IsRegularFile(path) {
			klog.V(2).Infof("Skipping missing sample file %q", path)
			continue
		}
		entries = append(entries, Entry{Category: category, PointsPath: path})
	}
	return entries, nil
}

func (idx *FoldersIndexer) entriesFromScan(filter sets.Set[string]) ([]Entry, error) {
	var categories []string
	if len(filter) > 0 {
		categories = sets.Sorted(filter)
	} else {
		var err error
		categories, err = fsutil.SubDirs(idx.Root)
		if err != nil {
			return nil, NewConfigurationError(idx.Root, errors.WithMessage(err, "failed to scan category folders"))
		}
	}
	var entries []Entry
	for _, category := range categories {
		dir := filepath.Join(idx.Root, category)
		exists, err := fsutil.FileExists(dir)
		if err != nil || !exists {
			klog.V(1).Infof("Skipping missing category folder %q", dir)
			continue
		}
		paths, err := fsutil.FilesWithSuffix(dir, FoldersSampleExt)
		if err != nil {
			klog.Warningf("Skipping category folder %q: %v", dir, err)
			continue
		}
		for _, path := range paths {
			entries = append(entries, Entry{Category: category, PointsPath: path})
		}
	}
	return entries, nil
}
