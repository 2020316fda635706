// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomlx/pointclouds/pkg/support/sets"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// ShapeNetCategoryFile is the lookup table, under the corpus root, with one "CategoryName SynsetCode"
	// per line.
	ShapeNetCategoryFile = "synsetoffset2category.txt"

	// ShapeNetPointsDir and ShapeNetLabelsDir are the sub-directories of each synset code directory
	// with the `.pts` and `.seg` files respectively.
	ShapeNetPointsDir = "points"
	ShapeNetLabelsDir = "points_label"

	ShapeNetPointsExt = ".pts"
	ShapeNetLabelsExt = ".seg"
)

// ShapeNetManifestPath returns the path of the JSON manifest listing the files of the split.
func ShapeNetManifestPath(root, split string) string {
	return filepath.Join(root, "train_test_split", fmt.Sprintf("shuffled_%s_file_list.json", split))
}

// ShapeNetLabelsPath derives the `.seg` labels file path from the `.pts` points file path, by replacing
// the parent directory name and the extension.
func ShapeNetLabelsPath(pointsPath string) string {
	dir, file := filepath.Split(pointsPath)
	codeDir := filepath.Dir(filepath.Clean(dir))
	token := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(codeDir, ShapeNetLabelsDir, token+ShapeNetLabelsExt)
}

// ShapeNetCategory is one row of the ShapeNet category lookup table.
type ShapeNetCategory struct {
	Name, Code string
}

// ReadShapeNetCategories reads the category lookup table of the corpus at root, in file order.
func ReadShapeNetCategories(root string) ([]ShapeNetCategory, error) {
	path := filepath.Join(root, ShapeNetCategoryFile)
	pairs, err := ReadPairs(path)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, NewConfigurationError(path, errors.New("no categories defined"))
	}
	categories := make([]ShapeNetCategory, 0, len(pairs))
	seen := sets.Make[string](len(pairs))
	for _, pair := range pairs {
		if seen.Has(pair[0]) {
			return nil, NewConfigurationError(path, errors.Errorf("category %q defined more than once", pair[0]))
		}
		seen.Insert(pair[0])
		categories = append(categories, ShapeNetCategory{Name: pair[0], Code: pair[1]})
	}
	return categories, nil
}

// ShapeNetIndexer indexes the ShapeNet part segmentation benchmark layout:
//
//	<root>/synsetoffset2category.txt
//	<root>/train_test_split/shuffled_<split>_file_list.json
//	<root>/<code>/points/<uuid>.pts
//	<root>/<code>/points_label/<uuid>.seg
//
// The manifest is a JSON list of strings "<prefix>/<code>/<uuid>". The files themselves are not
// checked: they are assumed to exist, and reading failures are reported when the samples are loaded.
type ShapeNetIndexer struct {
	Root string
}

var _ Indexer = (*ShapeNetIndexer)(nil)

// Index implements Indexer.
//
// Entries are ordered by category, in the order of the lookup table, and within a category in the
// order of the manifest. Category ids are assigned in sorted order of the selected category names.
func (idx *ShapeNetIndexer) Index(split string, filter sets.Set[string]) (*Index, error) {
	allCategories, err := ReadShapeNetCategories(idx.Root)
	if err != nil {
		return nil, err
	}
	var active []string
	codeToName := make(map[string]string, len(allCategories))
	nameToCode := make(map[string]string, len(allCategories))
	for _, category := range allCategories {
		if !allowed(filter, category.Name) {
			continue
		}
		active = append(active, category.Name)
		codeToName[category.Code] = category.Name
		nameToCode[category.Name] = category.Code
	}
	if len(filter) > 0 {
		for _, name := range sets.Sorted(filter) {
			if _, found := nameToCode[name]; !found {
				klog.Warningf("ShapeNet category %q selected but not defined in %q", name, ShapeNetCategoryFile)
			}
		}
	}
	if len(active) == 0 {
		return nil, NewConfigurationError(filepath.Join(idx.Root, ShapeNetCategoryFile),
			errors.Errorf("none of the selected categories %v is defined", sets.Sorted(filter)))
	}

	manifestPath := ShapeNetManifestPath(idx.Root, split)
	files, err := readJSONManifest[[]string](manifestPath)
	if err != nil {
		return nil, err
	}
	perCategory := make(map[string][]Entry, len(active))
	for fileIdx, file := range files {
		parts := strings.Split(strings.Trim(file, "/"), "/")
		if len(parts) < 2 || parts[len(parts)-1] == "" || parts[len(parts)-2] == "" {
			return nil, NewConfigurationError(manifestPath,
				errors.Errorf("entry #%d %q is not in the format \"<prefix>/<code>/<uuid>\"", fileIdx, file))
		}
		code, uuid := parts[len(parts)-2], parts[len(parts)-1]
		name, found := codeToName[code]
		if !found {
			continue
		}
		pointsPath := filepath.Join(idx.Root, code, ShapeNetPointsDir, uuid+ShapeNetPointsExt)
		perCategory[name] = append(perCategory[name], Entry{
			Category:   name,
			PointsPath: pointsPath,
			LabelsPath: ShapeNetLabelsPath(pointsPath),
		})
	}

	index := &Index{
		Categories: NewSortedCategories(active),
		Active:     active,
	}
	for _, name := range active {
		index.Entries = append(index.Entries, perCategory[name]...)
	}
	klog.V(1).Infof("ShapeNet %q split: %d entries, %s", split, len(index.Entries), index.Categories)
	return index, nil
}

// readJSONManifest reads and decodes a JSON file, returning any failure as a ConfigurationError.
func readJSONManifest[T any](path string) (T, error) {
	var manifest T
	contents, err := os.ReadFile(path)
	if err != nil {
		return manifest, NewConfigurationError(path, err)
	}
	if err = json.Unmarshal(contents, &manifest); err != nil {
		return manifest, NewConfigurationError(path, errors.Wrap(err, "malformed JSON manifest"))
	}
	return manifest, nil
}
