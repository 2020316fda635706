// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package corpus

import (
	"path/filepath"
	"sync"

	"github.com/gomlx/pointclouds/internal/workerspool"
	"github.com/gomlx/pointclouds/pkg/samples"
	"github.com/gomlx/pointclouds/pkg/support/fsutil"
	"github.com/gomlx/pointclouds/pkg/support/sets"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// ScanConfig configures the offline corpus scans.
type ScanConfig struct {
	// ShowProgress displays a progress bar on the terminal.
	ShowProgress bool

	// Parallelism is the number of files read in parallel. If 0 it uses the number of cores,
	// if negative it is unlimited.
	Parallelism int
}

func (c ScanConfig) newPool() *workerspool.Pool {
	pool := workerspool.New()
	if c.Parallelism != 0 {
		pool.SetMaxParallelism(c.Parallelism)
	}
	return pool
}

func (c ScanConfig) newBar(total int, description string) *progressbar.ProgressBar {
	if c.ShowProgress {
		return progressbar.Default(int64(total), description)
	}
	return progressbar.DefaultSilent(int64(total), description)
}

// CountShapeNetSegClasses scans every `.seg` label file of every category of the ShapeNet corpus
// at root, and returns for each category (in the lookup table order) the largest number of
// distinct label values found in any one of its samples.
//
// The samples of a category are listed from its `points` directory, and the label file of each
// one is expected in `points_label`. Any unreadable label file aborts the scan.
//
// The result is usually saved with Table.Write as SegClassesTableFile.
func CountShapeNetSegClasses(root string, config ScanConfig) (*Table[int], error) {
	categories, err := ReadShapeNetCategories(root)
	if err != nil {
		return nil, err
	}

	type job struct {
		category, labelsPath string
	}
	var jobs []job
	for _, category := range categories {
		pointsDir := filepath.Join(root, category.Code, ShapeNetPointsDir)
		paths, err := fsutil.FilesWithSuffix(pointsDir, ShapeNetPointsExt)
		if err != nil {
			return nil, NewConfigurationError(pointsDir, err)
		}
		for _, pointsPath := range paths {
			jobs = append(jobs, job{category: category.Name, labelsPath: ShapeNetLabelsPath(pointsPath)})
		}
	}

	var mu sync.Mutex
	var firstErr error
	counts := make(map[string]int, len(categories))
	bar := config.newBar(len(jobs), "seg classes")
	pool := config.newPool()
	for _, j := range jobs {
		pool.WaitToStart(func() {
			defer func() { _ = bar.Add(1) }()
			labels, err := samples.ReadLabels(j.labelsPath)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = NewDataReadError(j.labelsPath, err)
				}
				return
			}
			distinct := sets.MakeWith(labels...)
			if len(distinct) > counts[j.category] {
				counts[j.category] = len(distinct)
			}
		})
	}
	pool.Wait()
	_ = bar.Finish()
	if firstErr != nil {
		return nil, firstErr
	}

	table := NewTable[int]()
	for _, category := range categories {
		table.Set(category.Name, counts[category.Name])
		klog.V(1).Infof("category %s: %d segmentation classes", category.Name, counts[category.Name])
	}
	return table, nil
}

// GenerateModelNetIDs assigns the ModelNet category ids: the sorted unique categories (first path
// segment) of the samples listed in the "train" split get ids 0, 1, 2, ...
//
// The result is usually saved with Table.Write as ModelNetIDsTableFile.
func GenerateModelNetIDs(root string) (*Table[int], error) {
	lines, err := ReadLines(ModelNetListPath(root, "train"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		names = append(names, CategoryOfPath(line))
	}
	categories := NewSortedCategories(names)
	table := NewTable[int]()
	for id, name := range categories.Names() {
		table.Set(name, id)
	}
	return table, nil
}

const (
	// DefaultFoldersSegClasses is the number of segmentation classes assumed for a generic corpus
	// when none of the scanned files has a label column.
	DefaultFoldersSegClasses = 4

	// FoldersSegClassesScanLimit is the maximum number of files read to estimate the number of
	// segmentation classes of a generic corpus.
	FoldersSegClassesScanLimit = 50
)

// EstimateFoldersSegClasses estimates the number of segmentation classes of a generic corpus by
// reading up to maxFiles of the entries (in order): it returns the largest label found plus one, so
// every label seen is in [0, result). The result is at least 2, since samples without a label column
// get all-ones labels. Unreadable files are skipped.
//
// If none of the files read has a label column it returns DefaultFoldersSegClasses.
func EstimateFoldersSegClasses(entries []Entry, maxFiles int) int {
	maxLabel := int64(-1)
	for _, entry := range entries[:min(maxFiles, len(entries))] {
		raw, err := samples.ReadText(entry.PointsPath)
		if err != nil {
			klog.V(2).Infof("skipping %q while estimating segmentation classes: %v", entry.PointsPath, err)
			continue
		}
		if !raw.HasLabels() {
			continue
		}
		for _, label := range raw.Labels {
			maxLabel = max(maxLabel, label)
		}
	}
	if maxLabel < 0 {
		return DefaultFoldersSegClasses
	}
	// Unlabeled and placeholder samples use label 1.
	return max(int(maxLabel)+1, 2)
}
