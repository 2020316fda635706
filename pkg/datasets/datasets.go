// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package datasets serves point cloud samples from a corpus on disk, as fixed-size point sets with
// either a class label or per-point segmentation labels.
//
// Each access reads the sample file, resamples its points to Config.NumPoints, normalizes them
// (centered and scaled to the unit ball) and, if Config.Augment is set, randomly rotates them
// around the vertical axis and jitters them.
//
// There is one constructor per corpus layout: NewShapeNet, NewModelNet and NewFolders.
package datasets

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/gomlx/pointclouds/pkg/corpus"
	"github.com/gomlx/pointclouds/pkg/pointset"
	"github.com/gomlx/pointclouds/pkg/samples"
	"github.com/gomlx/pointclouds/pkg/support/sets"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultNumPoints is the default number of points of each returned sample.
const DefaultNumPoints = 2500

// Config of a Dataset. Start from DefaultConfig and change what is needed.
type Config struct {
	// Root directory of the corpus.
	Root string

	// Split to serve, usually "train" or "test".
	Split string

	// NumPoints is the number of points of each returned sample.
	NumPoints int

	// Augment enables the random rotation and jitter. Usually only used for training.
	Augment bool

	// Categories to include. If empty all categories are included.
	Categories []string

	// Classification selects the labels returned: if true the class id of the sample (as a
	// 1-element slice), otherwise the per-point segmentation labels.
	Classification bool

	// Seed for the generators created by Dataset.Get.
	//
	// With Augment set, a Seed of 0 is replaced by a random value drawn when the Dataset is created,
	// so datasets built with the same configuration (e.g. one per worker) are augmented
	// independently. Set a distinct non-zero Seed per worker for reproducible augmentation.
	Seed uint64

	// SegClassesTable is the path of the table with the number of segmentation classes per category,
	// used by NewShapeNet. If empty it defaults to corpus.SegClassesTableFile under Root.
	SegClassesTable string

	// CategoryIDsTable is the path of the table of category ids, used by NewModelNet.
	// If empty it defaults to corpus.ModelNetIDsTableFile under Root.
	CategoryIDsTable string
}

// DefaultConfig returns the default configuration for the corpus at root: "train" split,
// DefaultNumPoints points and augmentation enabled.
func DefaultConfig(root string) Config {
	return Config{
		Root:      root,
		Split:     "train",
		NumPoints: DefaultNumPoints,
		Augment:   true,
	}
}

func (c *Config) validate() error {
	if c.Root == "" {
		return corpus.NewConfigurationError("", errors.New("corpus root directory not set"))
	}
	if c.NumPoints <= 0 {
		return corpus.NewConfigurationError(c.Root, errors.Errorf("invalid number of points %d, it must be > 0", c.NumPoints))
	}
	if c.Split == "" {
		return corpus.NewConfigurationError(c.Root, errors.New("split not set"))
	}
	return nil
}

func (c *Config) filter() sets.Set[string] {
	if len(c.Categories) == 0 {
		return nil
	}
	return sets.MakeWith(c.Categories...)
}

// Example is one sample served by a Dataset.
type Example struct {
	// Points, with exactly Config.NumPoints points.
	Points pointset.Points

	// Labels is the class id as a 1-element slice in classification mode, otherwise the per-point
	// segmentation labels, aligned with Points.
	Labels []int64

	// Category of the sample and its ClassID.
	Category string
	ClassID  int

	// Placeholder is set if the sample file couldn't be read and the sample was replaced by random points.
	Placeholder bool
}

// loaderFn reads the raw contents of an entry.
type loaderFn func(entry corpus.Entry) (*samples.Raw, error)

// Dataset serves the samples of an indexed corpus split.
//
// It is safe for concurrent use: the index is never modified after construction, and each call
// uses its own random number generator.
type Dataset struct {
	name   string
	config Config
	index  *corpus.Index

	policy        pointset.Replacement
	load          loaderFn
	softFail      bool
	numSegClasses int
	augmenter     *pointset.Augmenter

	// seed of the generators created by Get. See Config.Seed.
	seed uint64

	numCalls, numPlaceholders atomic.Uint64
}

func newDataset(name string, config Config, index *corpus.Index) *Dataset {
	ds := &Dataset{
		name:      name,
		config:    config,
		index:     index,
		augmenter: pointset.NewAugmenter(),
		seed:      config.Seed,
	}
	if config.Augment && ds.seed == 0 {
		ds.seed = rand.Uint64()
	}
	return ds
}

// Name of the dataset, including its split.
func (ds *Dataset) Name() string { return ds.name }

// String implements fmt.Stringer.
func (ds *Dataset) String() string {
	return fmt.Sprintf("%s: %d samples, %d categories, %d segmentation classes",
		ds.name, ds.Len(), ds.NumCategories(), ds.numSegClasses)
}

// Len returns the number of samples.
func (ds *Dataset) Len() int { return len(ds.index.Entries) }

// NumCategories returns the number of category ids.
func (ds *Dataset) NumCategories() int { return ds.index.Categories.Len() }

// NumSegClasses returns the number of segmentation classes. It is 0 for datasets without per-point labels.
func (ds *Dataset) NumSegClasses() int { return ds.numSegClasses }

// Categories returns the mapping of category names to class ids.
func (ds *Dataset) Categories() *corpus.Categories { return ds.index.Categories }

// Config returns the configuration used to create the dataset.
func (ds *Dataset) Config() Config { return ds.config }

// Entry returns the indexed entry for the sample at index.
func (ds *Dataset) Entry(index int) (corpus.Entry, error) {
	if index < 0 || index >= ds.Len() {
		return corpus.Entry{}, newIndexError(index, ds.Len())
	}
	return ds.index.Entries[index], nil
}

// NumPlaceholders returns how many times a placeholder was served in place of an unreadable sample.
func (ds *Dataset) NumPlaceholders() uint64 { return ds.numPlaceholders.Load() }

// Get returns the points and labels of the sample at index. See Example for details.
//
// It uses a generator seeded from Config.Seed: if Config.Augment is false it is seeded with the index
// only, so Get is a deterministic function of the sample file. Otherwise, each call uses a different
// stream, and repeated calls return different points.
//
// It is safe to call concurrently.
func (ds *Dataset) Get(index int) (pointset.Points, []int64, error) {
	stream := uint64(index)
	if ds.config.Augment {
		stream = ds.numCalls.Add(1)<<32 | stream
	}
	rng := rand.New(rand.NewPCG(ds.seed, stream))
	example, err := ds.Example(index, rng)
	if err != nil {
		return nil, nil, err
	}
	return example.Points, example.Labels, nil
}

// Example reads the sample at index and returns it with exactly Config.NumPoints points, using rng
// for all random draws. rng must not be shared with concurrent calls.
//
// The points are resampled, then normalized and finally augmented (if Config.Augment is set).
// The returned points and labels are newly allocated.
//
// It fails with IndexError if index is out of range, or DataReadError if the sample couldn't be
// read, except for generic datasets (NewFolders), which return a placeholder of random points instead.
func (ds *Dataset) Example(index int, rng *rand.Rand) (*Example, error) {
	entry, err := ds.Entry(index)
	if err != nil {
		return nil, err
	}
	classID, _ := ds.index.Categories.ID(entry.Category)
	example := &Example{Category: entry.Category, ClassID: classID}

	raw, err := ds.load(entry)
	if err != nil {
		if !ds.softFail {
			if corpus.IsDataReadError(err) {
				return nil, err
			}
			return nil, corpus.NewDataReadError(entry.PointsPath, err)
		}
		klog.Warningf("%s: using placeholder for sample #%d: %v", ds.name, index, err)
		ds.numPlaceholders.Add(1)
		raw = samples.Placeholder(rng, ds.config.NumPoints)
	}
	example.Placeholder = raw.Placeholder

	var labels []int64
	if !ds.config.Classification {
		labels = raw.LabelsOrOnes()
	}
	example.Points, example.Labels, err = pointset.Resample(rng, raw.Points, labels, ds.config.NumPoints, ds.policy)
	if err != nil {
		return nil, corpus.NewDataReadError(entry.PointsPath, errors.WithMessagef(err, "resampling sample #%d", index))
	}
	pointset.Normalize(example.Points)
	if ds.config.Augment {
		ds.augmenter.Augment(rng, example.Points)
	}
	if ds.config.Classification {
		example.Labels = []int64{int64(classID)}
	}
	return example, nil
}
