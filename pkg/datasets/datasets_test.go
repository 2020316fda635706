// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gomlx/pointclouds/pkg/corpus"
	"github.com/gomlx/pointclouds/pkg/corpus/corpustest"
	"github.com/gomlx/pointclouds/pkg/pointset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

// checkNormalized checks that the points are centered and the farthest one is at distance 1.
func checkNormalized(t *testing.T, points pointset.Points) {
	t.Helper()
	assert.InDelta(t, 1.0, points.MaxNorm(), tolerance)
	centroid := points.Centroid()
	assert.InDelta(t, 0.0, centroid.X, tolerance)
	assert.InDelta(t, 0.0, centroid.Y, tolerance)
	assert.InDelta(t, 0.0, centroid.Z, tolerance)
}

func TestShapeNet(t *testing.T) {
	root := corpustest.NewShapeNet(t)
	config := DefaultConfig(root)
	config.Categories = []string{"Chair"}
	config.Augment = false
	ds, err := NewShapeNet(config)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 1, ds.NumCategories())
	assert.Equal(t, 4, ds.NumSegClasses())
	assert.Equal(t, "ShapeNet train", ds.Name())

	for i := range ds.Len() {
		points, labels, err := ds.Get(i)
		require.NoError(t, err)
		require.Len(t, points, DefaultNumPoints)
		require.Len(t, labels, DefaultNumPoints)
		for _, label := range labels {
			require.GreaterOrEqual(t, label, int64(0))
			require.Less(t, label, int64(ds.NumSegClasses()))
		}
		checkNormalized(t, points)
	}

	// Without augmentation Get is deterministic.
	points0, labels0, err := ds.Get(0)
	require.NoError(t, err)
	points1, labels1, err := ds.Get(0)
	require.NoError(t, err)
	assert.Equal(t, points0, points1)
	assert.Equal(t, labels0, labels1)

	for _, index := range []int{-1, ds.Len()} {
		_, _, err = ds.Get(index)
		require.Error(t, err)
		assert.True(t, IsIndexError(err), "index %d: %v", index, err)
	}
}

func TestShapeNetAllCategories(t *testing.T) {
	root := corpustest.NewShapeNet(t)
	config := DefaultConfig(root)
	ds, err := NewShapeNet(config)
	require.NoError(t, err)
	assert.Equal(t, 7, ds.Len())
	assert.Equal(t, 3, ds.NumCategories())
	// First category of the lookup table is Chair.
	assert.Equal(t, 4, ds.NumSegClasses())
	assert.Equal(t, []string{"Airplane", "Chair", "Lamp"}, ds.Categories().Names())

	// Ids are stable across constructions.
	ds2, err := NewShapeNet(config)
	require.NoError(t, err)
	assert.Equal(t, ds.Categories(), ds2.Categories())

	// Classification mode: labels are the class id.
	config.Classification = true
	ds, err = NewShapeNet(config)
	require.NoError(t, err)
	for i := range ds.Len() {
		entry, err := ds.Entry(i)
		require.NoError(t, err)
		wantID, found := ds.Categories().ID(entry.Category)
		require.True(t, found)
		points, labels, err := ds.Get(i)
		require.NoError(t, err)
		assert.Len(t, points, DefaultNumPoints)
		assert.Equal(t, []int64{int64(wantID)}, labels)
	}

	// With augmentation two calls differ, but not the class.
	config.NumPoints = 200
	ds, err = NewShapeNet(config)
	require.NoError(t, err)
	points0, labels0, err := ds.Get(5)
	require.NoError(t, err)
	points1, labels1, err := ds.Get(5)
	require.NoError(t, err)
	assert.NotEqual(t, points0, points1)
	assert.Equal(t, labels0, labels1)
	assert.Len(t, points1, 200)
}

func TestShapeNetErrors(t *testing.T) {
	root := corpustest.NewShapeNet(t)
	config := DefaultConfig(root)
	config.Augment = false

	_, err := NewShapeNet(Config{Root: root, Split: "train"})
	assert.True(t, corpus.IsConfigurationError(err), "NumPoints not set: %v", err)

	config.Split = "val"
	_, err = NewShapeNet(config)
	assert.True(t, corpus.IsConfigurationError(err))
	config.Split = "train"

	// Bad label file.
	ds, err := NewShapeNet(config)
	require.NoError(t, err)
	entry, err := ds.Entry(0)
	require.NoError(t, err)
	corpustest.WriteFile(t, entry.LabelsPath, strings.Repeat("0\n", corpustest.ShapeNetNumPoints))
	_, _, err = ds.Get(0)
	assert.True(t, corpus.IsDataReadError(err), "label 0: %v", err)
	corpustest.WriteFile(t, entry.LabelsPath, "1\n2\n")
	_, _, err = ds.Get(0)
	assert.True(t, corpus.IsDataReadError(err), "too few labels: %v", err)
	require.NoError(t, os.Remove(entry.PointsPath))
	_, _, err = ds.Get(0)
	assert.True(t, corpus.IsDataReadError(err), "missing file: %v", err)
	assert.Equal(t, uint64(0), ds.NumPlaceholders())

	// Segmentation classes table is required only for segmentation.
	require.NoError(t, os.Remove(filepath.Join(root, corpus.SegClassesTableFile)))
	_, err = NewShapeNet(config)
	assert.True(t, corpus.IsConfigurationError(err))
	config.Classification = true
	ds, err = NewShapeNet(config)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.NumSegClasses())

	// Table without the first category.
	config.Classification = false
	config.SegClassesTable = filepath.Join(t.TempDir(), "seg.txt")
	corpustest.WriteFile(t, config.SegClassesTable, "Airplane\t3\n")
	_, err = NewShapeNet(config)
	assert.True(t, corpus.IsConfigurationError(err))
}

func TestModelNet(t *testing.T) {
	root := corpustest.NewModelNet(t)
	config := DefaultConfig(root)
	config.Classification = true

	_, err := NewModelNet(config)
	assert.True(t, corpus.IsConfigurationError(err), "missing id table: %v", err)

	ids, err := corpus.GenerateModelNetIDs(root)
	require.NoError(t, err)
	require.NoError(t, ids.Write(filepath.Join(root, corpus.ModelNetIDsTableFile)))
	ds, err := NewModelNet(config)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 3, ds.NumCategories())
	assert.Equal(t, 0, ds.NumSegClasses())

	rng := rand.New(rand.NewPCG(1, 1))
	for i := range ds.Len() {
		example, err := ds.Example(i, rng)
		require.NoError(t, err)
		require.Len(t, example.Points, DefaultNumPoints)
		wantID, _ := ids.Get(example.Category)
		assert.Equal(t, wantID, example.ClassID)
		assert.Equal(t, []int64{int64(wantID)}, example.Labels)
		assert.False(t, example.Placeholder)
	}

	config.Split = "test"
	config.Categories = []string{"airplane"}
	ds, err = NewModelNet(config)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	_, labels, err := ds.Get(0)
	require.NoError(t, err)
	assert.Equal(t, []int64{0}, labels)

	config.Classification = false
	_, err = NewModelNet(config)
	assert.True(t, corpus.IsConfigurationError(err))

	// Broken mesh file.
	config.Classification = true
	config.Categories = nil
	ds, err = NewModelNet(config)
	require.NoError(t, err)
	entry, err := ds.Entry(0)
	require.NoError(t, err)
	corpustest.WriteFile(t, entry.PointsPath, "not a ply file\n")
	_, _, err = ds.Get(0)
	assert.True(t, corpus.IsDataReadError(err), "broken PLY: %v", err)
}

func TestFolders(t *testing.T) {
	root := corpustest.NewFolders(t)
	config := DefaultConfig(root)
	config.Augment = false
	config.NumPoints = 50
	ds, err := NewFolders(config)
	require.NoError(t, err)
	assert.Equal(t, 6, ds.Len())
	assert.Equal(t, 3, ds.NumCategories())
	assert.Equal(t, 3, ds.NumSegClasses())

	rng := rand.New(rand.NewPCG(7, 7))
	for i := range ds.Len() {
		example, err := ds.Example(i, rng)
		require.NoError(t, err)
		require.Len(t, example.Points, 50)
		require.Len(t, example.Labels, 50)
		checkNormalized(t, example.Points)
		for _, label := range example.Labels {
			require.Less(t, label, int64(ds.NumSegClasses()))
		}

		// Without replacement, since there are enough points: no repeated points.
		distinct := make(map[[3]float32]bool)
		for _, point := range example.Points {
			distinct[point] = true
		}
		assert.Len(t, distinct, 50)
	}
}

func TestFoldersSmallAndBrokenFiles(t *testing.T) {
	root := t.TempDir()
	rng := rand.New(rand.NewPCG(11, 13))
	corpustest.WriteFile(t, filepath.Join(root, "tiny", "tiny.txt"), corpustest.PointRows(rng, 10, nil))
	corpustest.WriteFile(t, filepath.Join(root, "broken", "broken.txt"), "1 2 3\n4 5\nnot numbers\n")
	config := DefaultConfig(root)
	config.Augment = false
	ds, err := NewFolders(config)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, corpus.DefaultFoldersSegClasses, ds.NumSegClasses())

	// broken < tiny.
	example, err := ds.Example(1, rng)
	require.NoError(t, err)
	assert.Equal(t, "tiny", example.Category)
	assert.False(t, example.Placeholder)
	require.Len(t, example.Points, DefaultNumPoints)
	distinct := make(map[[3]float32]bool)
	for _, point := range example.Points {
		distinct[point] = true
	}
	assert.LessOrEqual(t, len(distinct), 10)
	for _, label := range example.Labels {
		require.Equal(t, int64(1), label)
	}

	example, err = ds.Example(0, rng)
	require.NoError(t, err)
	assert.Equal(t, "broken", example.Category)
	assert.True(t, example.Placeholder)
	require.Len(t, example.Points, DefaultNumPoints)
	require.Len(t, example.Labels, DefaultNumPoints)
	for _, label := range example.Labels {
		require.Equal(t, int64(1), label)
	}
	points, labels, err := ds.Get(0)
	require.NoError(t, err)
	assert.Len(t, points, DefaultNumPoints)
	assert.Len(t, labels, DefaultNumPoints)
	assert.Equal(t, uint64(2), ds.NumPlaceholders())

	_, err = ds.Example(2, rng)
	assert.True(t, IsIndexError(err))
}


func TestShapeNetSegClassesOfFirstCategory(t *testing.T) {
	root := corpustest.NewShapeNet(t)
	// List Airplane (3 parts) before Chair (4 parts) in the lookup table.
	corpustest.WriteFile(t, filepath.Join(root, "synsetoffset2category.txt"),
		"Airplane\t02691156\nChair\t03001627\nLamp\t03636649\n")
	config := DefaultConfig(root)
	config.Augment = false
	config.Categories = []string{"Chair", "Airplane"}
	ds, err := NewShapeNet(config)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.NumSegClasses())

	// Chair samples still carry their 4 part labels.
	var maxChairLabel int64
	for i := range ds.Len() {
		example, err := ds.Example(i, rand.New(rand.NewPCG(0, uint64(i))))
		require.NoError(t, err)
		if example.Category != "Chair" {
			continue
		}
		for _, label := range example.Labels {
			maxChairLabel = max(maxChairLabel, label)
		}
	}
	assert.Equal(t, int64(3), maxChairLabel)
}

func TestConcurrentGet(t *testing.T) {
	root := corpustest.NewShapeNet(t)
	config := DefaultConfig(root)
	config.NumPoints = 200
	config.Classification = true

	// Reference labels, without augmentation.
	config.Augment = false
	reference, err := NewShapeNet(config)
	require.NoError(t, err)
	wantLabels := make([][]int64, reference.Len())
	for i := range reference.Len() {
		_, wantLabels[i], err = reference.Get(i)
		require.NoError(t, err)
	}

	config.Augment = true
	ds, err := NewShapeNet(config)
	require.NoError(t, err)
	require.Equal(t, reference.Len(), ds.Len())

	const numGoroutines = 16
	const numRounds = 5
	var wg sync.WaitGroup
	for g := range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for round := range numRounds {
				for i := range ds.Len() {
					// Each goroutine starts at a different index, so they overlap on all of them.
					index := (i + g + round) % ds.Len()
					points, labels, err := ds.Get(index)
					if !assert.NoError(t, err) {
						return
					}
					assert.Len(t, points, config.NumPoints)
					assert.Equal(t, wantLabels[index], labels)
					assert.InDelta(t, 1.0, points.MaxNorm(), 0.2)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(0), ds.NumPlaceholders())

	// Still augmented after the concurrent calls.
	points0, _, err := ds.Get(0)
	require.NoError(t, err)
	points1, _, err := ds.Get(0)
	require.NoError(t, err)
	assert.NotEqual(t, points0, points1)
}

func TestAugmentSeed(t *testing.T) {
	root := corpustest.NewShapeNet(t)
	config := DefaultConfig(root)
	config.NumPoints = 200

	// With the default Seed of 0, each dataset draws its own augmentation.
	ds0, err := NewShapeNet(config)
	require.NoError(t, err)
	ds1, err := NewShapeNet(config)
	require.NoError(t, err)
	points0, _, err := ds0.Get(0)
	require.NoError(t, err)
	points1, _, err := ds1.Get(0)
	require.NoError(t, err)
	assert.NotEqual(t, points0, points1)

	// An explicit Seed reproduces the same sequence.
	config.Seed = 42
	ds0, err = NewShapeNet(config)
	require.NoError(t, err)
	ds1, err = NewShapeNet(config)
	require.NoError(t, err)
	for range 3 {
		points0, labels0, err := ds0.Get(1)
		require.NoError(t, err)
		points1, labels1, err := ds1.Get(1)
		require.NoError(t, err)
		assert.Equal(t, points0, points1)
		assert.Equal(t, labels0, labels1)
	}
}
