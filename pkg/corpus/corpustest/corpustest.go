// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package corpustest creates small synthetic corpora on disk, in each of the supported layouts,
// to be used in tests.
package corpustest

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes contents to path, creating the parent directories if needed.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

// WriteJSON writes value encoded as JSON to path.
func WriteJSON(t testing.TB, path string, value any) {
	t.Helper()
	contents, err := json.MarshalIndent(value, "", "  ")
	require.NoError(t, err)
	WriteFile(t, path, string(contents))
}

// PointRows returns numPoints rows of random "x y z" coordinates, with a 4th label column if
// label is not nil.
func PointRows(rng *rand.Rand, numPoints int, label func(i int) int) string {
	var sb strings.Builder
	for i := range numPoints {
		_, _ = fmt.Fprintf(&sb, "%.5f %.5f %.5f", rng.Float64()*2-1, rng.Float64()*3, rng.Float64()-0.5)
		if label != nil {
			_, _ = fmt.Fprintf(&sb, " %d", label(i))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ShapeNetCategory describes one category of a synthetic ShapeNet corpus.
type ShapeNetCategory struct {
	Name, Code string

	// NumParts is the number of part labels, written 1-based (1..NumParts) in the `.seg` files.
	NumParts int

	// Train and Test are the number of samples of the category listed in each split manifest.
	// Unlisted is the number of samples on disk but in no manifest.
	Train, Test, Unlisted int
}

// ShapeNetCategories used by NewShapeNet.
var ShapeNetCategories = []ShapeNetCategory{
	{Name: "Chair", Code: "03001627", NumParts: 4, Train: 4, Test: 1},
	{Name: "Airplane", Code: "02691156", NumParts: 3, Train: 3, Test: 2},
	{Name: "Lamp", Code: "03636649", NumParts: 2, Unlisted: 2},
}

// ShapeNetNumPoints is the number of points in each sample of NewShapeNet.
const ShapeNetNumPoints = 100

// NewShapeNet creates a ShapeNet part segmentation corpus under t.TempDir() and returns its root.
//
// The manifests interleave the categories, the lookup table lists them in ShapeNetCategories order
// and the side table `num_seg_classes.txt` is written at the root.
func NewShapeNet(t testing.TB) string {
	root := t.TempDir()
	rng := rand.New(rand.NewPCG(1, 2))
	var lookup, segClasses strings.Builder
	manifests := map[string][]string{"train": nil, "test": nil}
	for _, category := range ShapeNetCategories {
		_, _ = fmt.Fprintf(&lookup, "%s\t%s\n", category.Name, category.Code)
		_, _ = fmt.Fprintf(&segClasses, "%s\t%d\n", category.Name, category.NumParts)
		total := category.Train + category.Test + category.Unlisted
		for sampleIdx := range total {
			uuid := fmt.Sprintf("%s%04d", strings.ToLower(category.Name), sampleIdx)
			WriteFile(t, filepath.Join(root, category.Code, "points", uuid+".pts"),
				PointRows(rng, ShapeNetNumPoints, nil))
			var seg strings.Builder
			for i := range ShapeNetNumPoints {
				_, _ = fmt.Fprintf(&seg, "%d\n", i%category.NumParts+1)
			}
			WriteFile(t, filepath.Join(root, category.Code, "points_label", uuid+".seg"), seg.String())
			entry := fmt.Sprintf("shape_data/%s/%s", category.Code, uuid)
			switch {
			case sampleIdx < category.Train:
				manifests["train"] = append(manifests["train"], entry)
			case sampleIdx < category.Train+category.Test:
				manifests["test"] = append(manifests["test"], entry)
			}
		}
	}
	WriteFile(t, filepath.Join(root, "synsetoffset2category.txt"), lookup.String())
	WriteFile(t, filepath.Join(root, "num_seg_classes.txt"), segClasses.String())
	for split, entries := range manifests {
		// Interleave categories, so the indexer has to regroup them.
		rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
		WriteJSON(t, filepath.Join(root, "train_test_split", fmt.Sprintf("shuffled_%s_file_list.json", split)), entries)
	}
	return root
}

// ModelNetSamples lists the samples of NewModelNet, per split, relative to the root.
var ModelNetSamples = map[string][]string{
	"train": {"sofa/sofa_0001.ply", "bed/bed_0001.ply", "sofa/sofa_0002.ply", "airplane/airplane_0001.ply"},
	"test":  {"bed/bed_0002.ply", "airplane/airplane_0002.ply"},
}

// PLYVertices returns an ascii PLY file with the given vertices, including a dummy face element.
func PLYVertices(vertices [][3]float64) string {
	var sb strings.Builder
	sb.WriteString("ply\nformat ascii 1.0\ncomment synthetic\n")
	_, _ = fmt.Fprintf(&sb, "element vertex %d\n", len(vertices))
	sb.WriteString("property float x\nproperty float y\nproperty float z\n")
	sb.WriteString("element face 1\nproperty list uchar int vertex_indices\nend_header\n")
	for _, v := range vertices {
		_, _ = fmt.Fprintf(&sb, "%.5f %.5f %.5f\n", v[0], v[1], v[2])
	}
	sb.WriteString("3 0 1 2\n")
	return sb.String()
}

// ModelNetNumVertices is the number of vertices in each sample of NewModelNet.
const ModelNetNumVertices = 40

// NewModelNet creates a ModelNet corpus under t.TempDir() with ascii PLY files and returns its root.
// No category id table is written.
func NewModelNet(t testing.TB) string {
	root := t.TempDir()
	rng := rand.New(rand.NewPCG(3, 4))
	for split, relPaths := range ModelNetSamples {
		for _, relPath := range relPaths {
			vertices := make([][3]float64, ModelNetNumVertices)
			for i := range vertices {
				vertices[i] = [3]float64{rng.Float64() * 10, rng.Float64(), rng.Float64() * 5}
			}
			WriteFile(t, filepath.Join(root, relPath), PLYVertices(vertices))
		}
		WriteFile(t, filepath.Join(root, split+".txt"), strings.Join(relPaths, "\n")+"\n")
	}
	return root
}

// FoldersCategories maps the category folders of NewFolders to their number of sample files.
var FoldersCategories = map[string]int{"mug": 2, "bottle": 3, "can": 1}

// FoldersNumPoints is the number of rows of each sample file of NewFolders. Labels are i%3.
const FoldersNumPoints = 60

// NewFolders creates a generic corpus with one folder per category under t.TempDir() and returns its
// root. Sample files are named "<category>_<n>.txt" and have 4 columns.
func NewFolders(t testing.TB) string {
	root := t.TempDir()
	rng := rand.New(rand.NewPCG(5, 6))
	for category, count := range FoldersCategories {
		for n := range count {
			WriteFile(t, filepath.Join(root, category, fmt.Sprintf("%s_%d.txt", category, n)),
				PointRows(rng, FoldersNumPoints, func(i int) int { return i % 3 }))
		}
	}
	return root
}
