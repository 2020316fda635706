// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package samples reads the raw contents of point cloud sample files: the points and, when
// available, the per-point integer labels.
//
// It supports:
//
//   - Whitespace-delimited text files, with rows "x y z [label]" (ShapeNet `.pts` files and
//     generic `.txt` files).
//   - Label files with one integer per line (ShapeNet `.seg` files).
//   - PLY files, from which only the x, y, z vertex properties are read (ModelNet).
//
// Readers return errors for unreadable or malformed files; it's up to the caller to decide whether
// to fail or to substitute it with a Placeholder.
package samples

import (
	"math/rand/v2"

	"github.com/gomlx/pointclouds/pkg/pointset"
)

// Raw holds the contents of one sample file, before any resampling or normalization.
type Raw struct {
	// Points, with at least one point.
	Points pointset.Points

	// Labels aligned with Points, or nil if the sample file had no label column.
	Labels []int64

	// Placeholder is set if this is a synthetic sample, created to stand in for a file that could
	// not be read. See Placeholder.
	Placeholder bool
}

// HasLabels returns whether the sample file provided per-point labels.
func (r *Raw) HasLabels() bool {
	return r.Labels != nil
}

// LabelsOrOnes returns the per-point labels, or a synthetic all-ones sequence if the sample
// file didn't have labels.
func (r *Raw) LabelsOrOnes() []int64 {
	if r.Labels != nil {
		return r.Labels
	}
	return ones(len(r.Points))
}

// Placeholder returns a synthetic sample with numPoints points drawn from a standard normal
// distribution (using rng) and all-ones labels.
func Placeholder(rng *rand.Rand, numPoints int) *Raw {
	points := make(pointset.Points, numPoints)
	for i := range points {
		for axis := range 3 {
			points[i][axis] = float32(rng.NormFloat64())
		}
	}
	return &Raw{
		Points:      points,
		Labels:      ones(numPoints),
		Placeholder: true,
	}
}

func ones(n int) []int64 {
	labels := make([]int64, n)
	for i := range labels {
		labels[i] = 1
	}
	return labels
}
