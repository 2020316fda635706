// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package pointset holds the geometric transformations applied to a point cloud sample before
// it is handed to a model: resampling to a fixed size, normalization to the unit ball and
// random rotation/jitter augmentation.
//
// All functions are pure functions of their inputs, except for the random draws, which always come
// from a *rand.Rand given by the caller. Nothing in this package keeps global state, so it is safe
// to use from any number of goroutines, as long as each one owns its generator.
package pointset

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Points is an ordered sequence of 3D coordinates (x, y, z), stored as float32.
//
// The y axis is considered the vertical axis, and (x, z) the ground plane.
type Points [][3]float32

// Clone returns a freshly allocated copy of the points.
func (p Points) Clone() Points {
	if p == nil {
		return nil
	}
	p2 := make(Points, len(p))
	copy(p2, p)
	return p2
}

// Vec returns the i-th point as a float64 vector.
func (p Points) Vec(i int) r3.Vec {
	return r3.Vec{X: float64(p[i][0]), Y: float64(p[i][1]), Z: float64(p[i][2])}
}

// SetVec sets the i-th point from a float64 vector.
func (p Points) SetVec(i int, v r3.Vec) {
	p[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Centroid returns the per-axis arithmetic mean of the points. It returns the zero vector for empty points.
func (p Points) Centroid() r3.Vec {
	var sum r3.Vec
	if len(p) == 0 {
		return sum
	}
	for i := range p {
		sum = r3.Add(sum, p.Vec(i))
	}
	return r3.Scale(1.0/float64(len(p)), sum)
}

// MaxNorm returns the largest Euclidean norm (distance from the origin) among the points.
func (p Points) MaxNorm() float64 {
	var maxNorm float64
	for i := range p {
		if n := r3.Norm(p.Vec(i)); n > maxNorm {
			maxNorm = n
		}
	}
	return maxNorm
}
