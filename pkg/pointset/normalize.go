// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pointset

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Normalize moves the points, in place, to the canonical frame: it subtracts the centroid from
// every point and then divides the coordinates by the largest norm of the centered points, so the
// farthest point lies at distance 1 from the origin.
//
// If all points coincide the largest norm is 0 and the scaling is skipped: the result are all points
// at the origin, and the returned scale is 0.
//
// It returns the centroid subtracted and the scale the centered points were divided by.
func Normalize(points Points) (centroid r3.Vec, scale float64) {
	centroid = points.Centroid()
	for i := range points {
		points.SetVec(i, r3.Sub(points.Vec(i), centroid))
	}
	scale = points.MaxNorm()
	if scale == 0 {
		return
	}
	for i := range points {
		points.SetVec(i, r3.Scale(1.0/scale, points.Vec(i)))
	}
	return
}
