// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pointset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultJitterStdDev is the standard deviation of the noise added to each coordinate by the Augmenter,
// in units of the normalized coordinates.
const DefaultJitterStdDev = 0.02

// Augmenter randomly rotates point sets around the vertical (y) axis and jitters their coordinates.
//
// It should only be used at training time, and after Normalize, so the rotation and the jitter act
// in the canonical frame.
type Augmenter struct {
	// JitterStdDev is the standard deviation of the Gaussian noise added to every coordinate.
	// If 0 no jitter is added.
	JitterStdDev float64

	// DisableRotation disables the random rotation around the vertical axis.
	DisableRotation bool
}

// NewAugmenter returns an Augmenter with the default jitter and rotation enabled.
func NewAugmenter() *Augmenter {
	return &Augmenter{JitterStdDev: DefaultJitterStdDev}
}

// Augment transforms the points in place, using rng for all the random draws.
//
// It draws one angle θ uniformly from [0, 2π) and rotates the (x, z) pair of every point with the
// matrix [[cos θ, -sin θ], [sin θ, cos θ]], applied to (x, z) as a row vector. The y coordinate
// is not rotated. Then it adds independent noise N(0, JitterStdDev) to every coordinate.
//
// It returns the angle used.
func (a *Augmenter) Augment(rng *rand.Rand, points Points) (theta float64) {
	if !a.DisableRotation {
		angle := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: rng}
		theta = angle.Rand()
		Rotate(points, theta)
	}
	if a.JitterStdDev > 0 {
		jitter := distuv.Normal{Mu: 0, Sigma: a.JitterStdDev, Src: rng}
		for i := range points {
			for axis := range 3 {
				points[i][axis] += float32(jitter.Rand())
			}
		}
	}
	return
}

// Rotate the (x, z) ground-plane coordinates of the points in place by the angle theta,
// leaving y unchanged.
func Rotate(points Points, theta float64) {
	sin, cos := math.Sincos(theta)
	for i := range points {
		x, z := float64(points[i][0]), float64(points[i][2])
		points[i][0] = float32(x*cos + z*sin)
		points[i][2] = float32(-x*sin + z*cos)
	}
}
