// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pointset

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func randomPoints(rng *rand.Rand, n int) Points {
	points := make(Points, n)
	for i := range points {
		points[i] = [3]float32{
			float32(rng.NormFloat64()*3 + 10),
			float32(rng.NormFloat64()*2 - 5),
			float32(rng.NormFloat64() + 1),
		}
	}
	return points
}

func TestNormalize(t *testing.T) {
	rng := newTestRand()
	points := randomPoints(rng, 500)
	centroid, scale := Normalize(points)
	assert.InDelta(t, 10.0, centroid.X, 1.0)
	assert.Greater(t, scale, 0.0)

	newCentroid := points.Centroid()
	assert.InDelta(t, 0.0, r3.Norm(newCentroid), 1e-5)
	assert.InDelta(t, 1.0, points.MaxNorm(), 1e-5)
}

func TestNormalizeDegenerate(t *testing.T) {
	points := Points{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}}
	_, scale := Normalize(points)
	assert.Equal(t, 0.0, scale)
	for _, p := range points {
		for _, v := range p {
			require.False(t, math.IsNaN(float64(v)))
			require.Equal(t, float32(0), v)
		}
	}
	assert.Equal(t, 0.0, points.MaxNorm())
}

func TestRotate(t *testing.T) {
	points := Points{{1, 5, 0}}
	Rotate(points, math.Pi/2)
	assert.InDelta(t, 0.0, points[0][0], 1e-6)
	assert.Equal(t, float32(5), points[0][1], "vertical axis must not be rotated")
	assert.InDelta(t, -1.0, points[0][2], 1e-6)

	// Rotation preserves the norm.
	rng := newTestRand()
	points = randomPoints(rng, 100)
	Normalize(points)
	before := points.MaxNorm()
	Rotate(points, 1.234)
	assert.InDelta(t, before, points.MaxNorm(), 1e-5)
}

func TestAugment(t *testing.T) {
	rng := newTestRand()
	points := randomPoints(rng, 2500)
	Normalize(points)
	aug := NewAugmenter()

	p0, p1 := points.Clone(), points.Clone()
	theta0 := aug.Augment(rng, p0)
	theta1 := aug.Augment(rng, p1)
	assert.NotEqual(t, theta0, theta1)
	assert.GreaterOrEqual(t, theta0, 0.0)
	assert.Less(t, theta0, 2*math.Pi)
	assert.NotEqual(t, p0, p1, "augmentation should not be idempotent")

	// Jitter only: residual noise should have roughly the configured standard deviation.
	noRotation := &Augmenter{JitterStdDev: DefaultJitterStdDev, DisableRotation: true}
	p2 := points.Clone()
	noRotation.Augment(rng, p2)
	var sumSq float64
	for i := range p2 {
		for axis := range 3 {
			d := float64(p2[i][axis] - points[i][axis])
			sumSq += d * d
		}
	}
	stdDev := math.Sqrt(sumSq / float64(3*len(p2)))
	assert.InDelta(t, DefaultJitterStdDev, stdDev, 0.002)

	// No-op augmenter.
	p3 := points.Clone()
	(&Augmenter{DisableRotation: true}).Augment(rng, p3)
	assert.Equal(t, points, p3)
}

func TestChoose(t *testing.T) {
	rng := newTestRand()

	// With replacement never fails, even when asking for more than available.
	indices, err := Choose(rng, 10, 2500, WithReplacement)
	require.NoError(t, err)
	require.Len(t, indices, 2500)
	for _, idx := range indices {
		require.True(t, idx >= 0 && idx < 10)
	}

	// Without replacement never repeats.
	indices, err = Choose(rng, 3000, 2500, WithoutReplacement)
	require.NoError(t, err)
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		require.False(t, seen[idx], "index %d repeated", idx)
		require.True(t, idx >= 0 && idx < 3000)
		seen[idx] = true
	}

	_, err = Choose(rng, 10, 11, WithoutReplacement)
	require.Error(t, err)
	_, err = Choose(rng, 0, 5, WithReplacement)
	require.Error(t, err)

	// Adaptive: without replacement when there are more points, with replacement otherwise.
	indices, err = Choose(rng, 100, 50, WithoutReplacementIfEnough)
	require.NoError(t, err)
	seen = make(map[int]bool)
	for _, idx := range indices {
		require.False(t, seen[idx])
		seen[idx] = true
	}
	indices, err = Choose(rng, 10, 50, WithoutReplacementIfEnough)
	require.NoError(t, err)
	require.Len(t, indices, 50)
}

func TestResample(t *testing.T) {
	rng := newTestRand()
	points := make(Points, 10)
	labels := make([]int64, 10)
	for i := range points {
		points[i] = [3]float32{float32(i), float32(2 * i), float32(3 * i)}
		labels[i] = int64(i)
	}
	newPoints, newLabels, err := Resample(rng, points, labels, 2500, WithoutReplacementIfEnough)
	require.NoError(t, err)
	require.Len(t, newPoints, 2500)
	require.Len(t, newLabels, 2500)
	distinct := make(map[[3]float32]bool)
	for i, p := range newPoints {
		assert.Equal(t, float32(newLabels[i]), p[0], "labels must stay aligned with points")
		distinct[p] = true
	}
	assert.LessOrEqual(t, len(distinct), 10)

	// Resampled points are a fresh copy.
	newPoints[0][0] = -1
	for _, p := range points {
		assert.NotEqual(t, float32(-1), p[0])
	}

	// Labels are optional.
	newPoints, newLabels, err = Resample[int64](rng, points, nil, 5, WithReplacement)
	require.NoError(t, err)
	assert.Len(t, newPoints, 5)
	assert.Nil(t, newLabels)

	_, _, err = Gather(points, labels[:3], []int{0})
	require.Error(t, err)
}

func TestReplacementString(t *testing.T) {
	assert.Equal(t, "WithReplacement", WithReplacement.String())
	assert.Equal(t, "WithoutReplacement", WithoutReplacement.String())
	assert.Equal(t, "Unknown", Replacement(17).String())
}
