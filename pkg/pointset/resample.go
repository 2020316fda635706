// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package pointset

import (
	"math/rand/v2"

	"github.com/pkg/errors"
)

// Replacement defines if the Resampler draws indices with or without replacement.
type Replacement int

const (
	// WithReplacement always draws indices i.i.d. with replacement, regardless of the number of
	// points available.
	WithReplacement Replacement = iota

	// WithoutReplacementIfEnough draws without replacement if there are more points available than
	// requested, and with replacement otherwise.
	WithoutReplacementIfEnough

	// WithoutReplacement never repeats an index, and fails if more points are requested than available.
	WithoutReplacement
)

// String implements fmt.Stringer.
func (r Replacement) String() string {
	switch r {
	case WithReplacement:
		return "WithReplacement"
	case WithoutReplacementIfEnough:
		return "WithoutReplacementIfEnough"
	case WithoutReplacement:
		return "WithoutReplacement"
	}
	return "Unknown"
}

// Choose draws n indices from [0, m) with the given replacement policy.
//
// It fails if m <= 0, or if the policy is WithoutReplacement and n > m.
func Choose(rng *rand.Rand, m, n int, policy Replacement) ([]int, error) {
	if m <= 0 {
		return nil, errors.Errorf("cannot resample %d points out of an empty point set", n)
	}
	if n < 0 {
		return nil, errors.Errorf("invalid number of points to resample %d", n)
	}
	replace := true
	switch policy {
	case WithReplacement:
	case WithoutReplacementIfEnough:
		replace = m <= n
	case WithoutReplacement:
		if n > m {
			return nil, errors.Errorf("cannot draw %d points without replacement out of %d points", n, m)
		}
		replace = false
	default:
		return nil, errors.Errorf("unknown replacement policy %d", policy)
	}

	indices := make([]int, n)
	if replace {
		for i := range indices {
			indices[i] = rng.IntN(m)
		}
		return indices, nil
	}

	// Partial Fisher-Yates shuffle: only the first n positions are drawn.
	perm := make([]int, m)
	for i := range perm {
		perm[i] = i
	}
	for i := range n {
		j := i + rng.IntN(m-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	copy(indices, perm[:n])
	return indices, nil
}

// Gather returns newly allocated points and labels selected by indices. The same indices are applied to
// both, so the point-label correspondence is preserved.
//
// labels can be nil, in which case the returned labels are nil as well. Otherwise, it must have the
// same length as points.
func Gather[L any](points Points, labels []L, indices []int) (Points, []L, error) {
	if labels != nil && len(labels) != len(points) {
		return nil, nil, errors.Errorf("got %d labels for %d points, they must be the same", len(labels), len(points))
	}
	newPoints := make(Points, len(indices))
	var newLabels []L
	if labels != nil {
		newLabels = make([]L, len(indices))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= len(points) {
			return nil, nil, errors.Errorf("index %d out of range for %d points", idx, len(points))
		}
		newPoints[i] = points[idx]
		if labels != nil {
			newLabels[i] = labels[idx]
		}
	}
	return newPoints, newLabels, nil
}

// Resample draws n points (and their aligned labels, if not nil) using Choose and Gather.
func Resample[L any](rng *rand.Rand, points Points, labels []L, n int, policy Replacement) (Points, []L, error) {
	indices, err := Choose(rng, len(points), n, policy)
	if err != nil {
		return nil, nil, err
	}
	return Gather(points, labels, indices)
}
