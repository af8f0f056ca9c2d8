// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package stats implements the small accumulators the evaluation tools
// use to summarize a run's per-sample error.
package stats

import (
	"fmt"
	"math"
)

// MinMeanMax accumulates a stream of error values and reports their
// min, max, mean, and a pair of one-sided standard deviations computed
// separately above and below the mean. A symmetric stdev would blur
// together two differently-shaped tails; reporting them separately
// shows whether a clustering or histogramming scheme over- or
// under-estimates more often than the other direction.
type MinMeanMax struct {
	samples []float64
	sum     float64
}

// NewMinMeanMax returns an empty accumulator.
func NewMinMeanMax() *MinMeanMax {
	return &MinMeanMax{}
}

// Update adds x to the running sample set.
func (m *MinMeanMax) Update(x float64) {
	m.samples = append(m.samples, x)
	m.sum += x
}

// Count returns the number of samples seen so far.
func (m *MinMeanMax) Count() int {
	return len(m.samples)
}

// Min returns the smallest sample seen, or 0 if none have been added.
func (m *MinMeanMax) Min() float64 {
	if len(m.samples) == 0 {
		return 0.0
	}
	min := m.samples[0]
	for _, x := range m.samples[1:] {
		if x < min {
			min = x
		}
	}
	return min
}

// Max returns the largest sample seen, or 0 if none have been added.
func (m *MinMeanMax) Max() float64 {
	if len(m.samples) == 0 {
		return 0.0
	}
	max := m.samples[0]
	for _, x := range m.samples[1:] {
		if x > max {
			max = x
		}
	}
	return max
}

// Mean returns the arithmetic mean of every sample seen, or 0 if none
// have been added.
func (m *MinMeanMax) Mean() float64 {
	if len(m.samples) == 0 {
		return 0.0
	}
	return m.sum / float64(len(m.samples))
}

// LoStdev returns mean minus the root-mean-square deviation of the
// samples that fall at or below mean.
func (m *MinMeanMax) LoStdev(mean float64) float64 {
	if len(m.samples) == 0 {
		return 0.0
	}
	var sum float64
	var count int
	for _, x := range m.samples {
		if x > mean {
			continue
		}
		diff := mean - x
		sum += diff * diff
		count++
	}
	if count == 0 {
		return 0.0
	}
	return mean - math.Sqrt(sum/float64(count))
}

// HiStdev returns mean plus the root-mean-square deviation of the
// samples that fall at or above mean.
func (m *MinMeanMax) HiStdev(mean float64) float64 {
	if len(m.samples) == 0 {
		return 0.0
	}
	var sum float64
	var count int
	for _, x := range m.samples {
		if x < mean {
			continue
		}
		diff := x - mean
		sum += diff * diff
		count++
	}
	if count == 0 {
		return 0.0
	}
	return mean + math.Sqrt(sum/float64(count))
}

// String renders "min, lo_stdev, mean, hi_stdev, max, count, ", matching
// the five-number summary this module's evaluation tools print.
func (m *MinMeanMax) String() string {
	mean := m.Mean()
	return fmt.Sprintf("%.4f, %.4f, %.4f, %.4f, %.4f, %d, ",
		m.Min(), m.LoStdev(mean), mean, m.HiStdev(mean), m.Max(), m.Count())
}
