// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMeanMax_Empty(t *testing.T) {
	m := NewMinMeanMax()
	assert.Equal(t, 0.0, m.Min())
	assert.Equal(t, 0.0, m.Max())
	assert.Equal(t, 0.0, m.Mean())
	assert.Equal(t, 0, m.Count())
}

func TestMinMeanMax_Basics(t *testing.T) {
	m := NewMinMeanMax()
	for _, x := range []float64{1, 2, 3, 4, 5} {
		m.Update(x)
	}
	assert.Equal(t, 1.0, m.Min())
	assert.Equal(t, 5.0, m.Max())
	assert.Equal(t, 3.0, m.Mean())
	assert.Equal(t, 5, m.Count())
}

func TestMinMeanMax_AsymmetricStdev(t *testing.T) {
	m := NewMinMeanMax()
	// A tight cluster below the mean and one far outlier above it: the
	// lo stdev should stay tight while hi stdev widens to absorb it.
	for _, x := range []float64{9, 10, 11, 50} {
		m.Update(x)
	}
	mean := m.Mean()
	assert.InDelta(t, 20.0, mean, 1e-9)
	assert.Greater(t, mean-m.LoStdev(mean), 0.0)
	assert.Less(t, m.LoStdev(mean), mean)
	assert.Greater(t, m.HiStdev(mean), mean)
}

func TestMinMeanMax_StringFormat(t *testing.T) {
	m := NewMinMeanMax()
	m.Update(1.0)
	s := m.String()
	assert.Contains(t, s, "1.0000")
	assert.Contains(t, s, ", 1, ")
}
