// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package ecdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSamples_RunLengthEncodes(t *testing.T) {
	e := FromSamples([]int64{1, 1, 3, 3, 2, 10, 3, 2, 1})
	require.Equal(t, uint64(9), e.Len())
	require.Equal(t, 4, e.NumDistinct())
	points := e.PointIter()
	values := make([]int64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	assert.Equal(t, []int64{1, 2, 3, 10}, values)
}

func TestAdd_KeepsSorted(t *testing.T) {
	e := New[int64]()
	e.Add(5)
	e.Add(1)
	e.Add(5)
	e.Add(3)
	assert.Equal(t, uint64(4), e.Len())
	assert.Equal(t, 3, e.NumDistinct())
}

func TestCompact_RetainsTotalMass(t *testing.T) {
	e := New[int64]()
	e.MergeSorted([]SortedPair[int64]{
		{Value: 1, Count: 1},
		{Value: 2, Count: 1},
		{Value: 3, Count: 2},
		{Value: 4, Count: 4},
		{Value: 5, Count: 10},
	})
	e.Compact(4)
	assert.Equal(t, uint64(18), e.Len())
	assert.Equal(t, 4, e.NumDistinct())

	points := e.PointIter()
	values := make([]int64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	assert.Equal(t, []int64{1, 3, 4, 5}, values)
}

func TestCompact_FloorsAtThree(t *testing.T) {
	e := FromSamples([]int64{1, 2, 3, 4, 5, 6, 7})
	e.Compact(1)
	assert.Equal(t, 3, e.NumDistinct())
}

func TestAreaDifference_Overlapping(t *testing.T) {
	a := FromSamples([]int64{1, 2, 3, 4})
	b := FromSamples([]int64{1, 3, 3, 4})
	assert.InDelta(t, 0.25, a.AreaDifference(b), 1e-9)
}

func TestAreaDifference_Disjoint(t *testing.T) {
	a := FromSamples([]int64{1, 2, 3, 4})
	b := FromSamples([]int64{4, 4, 4, 4})
	assert.InDelta(t, 1.5, a.AreaDifference(b), 1e-9)
}

func TestAreaDifference_Commutative(t *testing.T) {
	a := FromSamples([]int64{1, 2, 3, 4})
	b := FromSamples([]int64{1, 3, 3, 4})
	assert.InDelta(t, a.AreaDifference(b), b.AreaDifference(a), 1e-9)
}

func TestAreaDifference_Identity(t *testing.T) {
	a := FromSamples([]int64{1, 2, 3, 4, 4, 5})
	assert.Equal(t, 0.0, a.AreaDifference(a))
}

func TestStats(t *testing.T) {
	e := FromSamples([]int64{1, 2, 3, 4, 5})
	mean, stddev, n := e.Stats()
	assert.Equal(t, uint64(5), n)
	assert.InDelta(t, 3.0, mean, 1e-9)
	assert.InDelta(t, math.Sqrt(2.5), stddev, 1e-9)
}

func TestDrawnFromSameDistributionAs_Identical(t *testing.T) {
	a := FromSamples([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	b := FromSamples([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	assert.Equal(t, 1.0, a.DrawnFromSameDistributionAs(b))
}

func TestDrawnFromSameDistributionAs_EmptyIsCertain(t *testing.T) {
	a := New[int64]()
	b := FromSamples([]int64{1, 2, 3})
	assert.Equal(t, 1.0, a.DrawnFromSameDistributionAs(b))
}

func TestDrawnFromDistribution_Uniform(t *testing.T) {
	e := FromSamples([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	p := e.DrawnFromDistribution(func(v int64) float64 {
		return float64(v) / 10.0
	})
	assert.Greater(t, p, 0.9)
}

func TestInterpolate_PreservesMass(t *testing.T) {
	e := FromSamples([]int64{1, 2, 2, 3})
	ie := e.Interpolate()
	assert.InDelta(t, 4.0, ie.Len(), 1e-9)
}

func TestMergeSorted_InsertsAndCoalesces(t *testing.T) {
	e := FromSamples([]int64{2, 4, 6})
	e.MergeSorted([]SortedPair[int64]{
		{Value: 1, Count: 1},
		{Value: 4, Count: 2},
		{Value: 5, Count: 1},
		{Value: 7, Count: 1},
	})
	points := e.PointIter()
	values := make([]int64, len(points))
	counts := make([]uint64, len(points))
	var last uint64
	for i, p := range points {
		values[i] = p.Value
		cum := uint64(math.Round(p.P * float64(e.Len())))
		counts[i] = cum - last
		last = cum
	}
	assert.Equal(t, []int64{1, 2, 4, 5, 6, 7}, values)
	assert.Equal(t, []uint64{1, 1, 3, 1, 1, 1}, counts)
}

func TestZip_Interleave(t *testing.T) {
	a := FromSamples([]int64{1, 3, 3, 5})
	b := FromSamples([]int64{2, 2, 3, 4})
	entries := zip(a, b)
	want := []zipEntry[int64]{
		{Value: 1, A: 0.25, B: 0.00},
		{Value: 2, A: 0.25, B: 0.50},
		{Value: 3, A: 0.75, B: 0.75},
		{Value: 4, A: 0.75, B: 1.00},
		{Value: 5, A: 1.00, B: 1.00},
	}
	require.Equal(t, len(want), len(entries))
	for i, w := range want {
		assert.Equal(t, w.Value, entries[i].Value)
		assert.InDelta(t, w.A, entries[i].A, 1e-9)
		assert.InDelta(t, w.B, entries[i].B, 1e-9)
	}
}

func TestZip_EmptySide(t *testing.T) {
	empty := New[int64]()
	notEmpty := FromSamples([]int64{1, 2})

	entries := zip(empty, notEmpty)
	require.Len(t, entries, 2)
	assert.Equal(t, zipEntry[int64]{Value: 1, A: 1.0, B: 0.5}, entries[0])
	assert.Equal(t, zipEntry[int64]{Value: 2, A: 1.0, B: 1.0}, entries[1])

	entries = zip(notEmpty, empty)
	require.Len(t, entries, 2)
	assert.Equal(t, zipEntry[int64]{Value: 1, A: 0.5, B: 1.0}, entries[0])
	assert.Equal(t, zipEntry[int64]{Value: 2, A: 1.0, B: 1.0}, entries[1])
}

func TestZip_NoOverlap(t *testing.T) {
	a := FromSamples([]int64{1, 2})
	b := FromSamples([]int64{3, 4})
	entries := zip(a, b)
	want := []zipEntry[int64]{
		{Value: 1, A: 0.5, B: 0.0},
		{Value: 2, A: 1.0, B: 0.0},
		{Value: 3, A: 1.0, B: 0.5},
		{Value: 4, A: 1.0, B: 1.0},
	}
	require.Equal(t, len(want), len(entries))
	for i, w := range want {
		assert.Equal(t, w, entries[i])
	}
}

func TestClear(t *testing.T) {
	e := FromSamples([]int64{1, 2, 3})
	e.Clear()
	assert.True(t, e.IsEmpty())
	assert.Equal(t, uint64(0), e.Len())
}
