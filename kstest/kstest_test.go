// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package kstest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNint(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0.0, 0},
		{1.0, 1},
		{1.1, 1},
		{1.5, 2},
		{1.9, 2},
		{2.1, 2},
		{2.5, 2},
		{2.50001, 3},
		{2.6, 3},
		{-1.0, -1},
		{-1.1, -1},
		{-1.5, -2},
		{-1.9, -2},
		{-2.1, -2},
		{-2.5, -2},
		{-2.50001, -3},
		{-2.6, -3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, nint(c.in), "nint(%v)", c.in)
	}
}

func TestProb_Bounds(t *testing.T) {
	assert.Equal(t, 1.0, Prob(0.0))
	assert.Equal(t, 1.0, Prob(0.1999))
	assert.Equal(t, 0.0, Prob(6.8116))
	assert.Equal(t, 0.0, Prob(100.0))
}

func TestProb_Monotonic(t *testing.T) {
	prev := Prob(0.0)
	for z := 0.0; z <= 6.8116; z += 0.01 {
		cur := Prob(z)
		assert.LessOrEqualf(t, cur, prev+1e-12, "kprob not monotone at z=%v", z)
		prev = cur
	}
}

func TestProb_KnownValues(t *testing.T) {
	assert.InDelta(t, 1.0, Prob(0.5), 0.5)
	assert.Greater(t, Prob(0.5), 0.0)
	assert.Less(t, Prob(1.5), 0.1)
}
