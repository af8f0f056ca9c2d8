// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package batchdriver

import (
	"testing"
	"time"

	"github.com/TonyRippy/mumble/ecdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(ts string) Sample {
	return Sample{
		ID:   SampleID{Timestamp: ts, LabelSetID: 1},
		ECDF: ecdf.FromSamples([]float64{1, 2, 3}).Interpolate(),
	}
}

func TestBatcher_SplitsOnWindowBoundary(t *testing.T) {
	b := NewBatcher(30 * time.Minute)
	require.NoError(t, b.Add(sample("2026-08-01 00:00:00+00:00")))
	require.NoError(t, b.Add(sample("2026-08-01 00:15:00+00:00")))
	require.NoError(t, b.Add(sample("2026-08-01 00:30:00+00:00"))) // >= deadline: new window
	require.NoError(t, b.Add(sample("2026-08-01 00:40:00+00:00")))

	batches := b.Flush()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
}

func TestBatcher_FlushAlwaysReturnsTail(t *testing.T) {
	b := NewBatcher(30 * time.Minute)
	require.NoError(t, b.Add(sample("2026-08-01 00:00:00+00:00")))
	batches := b.Flush()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 1)

	// A second flush with nothing new returns nothing.
	assert.Empty(t, b.Flush())
}

func TestBatcher_EmptyInputProducesNoBatches(t *testing.T) {
	b := NewBatcher(30 * time.Minute)
	assert.Empty(t, b.Flush())
}

func TestParseTimestamp_RoundTrip(t *testing.T) {
	ts, err := ParseTimestamp("2026-08-01 12:34:56+00:00")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, 34, ts.Minute())
}
