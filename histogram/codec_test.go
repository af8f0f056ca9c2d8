// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	h := &Histogram{
		Schema:        0,
		ZeroThreshold: 0.001,
		ZeroCount:     2,
		PositiveSpan:  []BucketSpan{{Offset: 0, Length: 2}},
		PositiveDelta: []int64{3, 1},
		NegativeSpan:  []BucketSpan{{Offset: 0, Length: 1}},
		NegativeDelta: []int64{4},
	}
	data, err := h.Encode()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}
