// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package histogram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBound_NegativeSchema(t *testing.T) {
	b, err := GetBound(-1, -1)
	require.NoError(t, err)
	assert.Equal(t, 0.25, b)

	b, err = GetBound(0, -1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, b)

	b, err = GetBound(512, -1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, b)

	b, err = GetBound(513, -1)
	require.NoError(t, err)
	assert.Equal(t, math.Inf(1), b)
}

func TestGetBound_SchemaZeroOverflow(t *testing.T) {
	b, err := GetBound(1024, 0)
	require.NoError(t, err)
	assert.Equal(t, math.MaxFloat64, b)
}

func TestGetBound_SchemaOutOfRange(t *testing.T) {
	_, err := GetBound(0, MaxSchema+1)
	assert.ErrorIs(t, err, ErrSchemaUnsupported)

	_, err = GetBound(0, MinSchema-1)
	assert.ErrorIs(t, err, ErrSchemaUnsupported)
}

func TestGetBound_TableMatchesKnownValues(t *testing.T) {
	// Schema 2's table values are documented directly in the upstream
	// OpenTelemetry/Prometheus histogram spec.
	want := []float64{0.5, 0.5946035575013605, 0.7071067811865475, 0.8408964152537144}
	for i, w := range want {
		b, err := GetBound(int32(i), 2)
		require.NoError(t, err)
		assert.InDelta(t, w*2, b, 1e-15) // bound = ldexp(frac, 1) = frac*2 for idx in [0,4)
	}
}
