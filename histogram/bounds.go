// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package histogram decodes OpenTelemetry/Prometheus-style exponential
// (native) histograms into InterpolatedECDF curves.
package histogram

import (
	"math"

	"github.com/cockroachdb/errors"
)

// MaxSchema is the highest schema with a precomputed fractional-bound
// table. Schemas above this, and schemas below MinSchema, are rejected
// rather than silently approximated.
const MaxSchema = 8

// MinSchema is the lowest schema get_bound can compute: below it, idx
// shifted left by -schema could overflow a 32-bit exponent range for
// any observation this decoder would plausibly see.
const MinSchema = -4

// exponentialBounds[s] holds the fractional boundaries of schema s's
// buckets within [0.5, 1): exponentialBounds[s][k] = 2^(k/2^s) / 2, for
// k in [0, 2^s). This is the same power-of-two subdivision Prometheus's
// native histograms precompute into a literal table; computing it once
// at init time avoids transcribing several hundred float64 literals by
// hand while producing the identical values.
var exponentialBounds [MaxSchema + 1][]float64

func init() {
	for s := 0; s <= MaxSchema; s++ {
		n := 1 << s
		bounds := make([]float64, n)
		for k := 0; k < n; k++ {
			bounds[k] = math.Exp2(float64(k)/float64(n)) / 2
		}
		exponentialBounds[s] = bounds
	}
}

// ErrSchemaUnsupported is returned when GetBound is asked for a schema
// with no fractional-bound table, per spec.md's precondition policy:
// "decoders for other schemas must reject with a precondition error."
var ErrSchemaUnsupported = errors.New("histogram: schema has no bound table")

// GetBound returns the upper boundary of bucket idx under the given
// schema. For schema < 0 it uses the direct power-of-two formula; for
// schema in [0, MaxSchema] it uses the precomputed fractional table.
// Both branches special-case the bucket immediately below the overflow
// (±Inf) bucket, returning math.MaxFloat64 instead of the formula's
// literal result of +Inf.
func GetBound(idx int32, schema int32) (float64, error) {
	if schema < 0 {
		if schema < MinSchema {
			return 0, errors.Wrapf(ErrSchemaUnsupported, "schema %d below minimum %d", schema, MinSchema)
		}
		exp := idx << uint(-schema)
		if exp == 1024 {
			return math.MaxFloat64, nil
		}
		return math.Ldexp(1.0, int(exp)), nil
	}
	if schema > MaxSchema {
		return 0, errors.Wrapf(ErrSchemaUnsupported, "schema %d above maximum %d", schema, MaxSchema)
	}

	n := int32(1) << uint(schema)
	fracIdx := idx & (n - 1)
	frac := exponentialBounds[schema][fracIdx]
	exp := (idx >> uint(schema)) + 1
	if frac == 0.5 && exp == 1025 {
		return math.MaxFloat64, nil
	}
	return math.Ldexp(frac, int(exp)), nil
}
