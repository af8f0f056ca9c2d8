// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package histogram

import (
	"github.com/TonyRippy/mumble/ecdf"
	"github.com/cockroachdb/errors"
)

// BucketSpan is a run of contiguous (or offset-skipping) buckets in the
// sparse exponential encoding: Offset buckets are skipped after the
// previous span (or from index 0 for the first span), then Length
// buckets follow contiguously.
type BucketSpan struct {
	Offset int32
	Length uint32
}

// Histogram is the semantic, already-decoded form of an OpenTelemetry or
// Prometheus native exponential histogram. The legacy dense encodings
// (flat bucket/positive_count/negative_count arrays) are intentionally
// absent from this struct entirely, rather than present-but-rejected:
// a wire decoder that still carries those fields has nowhere to put
// them and must drop them before constructing a Histogram.
type Histogram struct {
	Schema        int32
	ZeroThreshold float64
	ZeroCount     uint64

	PositiveSpan  []BucketSpan
	PositiveDelta []int64

	NegativeSpan  []BucketSpan
	NegativeDelta []int64
}

// bound is a single (value, cumulative-count) pair used while assembling
// the ECDF. It mirrors positive_counts/negative_counts's return shape in
// the original decoder.
type bound struct {
	Value float64
	Count uint64
}

func positiveCounts(spans []BucketSpan, deltas []int64, schema int32) ([]bound, error) {
	out := make([]bound, 0, len(deltas)+len(spans))

	var lastSchemaIdx int32
	var bucketIdx int
	var bucketSum int64

	for _, span := range spans {
		startSchemaIdx := lastSchemaIdx + span.Offset
		endSchemaIdx := startSchemaIdx + int32(span.Length)
		lastSchemaIdx = endSchemaIdx

		lowerBound, err := GetBound(startSchemaIdx-1, schema)
		if err != nil {
			return nil, err
		}
		out = append(out, bound{Value: lowerBound, Count: 0})

		for schemaIdx := startSchemaIdx; schemaIdx < endSchemaIdx; schemaIdx++ {
			bucketSum += deltas[bucketIdx]
			bucketIdx++
			upperBound, err := GetBound(schemaIdx, schema)
			if err != nil {
				return nil, err
			}
			out = append(out, bound{Value: upperBound, Count: uint64(bucketSum)})
		}
	}
	return out, nil
}

func negativeCounts(spans []BucketSpan, deltas []int64, schema int32) ([]bound, error) {
	var lastSchemaIdx int32
	var lastBucketIdx int
	for _, span := range spans {
		lastSchemaIdx += span.Offset + int32(span.Length)
		lastBucketIdx += int(span.Length)
	}
	if lastBucketIdx != len(deltas) {
		return nil, errors.Newf("histogram: negative span lengths (%d) do not match delta count (%d)", lastBucketIdx, len(deltas))
	}

	var bucketSum int64
	for _, d := range deltas {
		bucketSum += d
	}

	out := make([]bound, 0, len(deltas)+len(spans))

	for i := len(spans) - 1; i >= 0; i-- {
		span := spans[i]
		endBucketIdx := lastBucketIdx
		startBucketIdx := endBucketIdx - int(span.Length)
		lastBucketIdx = startBucketIdx

		endSchemaIdx := lastSchemaIdx
		startSchemaIdx := endSchemaIdx - int32(span.Length)
		lastSchemaIdx = endSchemaIdx - span.Offset

		upperBound, err := GetBound(endSchemaIdx, schema)
		if err != nil {
			return nil, err
		}
		out = append(out, bound{Value: -upperBound, Count: 0})

		bucketsIdx := endBucketIdx - 1
		for schemaIdx := endSchemaIdx - 1; schemaIdx >= startSchemaIdx; schemaIdx-- {
			b, err := GetBound(schemaIdx, schema)
			if err != nil {
				return nil, err
			}
			out = append(out, bound{Value: -b, Count: uint64(bucketSum)})
			bucketSum -= deltas[bucketsIdx]
			bucketsIdx--
		}
		_ = startBucketIdx
	}
	return out, nil
}

// ToECDF decodes a Histogram into an InterpolatedECDF over its observed
// value range. The zero bucket's upper/lower edges are collapsed into a
// single (zero_threshold, zero_count) point between the negative and
// positive sides; if the last (least negative) negative-side bound lies
// below -zero_threshold, it is moved up to -zero_threshold.
func ToECDF(h *Histogram) (*ecdf.InterpolatedECDF, error) {
	positives, err := positiveCounts(h.PositiveSpan, h.PositiveDelta, h.Schema)
	if err != nil {
		return nil, err
	}
	negatives, err := negativeCounts(h.NegativeSpan, h.NegativeDelta, h.Schema)
	if err != nil {
		return nil, err
	}

	if len(negatives) > 0 {
		last := len(negatives) - 1
		if negatives[last].Value < -h.ZeroThreshold {
			negatives[last].Value = -h.ZeroThreshold
		}
	}

	pairs := make([]ecdf.SortedPair[float64], 0, len(negatives)+1+len(positives))
	for _, b := range negatives {
		pairs = append(pairs, ecdf.SortedPair[float64]{Value: b.Value, Count: b.Count})
	}
	pairs = append(pairs, ecdf.SortedPair[float64]{Value: h.ZeroThreshold, Count: h.ZeroCount})
	for _, b := range positives {
		pairs = append(pairs, ecdf.SortedPair[float64]{Value: b.Value, Count: b.Count})
	}

	e := ecdf.New[float64]()
	e.MergeSorted(pairs)
	return e.Interpolate(), nil
}
