// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package ecdf implements Empirical Cumulative Distribution Functions: a
// discrete step-function form (ECDF) built from observed samples, and a
// continuous piecewise-linear sibling (InterpolatedECDF) used for
// quantile/fraction queries, merging, and area-difference distances.
package ecdf

import (
	"math"
	"sort"

	"github.com/TonyRippy/mumble/kstest"
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"
)

// Number is the set of scalar types an ECDF can hold. It mirrors the
// "numeric, totally-ordered, copyable" constraint spec.md places on V.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// point is a single (value, count) observation.
type point[V Number] struct {
	Value V
	Count uint64
}

// ECDF is a discrete step-function distribution over sorted, unique
// values, each paired with the number of observations at that value.
type ECDF[V Number] struct {
	samples []point[V]
}

// New returns an empty ECDF.
func New[V Number]() *ECDF[V] {
	return &ECDF[V]{}
}

// FromSamples builds an ECDF from an unsorted bag of observations,
// sorting and run-length encoding them.
func FromSamples[V Number](values []V) *ECDF[V] {
	sorted := make([]V, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	e := &ECDF[V]{}
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		e.samples = append(e.samples, point[V]{Value: sorted[i], Count: uint64(j - i)})
		i = j
	}
	return e
}

// Clear removes all samples.
func (e *ECDF[V]) Clear() {
	e.samples = nil
}

// Len returns the total number of observations, i.e. the sum of counts.
func (e *ECDF[V]) Len() uint64 {
	var n uint64
	for _, s := range e.samples {
		n += s.Count
	}
	return n
}

// IsEmpty reports whether this ECDF has no samples.
func (e *ECDF[V]) IsEmpty() bool {
	return len(e.samples) == 0
}

// NumDistinct returns the number of distinct values tracked.
func (e *ECDF[V]) NumDistinct() int {
	return len(e.samples)
}

// ShrinkToFit releases unused backing-array capacity.
func (e *ECDF[V]) ShrinkToFit() {
	if len(e.samples) == cap(e.samples) {
		return
	}
	shrunk := make([]point[V], len(e.samples))
	copy(shrunk, e.samples)
	e.samples = shrunk
}

// Stats returns the sample mean, the standard deviation using an (n-1)
// denominator, and the observation count. Each distinct value's count is
// treated as a frequency weight, so gonum's weighted mean/variance give
// exactly the same result as expanding the run-length encoding back into
// individual observations, without materializing that expansion.
func (e *ECDF[V]) Stats() (mean, stddev float64, count uint64) {
	if len(e.samples) == 0 {
		return 0, 0, 0
	}
	values := make([]float64, len(e.samples))
	weights := make([]float64, len(e.samples))
	for i, s := range e.samples {
		values[i] = float64(s.Value)
		weights[i] = float64(s.Count)
		count += s.Count
	}
	mean = stat.Mean(values, weights)
	if count < 2 {
		return mean, 0, count
	}
	stddev = math.Sqrt(stat.Variance(values, weights))
	return
}

// Add records a single observation. NaN values have no order, matching
// spec.md's precondition policy: inserting a NaN panics with errNaN
// rather than silently corrupting sort order.
func (e *ECDF[V]) Add(value V) {
	e.AddN(value, 1)
}

// AddN records count observations of value in one step.
func (e *ECDF[V]) AddN(value V, count uint64) {
	if math.IsNaN(float64(value)) {
		panic(errNaN)
	}
	i := sort.Search(len(e.samples), func(i int) bool {
		return !(e.samples[i].Value < value)
	})
	if i < len(e.samples) && e.samples[i].Value == value {
		e.samples[i].Count += count
		return
	}
	e.samples = append(e.samples, point[V]{})
	copy(e.samples[i+1:], e.samples[i:])
	e.samples[i] = point[V]{Value: value, Count: count}
}

// SortedPair is a single (value, count) pair fed into MergeSorted.
type SortedPair[V Number] struct {
	Value V
	Count uint64
}

// MergeSorted merges a monotonically non-decreasing sequence of
// (value, count) pairs into the existing samples in one linear pass,
// coalescing equal values. Supplying a sequence that is not
// non-decreasing produces undefined ordering in the result, per
// spec.md's precondition policy.
func (e *ECDF[V]) MergeSorted(pairs []SortedPair[V]) {
	i, n := 0, len(e.samples)
	for _, p := range pairs {
		for {
			if i == n {
				e.samples = append(e.samples, point[V]{Value: p.Value, Count: p.Count})
				n++
				break
			}
			switch {
			case p.Value < e.samples[i].Value:
				e.samples = append(e.samples, point[V]{})
				copy(e.samples[i+1:], e.samples[i:])
				e.samples[i] = point[V]{Value: p.Value, Count: p.Count}
				n++
			case p.Value == e.samples[i].Value:
				e.samples[i].Count += p.Count
			default:
				i++
				continue
			}
			break
		}
	}
}

// Compact reduces the sample set to exactly target points (or 3,
// whichever is larger), dropping the interior points with the least
// linear-interpolation error first. Total mass (Len()) is unchanged.
func (e *ECDF[V]) Compact(target int) {
	e.CompactIf(target, target)
}

// CompactIf is a no-op unless the current size exceeds overSize, in
// which case it compacts down to max(targetSize, 3).
func (e *ECDF[V]) CompactIf(overSize, targetSize int) {
	if targetSize < 3 {
		e.CompactIf(overSize, 3)
		return
	}
	n := len(e.samples)
	if n <= overSize || n <= targetSize {
		return
	}

	errs := make([]float64, n-2)
	x0 := float64(e.samples[0].Value)
	x1, y1 := float64(e.samples[1].Value), float64(e.samples[1].Count)
	for i := 2; i < n; i++ {
		x2, y2 := float64(e.samples[i].Value), float64(e.samples[i].Count)
		y := (x1 - x0) * (y1 + y2) / (x2 - x0)
		errs[i-2] = math.Abs(y1 - y)
		x0 = x1
		x1, y1 = x2, y2
	}

	for n > targetSize {
		bestIndex := 0
		bestErr := errs[0]
		if bestErr > 0.0 {
			for i := 1; i < len(errs); i++ {
				if errs[i] < bestErr {
					bestIndex = i
					if errs[i] == 0.0 {
						break
					}
					bestErr = errs[i]
				}
			}
		}

		errs = append(errs[:bestIndex], errs[bestIndex+1:]...)
		dropped := e.samples[bestIndex+1]
		e.samples = append(e.samples[:bestIndex+1], e.samples[bestIndex+2:]...)
		e.samples[bestIndex+1].Count += dropped.Count
		n--

		if bestIndex > 0 {
			i := bestIndex - 1
			x0 = float64(e.samples[i].Value)
			x1, y1 = float64(e.samples[bestIndex].Value), float64(e.samples[bestIndex].Count)
			x2, y2 := float64(e.samples[bestIndex+1].Value), float64(e.samples[bestIndex+1].Count)
			y := (x1 - x0) * (y1 + y2) / (x2 - x0)
			errs[i] = math.Abs(y1 - y)
			x0 = x1
			x1, y1 = x2, y2
		} else {
			x0 = float64(e.samples[0].Value)
			x1, y1 = float64(e.samples[1].Value), float64(e.samples[1].Count)
		}
		if bestIndex < len(errs) {
			x2, y2 := float64(e.samples[bestIndex+2].Value), float64(e.samples[bestIndex+2].Count)
			y := (x1 - x0) * (y1 + y2) / (x2 - x0)
			errs[bestIndex] = math.Abs(y1 - y)
		}
	}
}

// Point is a single (value, cumulative-probability) observation emitted
// by PointIter.
type Point[V Number] struct {
	Value V
	P     float64
}

// PointIter returns every point on the ECDF curve as (value, P(v<=V)).
func (e *ECDF[V]) PointIter() []Point[V] {
	out := make([]Point[V], len(e.samples))
	total := float64(e.Len())
	var sum uint64
	for i, s := range e.samples {
		sum += s.Count
		out[i] = Point[V]{Value: s.Value, P: float64(sum) / total}
	}
	return out
}

// pointCursor walks a PointIter result one element at a time, supporting
// the Zip-style co-iteration used by the two-sample KS test and
// AreaDifference.
type pointCursor[V Number] struct {
	points []Point[V]
	pos    int
}

func newCursor[V Number](e *ECDF[V]) *pointCursor[V] {
	return &pointCursor[V]{points: e.PointIter()}
}

func (c *pointCursor[V]) next() (Point[V], bool) {
	if c.pos >= len(c.points) {
		return Point[V]{}, false
	}
	p := c.points[c.pos]
	c.pos++
	return p, true
}

// zipEntry is one co-iterated step across two ECDFs' point sequences.
type zipEntry[V Number] struct {
	Value V
	A, B  float64
}

// zip walks both ECDFs' point sequences in merge-sort order, emitting one
// entry per union point. When one side is exhausted the other finishes
// with P=1.0 on the finished side. State is the explicit four-field form
// described in SPEC_FULL.md's design notes: both cursors plus both
// last-emitted cumulative probabilities, advancing the smaller side (or
// both, on a tie) at each step.
func zip[V Number](a, b *ECDF[V]) []zipEntry[V] {
	ac, bc := newCursor(a), newCursor(b)
	aItem, aOK := ac.next()
	bItem, bOK := bc.next()
	var aP, bP float64
	var out []zipEntry[V]

	for {
		switch {
		case aOK && bOK:
			var v V
			if aItem.Value <= bItem.Value {
				v = aItem.Value
				aP = aItem.P
				aItem, aOK = ac.next()
			} else {
				v = bItem.Value
			}
			if bItem.Value <= v {
				bP = bItem.P
				bItem, bOK = bc.next()
			}
			out = append(out, zipEntry[V]{Value: v, A: aP, B: bP})
		case aOK && !bOK:
			out = append(out, zipEntry[V]{Value: aItem.Value, A: aItem.P, B: 1.0})
			aItem, aOK = ac.next()
		case !aOK && bOK:
			out = append(out, zipEntry[V]{Value: bItem.Value, A: 1.0, B: bItem.P})
			bItem, bOK = bc.next()
		default:
			return out
		}
	}
}

// DrawnFromDistribution runs a one-sample Kolmogorov-Smirnov test
// against the reference CDF cdf, returning the confidence level that
// this ECDF's samples were drawn from it.
func (e *ECDF[V]) DrawnFromDistribution(cdf func(V) float64) float64 {
	total := float64(e.Len())
	if total == 0 {
		return 1.0
	}
	var maxDiff float64
	var p float64
	var sum uint64
	for _, s := range e.samples {
		pDist := cdf(s.Value)
		if d := math.Abs(pDist - p); d > maxDiff {
			maxDiff = d
		}
		sum += s.Count
		p = float64(sum) / total
		if d := math.Abs(pDist - p); d > maxDiff {
			maxDiff = d
		}
	}
	z := maxDiff * math.Sqrt(total)
	return kstest.Prob(z)
}

// DrawnFromSameDistributionAs runs a two-sample Kolmogorov-Smirnov test,
// returning the confidence level that both ECDFs were drawn from the
// same underlying distribution.
func (e *ECDF[V]) DrawnFromSameDistributionAs(other *ECDF[V]) float64 {
	n, m := e.Len(), other.Len()
	if n == 0 || m == 0 {
		return 1.0
	}
	var maxDiff float64
	for _, z := range zip(e, other) {
		if d := math.Abs(z.A - z.B); d > maxDiff {
			maxDiff = d
		}
	}
	zstat := maxDiff * math.Sqrt(float64(n*m)/float64(n+m))
	return kstest.Prob(zstat)
}

// AreaDifference computes the L1 area between the two step CDFs. Each
// segment between successive comparison points is treated as a
// rectangle of width dv and height |P_self - P_other| measured at the
// segment's left edge, per spec.md's step-function convention.
func (e *ECDF[V]) AreaDifference(other *ECDF[V]) float64 {
	entries := zip(e, other)
	if len(entries) == 0 {
		return 0.0
	}
	last := entries[0]
	lastDiff := math.Abs(last.A - last.B)
	var sum float64
	for _, now := range entries[1:] {
		w := float64(now.Value) - float64(last.Value)
		sum += w * lastDiff
		last = now
		lastDiff = math.Abs(now.A - now.B)
	}
	return sum
}

// Interpolate lifts this ECDF's counts to real-valued mass, producing an
// InterpolatedECDF with the same support.
func (e *ECDF[V]) Interpolate() *InterpolatedECDF {
	samples := make([]massPoint, len(e.samples))
	for i, s := range e.samples {
		samples[i] = massPoint{Value: float64(s.Value), Mass: float64(s.Count)}
	}
	return &InterpolatedECDF{samples: samples}
}

// errNaN reports a NaN reaching a comparison-sensitive entry point,
// rather than letting Go's float comparisons silently misorder samples:
// CheckFinite returns it and AddN panics with it.
var errNaN = errors.New("ecdf: NaN value is not ordered")

// CheckFinite is a convenience precondition check for float-valued
// ECDFs; callers that accept external input should call this before
// Add/AddN/MergeSorted to turn an eventual ordering bug into a clear
// error instead of silent corruption.
func CheckFinite(v float64) error {
	if math.IsNaN(v) {
		return errNaN
	}
	return nil
}
