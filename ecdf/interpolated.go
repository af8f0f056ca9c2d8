// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package ecdf

import "math"

// massPoint is a single (value, mass) observation in an InterpolatedECDF.
// Mass is a real-valued count: it need not be an integer once two curves
// have been merged.
type massPoint struct {
	Value float64
	Mass  float64
}

// InterpolatedECDF is a continuous, piecewise-linear cumulative
// distribution function built by linearly interpolating between
// observed (value, mass) points. Unlike ECDF, it is always float64:
// quantile/fraction queries and merging need continuous arithmetic that
// integer domains do not support.
type InterpolatedECDF struct {
	samples []massPoint
}

// NewInterpolated returns an empty InterpolatedECDF.
func NewInterpolated() *InterpolatedECDF {
	return &InterpolatedECDF{}
}

// Len returns the total mass represented by this curve.
func (e *InterpolatedECDF) Len() float64 {
	var sum float64
	for _, s := range e.samples {
		sum += s.Mass
	}
	return sum
}

// IsEmpty reports whether this curve has no samples.
func (e *InterpolatedECDF) IsEmpty() bool {
	return len(e.samples) == 0
}

// Quantile returns the value at which the cumulative mass fraction
// reaches q. Out-of-range and NaN inputs return ±Inf or NaN rather than
// an error: NaN for a NaN q or an empty curve, -Inf for q < 0, and +Inf
// for q > 1.
func (e *InterpolatedECDF) Quantile(q float64) float64 {
	if math.IsNaN(q) {
		return math.NaN()
	}
	if q < 0.0 {
		return math.Inf(-1)
	}
	if q > 1.0 {
		return math.Inf(1)
	}
	if len(e.samples) == 0 {
		return math.NaN()
	}

	rank := e.Len() * q
	lv := e.samples[0].Value
	first := e.samples[0].Mass
	if first > rank {
		if len(e.samples) < 2 {
			return math.NaN()
		}
		dv := e.samples[1].Value - lv
		dc := e.samples[1].Mass
		m := dv / dc
		return lv + (rank-first)*m
	}
	rank -= first
	for _, s := range e.samples[1:] {
		n := s.Mass
		if n > rank {
			fraction := rank / n
			return lv + (s.Value-lv)*fraction
		}
		lv = s.Value
		rank -= n
	}
	return lv
}

// Fraction is the inverse of Quantile: it returns the cumulative mass
// fraction at or below v.
func (e *InterpolatedECDF) Fraction(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if len(e.samples) == 0 {
		return math.NaN()
	}

	iter := 0
	next := func() (massPoint, bool) {
		if iter >= len(e.samples) {
			return massPoint{}, false
		}
		p := e.samples[iter]
		iter++
		return p, true
	}

	var rank, sum float64
	first, ok := next()
	if !ok {
		return math.NaN()
	}
	lastV, lastMass := first.Value, first.Mass
	sum = lastMass

	if v < lastV {
		second, ok := next()
		if !ok {
			return math.NaN()
		}
		sum += second.Mass
		dv := second.Value - lastV
		m := second.Mass / dv
		rank = lastMass + (v-lastV)*m
	} else {
		for {
			nextPt, ok := next()
			if !ok {
				rank = sum
				break
			}
			sum += nextPt.Mass
			if v < nextPt.Value {
				dv := nextPt.Value - lastV
				m := nextPt.Mass / dv
				rank = sum + (v-nextPt.Value)*m
				break
			}
			lastV = nextPt.Value
		}
	}
	for {
		p, ok := next()
		if !ok {
			break
		}
		sum += p.Mass
	}
	frac := rank / sum
	if frac < 0.0 {
		return 0.0
	}
	if frac > 1.0 {
		return 1.0
	}
	return frac
}

// CumulativePoints returns this curve's (value, cumulative-mass-fraction)
// points, suitable for plotting. The fraction at the last point is
// always 1.0.
func (e *InterpolatedECDF) CumulativePoints() [][2]float64 {
	if len(e.samples) == 0 {
		return nil
	}
	total := e.Len()
	if total == 0 {
		return nil
	}
	points := make([][2]float64, len(e.samples))
	var sum float64
	for i, s := range e.samples {
		sum += s.Mass
		points[i] = [2]float64{s.Value, sum / total}
	}
	return points
}

// interpolateCounts resamples this curve onto the union of its own
// support and points, splitting each segment's mass proportionally by
// width. No mass is extrapolated before the first or after the last
// sample: points outside this curve's support receive zero mass.
func (e *InterpolatedECDF) interpolateCounts(points []float64) []massPoint {
	if len(e.samples) == 0 {
		out := make([]massPoint, len(points))
		for i, v := range points {
			out[i] = massPoint{Value: v, Mass: 0.0}
		}
		return out
	}
	if len(points) == 0 {
		out := make([]massPoint, len(e.samples))
		copy(out, e.samples)
		return out
	}

	out := make([]massPoint, 0, len(e.samples)+len(points))
	pi := 0
	si := 0
	var lowerV float64

	sv, sc := e.samples[si].Value, e.samples[si].Mass
	for pi < len(points) && points[pi] < sv {
		out = append(out, massPoint{Value: points[pi], Mass: 0.0})
		pi++
	}
	out = append(out, massPoint{Value: sv, Mass: sc})
	si++
	lowerV = sv

	hasPoint := pi < len(points)
	var pv float64
	if hasPoint {
		pv = points[pi]
	}

	for ; si < len(e.samples); si++ {
		upperV := e.samples[si].Value
		mass := e.samples[si].Mass

		if hasPoint && pv == lowerV {
			pi++
			hasPoint = pi < len(points)
			if hasPoint {
				pv = points[pi]
			}
		}

		var between []float64
		for hasPoint && pv < upperV {
			between = append(between, pv)
			pi++
			hasPoint = pi < len(points)
			if hasPoint {
				pv = points[pi]
			}
		}

		if len(between) == 0 {
			out = append(out, massPoint{Value: upperV, Mass: mass})
		} else {
			dv := upperV - lowerV
			m := mass / dv
			var lastCount float64
			for _, v := range between {
				newCount := (v - lowerV) * m
				out = append(out, massPoint{Value: v, Mass: newCount - lastCount})
				lastCount = newCount
			}
			out = append(out, massPoint{Value: upperV, Mass: mass - lastCount})
		}
		lowerV = upperV
	}

	if hasPoint {
		if pv > lowerV {
			out = append(out, massPoint{Value: pv, Mass: 0.0})
		}
		for pi++; pi < len(points); pi++ {
			out = append(out, massPoint{Value: points[pi], Mass: 0.0})
		}
	}
	return out
}

func valuesOf(samples []massPoint) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

// Merge combines two curves' mass, resampling each onto the other's
// support first so corresponding points share the same X value.
func (e *InterpolatedECDF) Merge(other *InterpolatedECDF) *InterpolatedECDF {
	if len(e.samples) == 0 {
		out := &InterpolatedECDF{samples: make([]massPoint, len(other.samples))}
		copy(out.samples, other.samples)
		return out
	}
	if len(other.samples) == 0 {
		out := &InterpolatedECDF{samples: make([]massPoint, len(e.samples))}
		copy(out.samples, e.samples)
		return out
	}
	selfCounts := e.interpolateCounts(valuesOf(other.samples))
	otherCounts := other.interpolateCounts(valuesOf(e.samples))
	merged := make([]massPoint, len(selfCounts))
	for i := range selfCounts {
		merged[i] = massPoint{Value: selfCounts[i].Value, Mass: selfCounts[i].Mass + otherCounts[i].Mass}
	}
	return &InterpolatedECDF{samples: merged}
}

// AreaDifference computes the area between two continuous CDFs. Each
// segment is either a trapezoid (when one curve stays above the other)
// or, when the curves cross inside the segment, a pair of triangles
// meeting at the crossing point ("bow-tie").
func (e *InterpolatedECDF) AreaDifference(other *InterpolatedECDF) float64 {
	selfRaw := e.interpolateCounts(valuesOf(other.samples))
	otherRaw := other.interpolateCounts(valuesOf(e.samples))

	selfTotal := e.Len()
	otherTotal := other.Len()

	type triple struct {
		v    float64
		a, b float64
	}
	n := len(selfRaw)
	joined := make([]triple, n)
	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += selfRaw[i].Mass
		sumB += otherRaw[i].Mass
		joined[i] = triple{v: selfRaw[i].Value, a: sumA / selfTotal, b: sumB / otherTotal}
	}

	if len(joined) == 0 {
		return 0.0
	}
	last := joined[0]
	var sum float64
	for _, next := range joined[1:] {
		x1, y1a, y1b := last.v, last.a, last.b
		x2, y2a, y2b := next.v, next.a, next.b
		if y1b > y1a {
			y1a, y1b = y1b, y1a
			y2a, y2b = y2b, y2a
		}

		var area float64
		if y2b > y2a {
			dx := x2 - x1
			mA := (y2a - y1a) / dx
			mB := (y2b - y1b) / dx
			bA := y1a - mA*x1
			bB := y1b - mB*x1
			xIntersect := (bB - bA) / (mA - mB)
			h1 := y1a - y1b
			h2 := y2b - y2a
			area = 0.5 * ((xIntersect-x1)*h1 + (x2-xIntersect)*h2)
		} else {
			dx := x2 - x1
			dy1 := y1a - y1b
			dy2 := y2a - y2b
			area = 0.5 * dx * (dy1 + dy2)
		}
		sum += area
		last = next
	}
	return sum
}
