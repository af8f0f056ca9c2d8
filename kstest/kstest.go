// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package kstest implements the Kolmogorov distribution tail probability
// used by the Kolmogorov-Smirnov goodness-of-fit tests in package ecdf.
//
// Ported from CERN ROOT's TMath::KolmogorovProb(), originally written in
// C++ by Rene Brun, Anna Kreshuk, Eddy Offermann, and Fons Rademakers.
package kstest

import "math"

// nint rounds x to the nearest integer, rounding exact halves to the
// nearest even integer (banker's rounding).
func nint(x float64) int64 {
	var i int64
	if math.Signbit(x) {
		i = int64(math.Trunc(x - 0.5))
		frac := x - math.Trunc(x)
		if i&1 != 0 && frac == -0.5 {
			i++
		}
	} else {
		i = int64(math.Trunc(x + 0.5))
		frac := x - math.Trunc(x)
		if i&1 != 0 && frac == 0.5 {
			i--
		}
	}
	return i
}

// kprob returns the confidence level for the null hypothesis that a
// sample was drawn from a reference distribution, given the KS test
// statistic z = D*sqrt(n) (or z = D*sqrt(n*m/(n+m)) for two samples).
//
// For z >= 6.8116, where the tail probability is below roughly 1e-40,
// zero is returned; the formula is only valid for "large" n.
func kprob(z float64) float64 {
	switch {
	case z < 0.2:
		return 1.0
	case z < 0.755:
		const (
			w  = 2.50662827
			c1 = -1.2337005501361697 // -pi^2/8
			c2 = 9 * c1
			c3 = 25 * c1
		)
		v := 1.0 / (z * z)
		return 1.0 - w*(math.Exp(c1*v)+math.Exp(c2*v)+math.Exp(c3*v))/z
	case z < 6.8116:
		fj := [4]float64{-2.0, -8.0, -18.0, -32.0}
		var r [4]float64
		v := z * z
		maxj := nint(3.0 / z)
		if maxj < 1 {
			maxj = 1
		}
		if maxj > 4 {
			maxj = 4
		}
		for j := int64(0); j < maxj; j++ {
			r[j] = math.Exp(fj[j] * v)
		}
		return 2.0 * (r[0] - r[1] + r[2] - r[3])
	default:
		return 0.0
	}
}

// Prob is the exported entry point: the Kolmogorov distribution tail
// probability P(D >= z) under the null hypothesis.
func Prob(z float64) float64 {
	return kprob(z)
}
