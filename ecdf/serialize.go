// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package ecdf

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

// Serializable restricts generic (de)serialization to the two concrete
// value types actually persisted: int64 histograms of raw samples, and
// float64 mass curves. encoding/binary.Write only supports fixed-width
// numeric kinds, so plain ~int is deliberately excluded here.
type Serializable interface {
	~int64 | ~float64
}

// WriteTo serializes this ECDF as a uint32 count followed by that many
// (value, count) pairs, big-endian. InterpolatedECDF.WriteTo uses the
// same length-prefixed layout; a general-purpose encoding like gob or
// MessagePack is not used for this fixed two-field record.
func WriteTo[V Serializable](e *ECDF[V], w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(e.samples))); err != nil {
		return errors.Wrap(err, "ecdf: writing sample count")
	}
	for _, s := range e.samples {
		if err := binary.Write(w, binary.BigEndian, s.Value); err != nil {
			return errors.Wrap(err, "ecdf: writing sample value")
		}
		if err := binary.Write(w, binary.BigEndian, s.Count); err != nil {
			return errors.Wrap(err, "ecdf: writing sample count")
		}
	}
	return nil
}

// ReadFrom deserializes an ECDF previously written by WriteTo.
func ReadFrom[V Serializable](r io.Reader) (*ECDF[V], error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, errors.Wrap(err, "ecdf: reading sample count")
	}
	e := &ECDF[V]{samples: make([]point[V], n)}
	for i := range e.samples {
		var v V
		var c uint64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, errors.Wrap(err, "ecdf: reading sample value")
		}
		if err := binary.Read(r, binary.BigEndian, &c); err != nil {
			return nil, errors.Wrap(err, "ecdf: reading sample count")
		}
		e.samples[i] = point[V]{Value: v, Count: c}
	}
	return e, nil
}

// WriteTo serializes this curve as a uint32 count followed by that many
// (value, mass) float64 pairs, big-endian.
func (e *InterpolatedECDF) WriteTo(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(e.samples))); err != nil {
		return errors.Wrap(err, "interpolated ecdf: writing sample count")
	}
	for _, s := range e.samples {
		if err := binary.Write(w, binary.BigEndian, s.Value); err != nil {
			return errors.Wrap(err, "interpolated ecdf: writing value")
		}
		if err := binary.Write(w, binary.BigEndian, s.Mass); err != nil {
			return errors.Wrap(err, "interpolated ecdf: writing mass")
		}
	}
	return nil
}

// ReadInterpolatedFrom deserializes a curve previously written by
// (*InterpolatedECDF).WriteTo.
func ReadInterpolatedFrom(r io.Reader) (*InterpolatedECDF, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, errors.Wrap(err, "interpolated ecdf: reading sample count")
	}
	e := &InterpolatedECDF{samples: make([]massPoint, n)}
	for i := range e.samples {
		if err := binary.Read(r, binary.BigEndian, &e.samples[i].Value); err != nil {
			return nil, errors.Wrap(err, "interpolated ecdf: reading value")
		}
		if err := binary.Read(r, binary.BigEndian, &e.samples[i].Mass); err != nil {
			return nil, errors.Wrap(err, "interpolated ecdf: reading mass")
		}
	}
	return e, nil
}
