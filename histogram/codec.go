// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package histogram

import (
	"bytes"
	"encoding/gob"

	"github.com/cockroachdb/errors"
)

// Encode serializes a Histogram's semantic fields. The upstream
// protobuf wire format itself is out of scope for this module (only
// the parsed field semantics are): this codec exists so the evaluation
// tools have a concrete byte representation to round-trip through a
// database blob column, standing in for whatever wire decoder produced
// the Histogram value in a real deployment.
func (h *Histogram) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(h); err != nil {
		return nil, errors.Wrap(err, "histogram: encoding")
	}
	return buf.Bytes(), nil
}

// Decode parses bytes previously produced by Encode.
func Decode(data []byte) (*Histogram, error) {
	var h Histogram
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&h); err != nil {
		return nil, errors.Wrap(err, "histogram: decoding")
	}
	return &h, nil
}
