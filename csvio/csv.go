// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package csvio reads and writes the CSV time-series formats used by
// the sample-preparation tools: raw (timestamp, value) observations and
// (value, fraction) ECDF points. Gzip-compressed input is detected by
// file extension and transparently decompressed.
package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

// Value is a single raw observation: a timestamp split into seconds and
// nanoseconds (to round-trip exactly through CSV's text encoding) and
// the observed value.
type Value struct {
	TimestampSecs  int64
	TimestampNanos int32
	Value          float64
}

// Fraction is a single point on an ECDF curve.
type Fraction struct {
	Value    float64
	Fraction float64
}

// OpenGzipOrRegular opens path for reading, transparently decompressing
// it if the name ends in ".gz".
func OpenGzipOrRegular(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "csvio: opening %s", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "csvio: opening gzip stream %s", path)
	}
	return &gzipReadCloser{gz: gz, file: f}, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fileErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}

var valueHeader = []string{"timestamp_secs", "timestamp_nanos", "value"}
var fractionHeader = []string{"value", "fraction"}

// ReadValues parses a CSV stream of (timestamp_secs, timestamp_nanos,
// value) rows. Malformed rows are skipped with a logged warning rather
// than aborting the whole read, since a single corrupt row in a large
// time series shouldn't discard everything around it.
func ReadValues(r io.Reader, warn func(format string, args ...interface{})) ([]Value, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "csvio: reading header")
	}
	_ = header

	var out []Value
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if warn != nil {
				warn("csvio: skipping malformed row: %v", err)
			}
			continue
		}
		v, err := parseValueRow(record)
		if err != nil {
			if warn != nil {
				warn("csvio: skipping malformed row: %v", err)
			}
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func parseValueRow(record []string) (Value, error) {
	if len(record) != 3 {
		return Value{}, errors.Newf("csvio: expected 3 fields, got %d", len(record))
	}
	secs, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return Value{}, errors.Wrap(err, "csvio: parsing timestamp_secs")
	}
	nanos, err := strconv.ParseInt(record[1], 10, 32)
	if err != nil {
		return Value{}, errors.Wrap(err, "csvio: parsing timestamp_nanos")
	}
	value, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return Value{}, errors.Wrap(err, "csvio: parsing value")
	}
	return Value{TimestampSecs: secs, TimestampNanos: int32(nanos), Value: value}, nil
}

// WriteValues writes values as a header row followed by one row per
// observation.
func WriteValues(w io.Writer, values []Value) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(valueHeader); err != nil {
		return errors.Wrap(err, "csvio: writing header")
	}
	for _, v := range values {
		row := []string{
			strconv.FormatInt(v.TimestampSecs, 10),
			strconv.FormatInt(int64(v.TimestampNanos), 10),
			strconv.FormatFloat(v.Value, 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "csvio: writing row")
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFractions writes ECDF points as a header row followed by one row
// per (value, fraction) pair.
func WriteFractions(w io.Writer, fractions []Fraction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(fractionHeader); err != nil {
		return errors.Wrap(err, "csvio: writing header")
	}
	for _, f := range fractions {
		row := []string{
			strconv.FormatFloat(f.Value, 'g', -1, 64),
			strconv.FormatFloat(f.Fraction, 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "csvio: writing row")
		}
	}
	writer.Flush()
	return writer.Error()
}
