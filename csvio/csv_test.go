// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package csvio

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteValues_ReadValues_RoundTrip(t *testing.T) {
	values := []Value{
		{TimestampSecs: 100, TimestampNanos: 0, Value: 1.5},
		{TimestampSecs: 101, TimestampNanos: 500, Value: 2.5},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteValues(&buf, values))

	got, err := ReadValues(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestReadValues_SkipsMalformedRows(t *testing.T) {
	input := "timestamp_secs,timestamp_nanos,value\n100,0,1.5\nnot,a,number\n101,0,2.5\n"
	var warnings int
	got, err := ReadValues(strings.NewReader(input), func(string, ...interface{}) { warnings++ })
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, warnings)
}

func TestWriteFractions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFractions(&buf, []Fraction{{Value: 1, Fraction: 0.5}}))
	assert.Contains(t, buf.String(), "value,fraction")
	assert.Contains(t, buf.String(), "1,0.5")
}

func TestOpenGzipOrRegular_Regular(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp_secs,timestamp_nanos,value\n1,0,2\n"), 0o644))

	f, err := OpenGzipOrRegular(path)
	require.NoError(t, err)
	defer f.Close()

	values, err := ReadValues(f, nil)
	require.NoError(t, err)
	assert.Equal(t, []Value{{TimestampSecs: 1, TimestampNanos: 0, Value: 2}}, values)
}

func TestOpenGzipOrRegular_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressed.csv.gz")
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("timestamp_secs,timestamp_nanos,value\n1,0,2\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	f, err := OpenGzipOrRegular(path)
	require.NoError(t, err)
	defer f.Close()

	values, err := ReadValues(f, nil)
	require.NoError(t, err)
	assert.Equal(t, []Value{{TimestampSecs: 1, TimestampNanos: 0, Value: 2}}, values)
}
