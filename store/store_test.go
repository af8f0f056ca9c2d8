// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package store

import (
	"path/filepath"
	"testing"

	"github.com/TonyRippy/mumble/ecdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *DataStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, 1)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTestStore(t)
	var count int
	err := s.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name IN ('cluster','monitoring_data','full_sample')`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestWriteCluster_PersistsCentroid(t *testing.T) {
	s := openTestStore(t)
	curve := ecdf.FromSamples([]float64{1, 2, 3}).Interpolate()
	require.NoError(t, s.WriteCluster(0, curve, 0.1))

	var eps float64
	var groupID int64
	err := s.db.QueryRow(`SELECT group_id, eps FROM cluster WHERE id = 0`).Scan(&groupID, &eps)
	require.NoError(t, err)
	assert.Equal(t, int64(1), groupID)
	assert.InDelta(t, 0.1, eps, 1e-9)
}

func TestWriteSample_PersistsRow(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.WriteSample("2026-08-01 00:00:00+00:00", 1, 0, 42))

	var count int64
	err := s.db.QueryRow(`SELECT count FROM monitoring_data WHERE cluster_id = 0`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestWriteHistogramSample_PersistsRow(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.WriteHistogramSample("2026-08-01 00:00:00+00:00", []byte{1, 2, 3}))

	var data []byte
	err := s.db.QueryRow(`SELECT data FROM histogram_sample WHERE timestamp = ?`, "2026-08-01 00:00:00+00:00").Scan(&data)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestWriteBatch_OrdersClustersBeforeSamples(t *testing.T) {
	s := openTestStore(t)
	newCentroids := []Centroid{
		{Curve: ecdf.FromSamples([]float64{1, 2}).Interpolate(), Eps: 0.1},
	}
	samples := []SampleAssignment{
		{Timestamp: "2026-08-01 00:00:00+00:00", LabelSetID: 1, ClusterID: 0, Count: 5},
	}
	require.NoError(t, s.WriteBatch(newCentroids, 0, samples))

	var clusterCount, sampleCount int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM cluster`).Scan(&clusterCount))
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM monitoring_data`).Scan(&sampleCount))
	assert.Equal(t, 1, clusterCount)
	assert.Equal(t, 1, sampleCount)
}
