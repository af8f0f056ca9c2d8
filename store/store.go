// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package store persists cluster centroids and monitoring observations
// to a sqlite3 database, grounded on the same database/sql + prepared
// statement pattern this module's other tools use for batched writes.
package store

import (
	"bytes"
	"database/sql"

	"github.com/TonyRippy/mumble/ecdf"
	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
PRAGMA journal_mode = WAL;
CREATE TABLE IF NOT EXISTS cluster (
	id INTEGER PRIMARY KEY,
	group_id INTEGER NOT NULL,
	centroid BLOB NOT NULL,
	eps REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS monitoring_data (
	timestamp TEXT NOT NULL,
	label_set_id INTEGER NOT NULL,
	cluster_id INTEGER NOT NULL,
	count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS full_sample (
	timestamp TEXT NOT NULL,
	data BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS histogram_sample (
	timestamp TEXT NOT NULL,
	data BLOB NOT NULL
);
`

const (
	insertClusterSQL = `INSERT INTO cluster (id, group_id, centroid, eps) VALUES (?, ?, ?, ?)`
	insertSampleSQL  = `INSERT INTO monitoring_data (timestamp, label_set_id, cluster_id, count) VALUES (?, ?, ?, ?)`
	insertFullSQL    = `INSERT INTO full_sample (timestamp, data) VALUES (?, ?)`
	insertHistoSQL   = `INSERT INTO histogram_sample (timestamp, data) VALUES (?, ?)`
)

// DataStore is the single-writer sqlite3-backed persistence layer for
// cluster centroids and the monitoring counts observed against them.
type DataStore struct {
	db          *sql.DB
	clusterStmt *sql.Stmt
	sampleStmt  *sql.Stmt
	fullStmt    *sql.Stmt
	histoStmt   *sql.Stmt
	groupID     int64
}

// Open creates (if needed) the schema in database and returns a
// DataStore ready to write centroids and samples for groupID.
func Open(database string, groupID int64) (*DataStore, error) {
	db, err := sql.Open("sqlite3", database)
	if err != nil {
		return nil, errors.Wrapf(err, "store: opening %s", database)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: creating schema")
	}
	clusterStmt, err := db.Prepare(insertClusterSQL)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: preparing cluster insert")
	}
	sampleStmt, err := db.Prepare(insertSampleSQL)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: preparing sample insert")
	}
	fullStmt, err := db.Prepare(insertFullSQL)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: preparing full-sample insert")
	}
	histoStmt, err := db.Prepare(insertHistoSQL)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: preparing histogram-sample insert")
	}
	return &DataStore{db: db, clusterStmt: clusterStmt, sampleStmt: sampleStmt, fullStmt: fullStmt, histoStmt: histoStmt, groupID: groupID}, nil
}

// Close releases the prepared statements and the underlying connection.
func (s *DataStore) Close() error {
	s.clusterStmt.Close()
	s.sampleStmt.Close()
	s.fullStmt.Close()
	s.histoStmt.Close()
	return s.db.Close()
}

// WriteCluster persists a newly created centroid. Centroids are written
// before the samples that reference them, so a reader never observes a
// monitoring_data row pointing at a cluster id that doesn't exist yet.
func (s *DataStore) WriteCluster(id int64, centroid *ecdf.InterpolatedECDF, eps float64) error {
	var buf bytes.Buffer
	if err := centroid.WriteTo(&buf); err != nil {
		return errors.Wrap(err, "store: serializing centroid")
	}
	if _, err := s.clusterStmt.Exec(id, s.groupID, buf.Bytes(), eps); err != nil {
		return errors.Wrapf(err, "store: inserting cluster %d", id)
	}
	return nil
}

// WriteSample records a single (timestamp, labelSetID) observation's
// count against the cluster it was assigned to.
func (s *DataStore) WriteSample(timestamp string, labelSetID, clusterID int64, count uint64) error {
	if _, err := s.sampleStmt.Exec(timestamp, labelSetID, clusterID, int64(count)); err != nil {
		return errors.Wrap(err, "store: inserting monitoring_data row")
	}
	return nil
}

// WriteFullSample persists an uncompacted sample curve, e.g. for
// evaluation tools that need the raw distribution rather than its
// cluster assignment.
func (s *DataStore) WriteFullSample(timestamp string, sample *ecdf.InterpolatedECDF) error {
	var buf bytes.Buffer
	if err := sample.WriteTo(&buf); err != nil {
		return errors.Wrap(err, "store: serializing full sample")
	}
	if _, err := s.fullStmt.Exec(timestamp, buf.Bytes()); err != nil {
		return errors.Wrap(err, "store: inserting full_sample row")
	}
	return nil
}

// WriteHistogramSample persists a histogram's encoded bytes alongside the
// timestamp it was observed at, for the denormalized evaluation path
// that compares histogram-derived ECDFs against full_sample.
func (s *DataStore) WriteHistogramSample(timestamp string, data []byte) error {
	if _, err := s.histoStmt.Exec(timestamp, data); err != nil {
		return errors.Wrap(err, "store: inserting histogram_sample row")
	}
	return nil
}

// WriteBatch persists a batch's new centroids followed by its sample
// assignments, matching the ordering ProcessBatch relies on: all new
// centroid ids referenced by this batch's samples already exist once
// WriteBatch returns.
func (s *DataStore) WriteBatch(newCentroids []Centroid, firstNewID int64, samples []SampleAssignment) error {
	for i, c := range newCentroids {
		if err := s.WriteCluster(firstNewID+int64(i), c.Curve, c.Eps); err != nil {
			return err
		}
	}
	for _, sa := range samples {
		if err := s.WriteSample(sa.Timestamp, sa.LabelSetID, int64(sa.ClusterID), sa.Count); err != nil {
			return err
		}
	}
	return nil
}

// Centroid is the subset of cluster.Centroid this package needs,
// duplicated here (rather than importing package cluster) to keep
// store's dependency graph one-directional: cluster depends on ecdf
// only, and batchdriver wires cluster's results into store's shapes.
type Centroid struct {
	Curve *ecdf.InterpolatedECDF
	Eps   float64
}

// SampleAssignment is one observation's cluster assignment, ready to
// write to monitoring_data.
type SampleAssignment struct {
	Timestamp  string
	LabelSetID int64
	ClusterID  int
	Count      uint64
}
