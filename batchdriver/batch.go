// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package batchdriver groups a time-ordered stream of decoded samples
// into fixed-width time windows and runs each window through a cluster
// group, persisting the result to a DataStore.
package batchdriver

import (
	"math"
	"time"

	"github.com/TonyRippy/mumble/cluster"
	"github.com/TonyRippy/mumble/ecdf"
	"github.com/TonyRippy/mumble/store"
	"github.com/cockroachdb/errors"
)

// TimestampFormat is the on-disk timestamp layout this module reads and
// writes everywhere: "2026-08-01 00:00:00+00:00".
const TimestampFormat = "2006-01-02 15:04:05-07:00"

// DefaultWindow is the batch width used by the collector binary unless
// overridden: observations are broken into 30-minute windows.
const DefaultWindow = 30 * time.Minute

// SampleID identifies a single observation: which label set it came
// from, and when it was recorded.
type SampleID struct {
	Timestamp  string
	LabelSetID int64
}

// ParseTimestamp parses a SampleID's timestamp into a time.Time, for
// window-boundary comparisons.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampFormat, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "batchdriver: parsing timestamp %q", s)
	}
	return t.UTC(), nil
}

// Sample is one decoded observation awaiting batching.
type Sample struct {
	ID   SampleID
	ECDF *ecdf.InterpolatedECDF
}

// Batcher accumulates samples in timestamp order into fixed windows. A
// new window opens on the first sample after the previous window's
// deadline; the deadline itself is set to that sample's timestamp plus
// Window, not to a calendar-aligned boundary.
type Batcher struct {
	Window time.Duration

	batches    [][]Sample
	current    []Sample
	windowEnds time.Time
}

// NewBatcher returns a Batcher using the given window width.
func NewBatcher(window time.Duration) *Batcher {
	return &Batcher{Window: window}
}

// Add appends a sample, ordered by timestamp, to the current window,
// opening a new one first if the sample falls on or after the current
// window's deadline. Input must arrive in non-decreasing timestamp
// order; out-of-order input can open spurious extra windows.
func (b *Batcher) Add(s Sample) error {
	t, err := ParseTimestamp(s.ID.Timestamp)
	if err != nil {
		return err
	}
	if b.windowEnds.IsZero() || !t.Before(b.windowEnds) {
		if len(b.current) > 0 {
			b.batches = append(b.batches, b.current)
		}
		b.current = nil
		b.windowEnds = t.Add(b.Window)
	}
	b.current = append(b.current, s)
	return nil
}

// Flush closes out the in-progress window (if any) and returns every
// accumulated batch in arrival order. The tail batch is always
// returned, even if it never filled a full window.
func (b *Batcher) Flush() [][]Sample {
	if len(b.current) > 0 {
		b.batches = append(b.batches, b.current)
		b.current = nil
	}
	out := b.batches
	b.batches = nil
	return out
}

// Driver ties batching, clustering, and persistence together: each
// flushed batch is run through a cluster.Group and the resulting
// centroids and sample assignments are written to a store.DataStore.
type Driver struct {
	Group *cluster.Group
	Store *store.DataStore
}

// NewDriver returns a Driver that seeds clustering with eps and writes
// results to s.
func NewDriver(eps float64, s *store.DataStore) *Driver {
	return &Driver{Group: cluster.NewGroup(eps), Store: s}
}

// ProcessBatch clusters one window's samples and persists any new
// centroids followed by every sample's cluster assignment.
func (d *Driver) ProcessBatch(batch []Sample) error {
	if len(batch) == 0 {
		return nil
	}
	curves := make([]*ecdf.InterpolatedECDF, len(batch))
	for i, s := range batch {
		curves[i] = s.ECDF
	}

	centroidsBefore := len(d.Group.Centroids)
	assignments := d.Group.ProcessBatch(curves)

	newCentroids := make([]store.Centroid, 0, len(d.Group.Centroids)-centroidsBefore)
	for i := centroidsBefore; i < len(d.Group.Centroids); i++ {
		c := d.Group.Centroids[i]
		newCentroids = append(newCentroids, store.Centroid{Curve: c.Curve, Eps: c.Eps})
	}

	samples := make([]store.SampleAssignment, len(batch))
	for i, s := range batch {
		samples[i] = store.SampleAssignment{
			Timestamp:  s.ID.Timestamp,
			LabelSetID: s.ID.LabelSetID,
			ClusterID:  assignments[i],
			Count:      uint64(math.Round(s.ECDF.Len())),
		}
	}

	return d.Store.WriteBatch(newCentroids, int64(centroidsBefore), samples)
}
