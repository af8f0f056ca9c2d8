// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package cluster implements a DBSCAN-like density clustering engine
// over InterpolatedECDF samples, using AreaDifference as the distance
// metric. Centroids never drift once created: a new batch either joins
// an existing centroid's cluster or seeds a brand new one.
package cluster

import (
	"sort"

	"github.com/TonyRippy/mumble/ecdf"
	"github.com/TonyRippy/mumble/logger"
)

var log = logger.NewLogger("INFO", "cluster")

// Assignment is a sample's DBSCAN-style classification within a single
// process_batch run.
type Assignment struct {
	assigned bool
	cluster  int
}

// IsAssigned reports whether this sample has been placed in a cluster.
func (a Assignment) IsAssigned() bool { return a.assigned }

// Cluster returns the assigned cluster index. Only valid when
// IsAssigned() is true.
func (a Assignment) Cluster() int { return a.cluster }

func assigned(cluster int) Assignment { return Assignment{assigned: true, cluster: cluster} }

// Centroid is a cluster's representative curve together with the
// epsilon recorded for it when it was created. ProcessBatch compares
// samples against the group-wide Group.Eps, not this per-centroid value.
type Centroid struct {
	Curve *ecdf.InterpolatedECDF
	Eps   float64
}

// Group is a set of centroids sharing one default epsilon, run through
// a two-phase density-clustering sweep on every batch: first seeding
// from existing centroids, then discovering new clusters among the
// samples nothing else claimed.
type Group struct {
	Centroids []Centroid
	Eps       float64
}

// NewGroup returns an empty cluster group using eps as the admission
// threshold for both existing and new clusters, and as the Eps recorded
// on every centroid it creates.
func NewGroup(eps float64) *Group {
	return &Group{Eps: eps}
}

func findNeighbors(sample *ecdf.InterpolatedECDF, population []*ecdf.InterpolatedECDF, assignments []Assignment, eps float64) []int {
	var out []int
	for idx, pt := range population {
		if assignments[idx].IsAssigned() {
			continue
		}
		if sample.AreaDifference(pt) < eps {
			out = append(out, idx)
		}
	}
	return out
}

// run performs one DBSCAN-like sweep: first claiming samples near each
// existing centroid (in centroid order, so centroid i always gets
// cluster id i), then discovering new clusters among whatever remains
// unassigned.
func (g *Group) run(samples []*ecdf.InterpolatedECDF) []Assignment {
	assignments := make([]Assignment, len(samples))
	cluster := 0

	for _, c := range g.Centroids {
		neighbors := findNeighbors(c.Curve, samples, assignments, g.Eps)
		for _, idx := range neighbors {
			assignments[idx] = assigned(cluster)
		}
		cluster++
	}

	for idx := range samples {
		if assignments[idx].IsAssigned() {
			continue
		}
		neighbors := findNeighbors(samples[idx], samples, assignments, g.Eps)
		for _, n := range neighbors {
			assignments[n] = assigned(cluster)
		}
		cluster++
	}

	return assignments
}

type clusterMember struct {
	cluster int
	index   int
}

func (g *Group) reportClusters(samples []*ecdf.InterpolatedECDF, existing map[int][]int, newClusters [][]int) []int {
	mapping := make([]int, len(samples))

	for clusterID, members := range existing {
		log.Debugf("existing cluster %d: size +%d", clusterID, len(members))
		for _, j := range members {
			mapping[j] = clusterID
		}
	}

	offset := len(g.Centroids)
	for _, members := range newClusters {
		centroid := ecdf.NewInterpolated()
		for _, i := range members {
			centroid = centroid.Merge(samples[i])
		}
		g.Centroids = append(g.Centroids, Centroid{Curve: centroid, Eps: g.Eps})
	}
	for i, members := range newClusters {
		clusterID := i + offset
		log.Debugf("new cluster %d: size %d", clusterID, len(members))
		for _, j := range members {
			mapping[j] = clusterID
		}
	}
	return mapping
}

// ProcessBatch assigns each sample to an existing or newly discovered
// cluster, creating centroids for any new clusters in the process, and
// returns each sample's cluster id in input order.
func (g *Group) ProcessBatch(samples []*ecdf.InterpolatedECDF) []int {
	log.Infof("processing batch of %d samples", len(samples))
	if len(samples) == 0 {
		return nil
	}

	assignments := g.run(samples)
	members := make([]clusterMember, len(assignments))
	for id, a := range assignments {
		if !a.IsAssigned() {
			panic("cluster: sample left unassigned after run")
		}
		members[id] = clusterMember{cluster: a.Cluster(), index: id}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].cluster != members[j].cluster {
			return members[i].cluster < members[j].cluster
		}
		return members[i].index < members[j].index
	})

	existing := make(map[int][]int)
	var newClusters [][]int
	i := 0
	for i < len(members) {
		j := i + 1
		cid := members[i].cluster
		for j < len(members) && members[j].cluster == cid {
			j++
		}
		ids := make([]int, j-i)
		for k := i; k < j; k++ {
			ids[k-i] = members[k].index
		}
		if cid < len(g.Centroids) {
			existing[cid] = ids
		} else {
			newClusters = append(newClusters, ids)
		}
		i = j
	}

	return g.reportClusters(samples, existing, newClusters)
}
