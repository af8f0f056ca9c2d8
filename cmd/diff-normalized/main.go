// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/TonyRippy/mumble/ecdf"
	"github.com/TonyRippy/mumble/logger"
	"github.com/TonyRippy/mumble/stats"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/urfave/cli/v2"
)

// DiffNormalizedApp compares full (uncompacted) samples against the
// cluster centroid each was assigned to, reporting how much area
// difference clustering introduces.
var DiffNormalizedApp = cli.App{
	Action:    runDiffNormalized,
	Name:      "Mumble Normalized Accuracy Tool",
	HelpName:  "diff-normalized",
	Usage:     "calculate statistics about the accuracy of cluster centroids as compared to the underlying data",
	ArgsUsage: "<input.db>",
	Flags: []cli.Flag{
		&logger.LogLevelFlag,
	},
}

type normalizedRow struct {
	FullData     []byte `db:"full_data"`
	CentroidData []byte `db:"centroid_data"`
}

const normalizedQuery = `
SELECT f.data AS full_data, c.centroid AS centroid_data
FROM monitoring_data md
INNER JOIN full_sample f ON f.timestamp = md.timestamp
INNER JOIN cluster c ON c.id = md.cluster_id;`

func runDiffNormalized(ctx *cli.Context) error {
	log := logger.NewLogger(logger.MustLevel(ctx), "diff-normalized")
	if ctx.NArg() != 1 {
		return cli.Exit("expected exactly one input database path", 1)
	}

	db, err := sqlx.Open("sqlite3", ctx.Args().Get(0))
	if err != nil {
		return err
	}
	defer db.Close()

	var clusterCount int
	if err := db.Get(&clusterCount, `SELECT COUNT(*) FROM cluster;`); err != nil {
		return err
	}
	fmt.Printf("cluster count: %d\n", clusterCount)

	var rows []normalizedRow
	if err := db.Select(&rows, normalizedQuery); err != nil {
		return err
	}
	log.Infof("comparing %d samples", len(rows))

	acc := stats.NewMinMeanMax()
	for _, row := range rows {
		full, err := ecdf.ReadInterpolatedFrom(bytes.NewReader(row.FullData))
		if err != nil {
			return err
		}
		centroid, err := ecdf.ReadInterpolatedFrom(bytes.NewReader(row.CentroidData))
		if err != nil {
			return err
		}
		acc.Update(full.AreaDifference(centroid))
	}
	fmt.Printf("error: %s\n", acc.String())
	return nil
}

func main() {
	if err := DiffNormalizedApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
