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
	"github.com/TonyRippy/mumble/viz"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/urfave/cli/v2"
)

// EcdfPlotApp renders every cluster centroid in a database as an
// interactive line chart, for visually inspecting how well a clustering
// run separated distinct distribution shapes.
var EcdfPlotApp = cli.App{
	Action:    runEcdfPlot,
	Name:      "Mumble ECDF Plotter",
	HelpName:  "ecdfplot",
	Usage:     "render cluster centroids from a database as an HTML chart",
	ArgsUsage: "<input.db> <output.html>",
	Flags: []cli.Flag{
		&logger.LogLevelFlag,
	},
}

type centroidRow struct {
	ID       int64  `db:"id"`
	Centroid []byte `db:"centroid"`
}

func runEcdfPlot(ctx *cli.Context) error {
	log := logger.NewLogger(logger.MustLevel(ctx), "ecdfplot")
	if ctx.NArg() != 2 {
		return cli.Exit("expected an input database path and an output HTML path", 1)
	}

	db, err := sqlx.Open("sqlite3", ctx.Args().Get(0))
	if err != nil {
		return err
	}
	defer db.Close()

	var rows []centroidRow
	if err := db.Select(&rows, `SELECT id, centroid FROM cluster ORDER BY id ASC;`); err != nil {
		return err
	}
	log.Infof("plotting %d cluster centroids", len(rows))

	curves := make([]viz.Curve, 0, len(rows))
	for _, row := range rows {
		curve, err := ecdf.ReadInterpolatedFrom(bytes.NewReader(row.Centroid))
		if err != nil {
			return err
		}
		curves = append(curves, viz.Curve{Name: fmt.Sprintf("cluster %d", row.ID), ECDF: curve})
	}

	outputPath := ctx.Args().Get(1)
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := viz.RenderCurve(out, "Cluster Centroids", curves); err != nil {
		return err
	}
	log.Infof("wrote chart to %s", outputPath)
	return nil
}

func main() {
	if err := EcdfPlotApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
