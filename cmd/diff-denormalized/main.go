// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/TonyRippy/mumble/ecdf"
	"github.com/TonyRippy/mumble/histogram"
	"github.com/TonyRippy/mumble/logger"
	"github.com/TonyRippy/mumble/stats"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/urfave/cli/v2"
)

// DiffDenormalizedApp compares full (uncompacted) samples against the
// exponential histograms recorded for the same timestamp, reporting how
// much area difference histogram decoding introduces.
var DiffDenormalizedApp = cli.App{
	Action:    runDiffDenormalized,
	Name:      "Mumble Denormalized Accuracy Tool",
	HelpName:  "diff-denormalized",
	Usage:     "calculate statistics about the accuracy of histograms as compared to the underlying data",
	ArgsUsage: "<input.db>",
	Flags: []cli.Flag{
		&logger.LogLevelFlag,
	},
}

type denormalizedRow struct {
	FullData  []byte `db:"full_data"`
	HistoData []byte `db:"histo_data"`
}

const denormalizedQuery = `
SELECT f.data AS full_data, h.data AS histo_data
FROM monitoring_data md
INNER JOIN full_sample f ON f.timestamp = md.timestamp
INNER JOIN histogram_sample h ON h.timestamp = md.timestamp;`

func runDiffDenormalized(ctx *cli.Context) error {
	log := logger.NewLogger(logger.MustLevel(ctx), "diff-denormalized")
	if ctx.NArg() != 1 {
		return cli.Exit("expected exactly one input database path", 1)
	}

	db, err := sqlx.Open("sqlite3", ctx.Args().Get(0))
	if err != nil {
		return err
	}
	defer db.Close()

	var rows []denormalizedRow
	if err := db.Select(&rows, denormalizedQuery); err != nil {
		return err
	}
	log.Infof("comparing %d samples", len(rows))

	acc := stats.NewMinMeanMax()
	for _, row := range rows {
		full, err := ecdf.ReadInterpolatedFrom(bytes.NewReader(row.FullData))
		if err != nil {
			return err
		}
		h, err := histogram.Decode(row.HistoData)
		if err != nil {
			return err
		}
		other, err := histogram.ToECDF(h)
		if err != nil {
			return err
		}
		acc.Update(full.AreaDifference(other))
	}
	fmt.Println(acc.String())
	return nil
}

func main() {
	if err := DiffDenormalizedApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
