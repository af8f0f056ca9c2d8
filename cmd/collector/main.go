// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/TonyRippy/mumble/batchdriver"
	"github.com/TonyRippy/mumble/histogram"
	"github.com/TonyRippy/mumble/logger"
	"github.com/TonyRippy/mumble/store"
	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/urfave/cli/v2"
)

var epsFlag = cli.Float64Flag{
	Name:  "eps",
	Usage: "maximum area difference for a sample to join a cluster",
	Value: 1.0,
}

var strictFlag = cli.BoolFlag{
	Name:  "strict",
	Usage: "abort on the first malformed input row instead of skipping it",
}

// CollectorApp reads a denormalized input database of per-sample
// exponential histograms, batches them by time window, clusters each
// batch, and writes the resulting centroids and sample assignments to
// an output database.
var CollectorApp = cli.App{
	Action:    runCollector,
	Name:      "Mumble Collector",
	HelpName:  "collector",
	Usage:     "collects histogram samples and clusters them for efficient storage",
	ArgsUsage: "<input.db> <output.db>",
	Flags: []cli.Flag{
		&epsFlag,
		&strictFlag,
		&logger.LogLevelFlag,
	},
}

func runCollector(ctx *cli.Context) error {
	log := logger.NewLogger(logger.MustLevel(ctx), "collector")
	if ctx.NArg() != 2 {
		return cli.Exit("expected input and output database paths", 1)
	}
	inputPath := ctx.Args().Get(0)
	outputPath := ctx.Args().Get(1)
	eps := ctx.Float64(epsFlag.Name)
	strict := ctx.Bool(strictFlag.Name)

	outputStore, err := store.Open(outputPath, 0)
	if err != nil {
		return err
	}
	defer outputStore.Close()

	samples, err := readDenormalizedSamples(inputPath, log, strict, outputStore)
	if err != nil {
		return err
	}
	log.Infof("read %d samples from %s", len(samples), inputPath)

	batcher := batchdriver.NewBatcher(batchdriver.DefaultWindow)
	for _, s := range samples {
		if err := batcher.Add(s); err != nil {
			return err
		}
	}
	batches := batcher.Flush()
	log.Infof("split into %d batches", len(batches))

	driver := batchdriver.NewDriver(eps, outputStore)
	for i, batch := range batches {
		if err := driver.ProcessBatch(batch); err != nil {
			return errors.Wrapf(err, "collector: processing batch %d", i)
		}
	}
	log.Infof("wrote %d clusters", len(driver.Group.Centroids))
	return nil
}

// readDenormalizedSamples reads every row of a denormalized input
// database's monitoring_data table, in timestamp order, decodes each
// row's histogram into an interpolated ECDF, and persists the row's
// encoded histogram bytes to out's histogram_sample table under the same
// timestamp, so the denormalized accuracy tools have something to join
// against. In strict mode, a malformed row aborts the whole run instead
// of being skipped.
func readDenormalizedSamples(path string, log interface {
	Warningf(format string, args ...interface{})
}, strict bool, out *store.DataStore) ([]batchdriver.Sample, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "collector: opening %s", path)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT timestamp, label_set_id, data FROM monitoring_data ORDER BY timestamp ASC;`)
	if err != nil {
		return nil, errors.Wrap(err, "collector: querying input samples")
	}
	defer rows.Close()

	var samples []batchdriver.Sample
	for rows.Next() {
		var timestamp string
		var labelSetID int64
		var data []byte
		if err := rows.Scan(&timestamp, &labelSetID, &data); err != nil {
			return nil, errors.Wrap(err, "collector: scanning input row")
		}
		h, err := histogram.Decode(data)
		if err != nil {
			if strict {
				return nil, errors.Wrapf(err, "collector: row at %s", timestamp)
			}
			log.Warningf("collector: skipping row at %s: %v", timestamp, err)
			continue
		}
		curve, err := histogram.ToECDF(h)
		if err != nil {
			if strict {
				return nil, errors.Wrapf(err, "collector: row at %s", timestamp)
			}
			log.Warningf("collector: skipping row at %s: %v", timestamp, err)
			continue
		}
		if err := out.WriteHistogramSample(timestamp, data); err != nil {
			return nil, errors.Wrapf(err, "collector: persisting histogram sample at %s", timestamp)
		}
		samples = append(samples, batchdriver.Sample{
			ID:   batchdriver.SampleID{Timestamp: timestamp, LabelSetID: labelSetID},
			ECDF: curve,
		})
	}
	return samples, rows.Err()
}

func main() {
	if err := CollectorApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
