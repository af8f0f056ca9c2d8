// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/TonyRippy/mumble/batchdriver"
	"github.com/TonyRippy/mumble/csvio"
	"github.com/TonyRippy/mumble/ecdf"
	"github.com/TonyRippy/mumble/logger"
	"github.com/TonyRippy/mumble/store"
	"github.com/urfave/cli/v2"
)

var timestampFlag = cli.Int64Flag{
	Name:  "timestamp",
	Usage: "unix timestamp to record this sample under; defaults to now",
}

// FullSampleApp reads a single CSV file of raw observations and writes
// the full (uncompacted) ECDF built from them to a database's
// full_sample table, for later comparison against compacted clusters.
var FullSampleApp = cli.App{
	Action:    runFullSample,
	Name:      "Mumble Full Sample Loader",
	HelpName:  "full-sample",
	Usage:     "build an uncompacted ECDF from a CSV of raw observations",
	ArgsUsage: "<input.csv[.gz]> <output.db>",
	Flags: []cli.Flag{
		&timestampFlag,
		&logger.LogLevelFlag,
	},
}

func runFullSample(ctx *cli.Context) error {
	log := logger.NewLogger(logger.MustLevel(ctx), "full-sample")
	if ctx.NArg() != 2 {
		return cli.Exit("expected an input CSV path and an output database path", 1)
	}
	path := ctx.Args().Get(0)
	dbPath := ctx.Args().Get(1)

	f, err := csvio.OpenGzipOrRegular(path)
	if err != nil {
		return err
	}
	defer f.Close()

	values, err := csvio.ReadValues(f, log.Warningf)
	if err != nil {
		return err
	}
	log.Infof("read %d observations from %s", len(values), path)

	raw := make([]float64, len(values))
	for i, v := range values {
		raw[i] = v.Value
	}
	curve := ecdf.FromSamples(raw).Interpolate()

	s, err := store.Open(dbPath, 0)
	if err != nil {
		return err
	}
	defer s.Close()

	ts := time.Now().UTC()
	if ctx.IsSet(timestampFlag.Name) {
		ts = time.Unix(ctx.Int64(timestampFlag.Name), 0).UTC()
	}
	if err := s.WriteFullSample(ts.Format(batchdriver.TimestampFormat), curve); err != nil {
		return err
	}
	log.Infof("wrote full sample with total mass %.0f", curve.Len())
	return nil
}

func main() {
	if err := FullSampleApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
