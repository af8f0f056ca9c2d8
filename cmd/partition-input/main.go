// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

package main

import (
	"fmt"
	"os"

	"github.com/TonyRippy/mumble/csvio"
	"github.com/TonyRippy/mumble/logger"
	"github.com/urfave/cli/v2"
)

var intervalFlag = cli.Uint64Flag{
	Name:  "interval",
	Usage: "amount of time covered by each partition, in seconds",
	Value: 1,
}

var outputPathFlag = cli.StringFlag{
	Name:  "output-path",
	Usage: "path to where the partitioned files should be written",
	Value: ".",
}

// PartitionInputApp splits a single CSV of raw observations into one
// file per fixed-width time interval, named "<output-path>/<end>.csv".
var PartitionInputApp = cli.App{
	Action:    runPartitionInput,
	Name:      "Mumble Input Partitioner",
	HelpName:  "partition-input",
	Usage:     "break an input file up by time period",
	ArgsUsage: "<input.csv[.gz]>",
	Flags: []cli.Flag{
		&intervalFlag,
		&outputPathFlag,
		&logger.LogLevelFlag,
	},
}

func runPartitionInput(ctx *cli.Context) error {
	log := logger.NewLogger(logger.MustLevel(ctx), "partition-input")
	if ctx.NArg() != 1 {
		return cli.Exit("expected exactly one input CSV path", 1)
	}
	inputPath := ctx.Args().Get(0)
	interval := ctx.Uint64(intervalFlag.Name)
	if interval == 0 {
		return cli.Exit("--interval must be greater than zero", 1)
	}
	outputPath := ctx.String(outputPathFlag.Name)

	f, err := csvio.OpenGzipOrRegular(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	values, err := csvio.ReadValues(f, log.Warningf)
	if err != nil {
		return err
	}

	flush := func(end uint64, partition []csvio.Value) error {
		if len(partition) == 0 {
			return nil
		}
		path := fmt.Sprintf("%s/%d.csv", outputPath, end)
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := csvio.WriteValues(out, partition); err != nil {
			return err
		}
		log.Infof("wrote %d observations to %s", len(partition), path)
		return nil
	}

	var start, end uint64 = 0, interval
	var partition []csvio.Value
	for _, v := range values {
		t := uint64(v.TimestampSecs)
		if t < start {
			log.Warningf("input is not sorted; %d comes before %d", t, start)
			continue
		}
		if t >= end {
			if err := flush(end, partition); err != nil {
				return err
			}
			partition = nil
			start = t - (t % interval)
			end = start + interval
		}
		partition = append(partition, v)
	}
	return flush(end, partition)
}

func main() {
	if err := PartitionInputApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
