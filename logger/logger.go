// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package logger provides a single shared logging backend for every binary
// in this module, built on top of github.com/op/go-logging.
package logger

import (
	"os"
	"time"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"
)

var backendInitialized bool

// NewLogger creates a logger for the given module, filtered at level.
// An unrecognized level falls back to INFO rather than erroring, since a
// typo'd --log flag should never prevent a batch run from starting.
func NewLogger(level string, module string) *logging.Logger {
	if !backendInitialized {
		format := logging.MustStringFormatter(
			`%{color}%{time:15:04:05.000} %{level:.4s} [%{module}]%{color:reset} %{message}`,
		)
		backend := logging.NewLogBackend(os.Stderr, "", 0)
		formatted := logging.NewBackendFormatter(backend, format)
		logging.SetBackend(formatted)
		backendInitialized = true
	}

	log := logging.MustGetLogger(module)
	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.INFO
	}
	logging.SetLevel(lvl, module)
	return log
}

// ParseTime decomposes a duration into whole hours, minutes, and seconds,
// for human-readable progress reporting.
func ParseTime(elapsed time.Duration) (hours, minutes, seconds uint32) {
	total := uint32(elapsed.Seconds())
	hours = total / 3600
	minutes = (total % 3600) / 60
	seconds = total % 60
	return
}

// LogLevelFlag is shared by every cmd/ binary so they all accept the same
// --log-level flag with the same default.
var LogLevelFlag = cli.StringFlag{
	Name:  "log-level",
	Usage: "log level: CRITICAL, ERROR, WARNING, NOTICE, INFO, or DEBUG",
	Value: "INFO",
}

// MustLevel is a small helper for cmd/ Actions that read the shared flag.
func MustLevel(ctx *cli.Context) string {
	lvl := ctx.String(LogLevelFlag.Name)
	if lvl == "" {
		return "INFO"
	}
	return lvl
}
