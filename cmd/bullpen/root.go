// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/tomtom215/bullpen/internal/logging"
)

const name = "bullpen"

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Request file (.json, .yaml or .yml); - reads JSON or YAML from stdin",
		Required: true,
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(FormatTable),
		Usage:   fmt.Sprintf("Output format (supported values: %v)", SupportedFormats()),
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Relief pitcher recommendations from the command line",
		Version: version,
		Writer:  os.Stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "Log level (trace, debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			recommendCmd(),
			featuresCmd(),
		},
	}
}

// cmdLogger logs to stderr so stdout stays machine readable.
func cmdLogger(cmd *cli.Command) zerolog.Logger {
	var out io.Writer = os.Stderr
	if w := cmd.Root().ErrWriter; w != nil {
		out = w
	}
	return logging.New(logging.Config{
		Level:  cmd.String("log-level"),
		Format: "console",
		Output: out,
	})
}

func cmdWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
