// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/bullpen/internal/predictor"
)

// featureRow is the model input for one reliever.
type featureRow struct {
	RelieverID string             `json:"reliever_id" yaml:"reliever_id"`
	Features   predictor.Features `json:"features" yaml:"features"`
}

func featuresCmd() *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "Print the model features built for each reliever",
		Flags: []cli.Flag{
			inputFlag(),
			formatFlag(),
		},
		Action: runFeatures,
	}
}

func runFeatures(_ context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	req, err := readRequest(cmd.String("input"), os.Stdin)
	if err != nil {
		return err
	}

	rows := make([]featureRow, len(req.Candidates))
	for i, c := range req.Candidates {
		rows[i] = featureRow{RelieverID: c.ID, Features: predictor.BuildFeatures(req.State, c)}
	}

	if format == FormatTable {
		return writeFeaturesTable(cmdWriter(cmd), rows)
	}
	return writeStructured(cmdWriter(cmd), format, rows)
}
