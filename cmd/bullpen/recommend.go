// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/bullpen/internal/api"
	"github.com/tomtom215/bullpen/internal/predictor"
	"github.com/tomtom215/bullpen/internal/recommend"
)

func recommendCmd() *cli.Command {
	defaults := recommend.DefaultConfig()

	return &cli.Command{
		Name:  "recommend",
		Usage: "Rank the bullpen for a game state",
		Description: `Reads a request file holding a game state and the available relievers,
predicts expected runs for each reliever, applies workload penalties and
prints the ranking with per-reliever explanations.

Without --model the built-in linear coefficients are used. With --explain
only the named reliever is printed, which answers why it was or was not
chosen.`,
		Flags: []cli.Flag{
			inputFlag(),
			formatFlag(),
			&cli.StringFlag{
				Name:  "model",
				Usage: "Linear model file (YAML); must exist when set",
			},
			&cli.IntFlag{
				Name:  "k-batters",
				Value: 3,
				Usage: "Forecast horizon in batters",
			},
			&cli.FloatFlag{
				Name:  "b2b-penalty",
				Value: defaults.Penalty.BackToBack,
				Usage: "Runs added when a reliever pitched yesterday",
			},
			&cli.FloatFlag{
				Name:  "high-pitch-penalty",
				Value: defaults.Penalty.HighPitchCount,
				Usage: "Runs added when the last outing exceeded --pitch-threshold",
			},
			&cli.IntFlag{
				Name:  "pitch-threshold",
				Value: defaults.Penalty.PitchCountThreshold,
				Usage: "Pitch count that must be exceeded for the workload penalty",
			},
			&cli.StringFlag{
				Name:  "tie-break",
				Value: string(defaults.TieBreak),
				Usage: fmt.Sprintf("Order for equal scores (%s or %s)", recommend.TieBreakID, recommend.TieBreakPosition),
			},
			&cli.StringFlag{
				Name:  "explain",
				Usage: "Print only the entry for this reliever id",
			},
		},
		Action: runRecommend,
	}
}

func runRecommend(ctx context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	cfg, err := engineConfigFromCmd(cmd)
	if err != nil {
		return err
	}

	logger := cmdLogger(cmd)
	pred, err := predictorFromCmd(cmd)
	if err != nil {
		return err
	}
	engine, err := recommend.NewEngine(cfg, logger)
	if err != nil {
		return err
	}

	req, err := readRequest(cmd.String("input"), os.Stdin)
	if err != nil {
		return err
	}
	rec, err := engine.Recommend(ctx, req.State, req.Candidates, pred)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("decision", string(rec.Decision)).
		Int("candidates", rec.Stats.Candidates).
		Int("excluded", rec.Stats.Excluded).
		Msg("recommendation computed")

	if id := cmd.String("explain"); id != "" {
		return writeExplanation(cmdWriter(cmd), format, rec, id)
	}

	resp := api.NewRecommendResponse(req.State, rec)
	if format == FormatTable {
		return writeRecommendTable(cmdWriter(cmd), &resp)
	}
	return writeStructured(cmdWriter(cmd), format, &resp)
}

func engineConfigFromCmd(cmd *cli.Command) (*recommend.Config, error) {
	cfg := recommend.DefaultConfig()
	cfg.Penalty = recommend.PenaltyConfig{
		BackToBack:          cmd.Float("b2b-penalty"),
		HighPitchCount:      cmd.Float("high-pitch-penalty"),
		PitchCountThreshold: int(cmd.Int("pitch-threshold")),
	}
	cfg.TieBreak = recommend.TieBreak(cmd.String("tie-break"))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}
	return cfg, nil
}

// predictorFromCmd loads the linear model. An explicit --model that cannot
// be read is an error rather than a silent fallback.
func predictorFromCmd(cmd *cli.Command) (*predictor.LinearPredictor, error) {
	model := predictor.DefaultLinearModel()
	if path := cmd.String("model"); path != "" {
		m, err := predictor.LoadLinearModel(path)
		if err != nil {
			return nil, err
		}
		model = m
	}
	return predictor.NewLinearPredictor(model, int(cmd.Int("k-batters")))
}

// writeExplanation prints the entry for id, ranked or excluded.
func writeExplanation(w io.Writer, format Format, rec *recommend.Recommendation, id string) error {
	entry, ok := rec.Entry(id)
	if !ok {
		return fmt.Errorf("reliever %q is not in the request", id)
	}
	if format == FormatTable {
		_, err := fmt.Fprintln(w, entry.Explanation)
		return err
	}
	out := api.NewCandidateResponse(&entry)
	return writeStructured(w, format, &out)
}
