// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/bullpen/internal/api"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// SupportedFormats lists the accepted --format values.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

func parseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported values: %v)", s, SupportedFormats())
	}
}

// writeStructured writes v as indented JSON or YAML.
func writeStructured(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

func writeRecommendTable(w io.Writer, resp *api.RecommendResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	best := "-"
	if b := resp.Recommendation.Best; b != nil {
		best = b.RelieverID
	}
	fmt.Fprintf(tw, "DECISION\t%s\n", resp.Recommendation.Decision)
	fmt.Fprintf(tw, "BEST\t%s\n", best)
	if m := resp.Recommendation.Margin; m != nil {
		fmt.Fprintf(tw, "MARGIN\t%.3f\n", *m)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "RANK\tRELIEVER\tSTATUS\tEXPECTED\tPENALTY\tSCORE\tEXPLANATION")
	rows := append(append([]api.CandidateResponse(nil), resp.Ranked...), resp.Excluded...)
	for i := range rows {
		c := &rows[i]
		rank := "-"
		if c.Rank > 0 {
			rank = strconv.Itoa(c.Rank)
		}
		expected := "-"
		if c.ExpectedRuns != nil {
			expected = strconv.FormatFloat(*c.ExpectedRuns, 'f', 3, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rank, c.RelieverID, c.Status, expected, c.Penalty.Total, c.AdjustedScore, c.Explanation)
	}
	return tw.Flush()
}

func writeFeaturesTable(w io.Writer, rows []featureRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RELIEVER\tOUTS\tRUNNERS\tINNING\tCLOSE\tLATE\tPLATOON\tREST\tFATIGUED\tHOME\tPARK\tSEGMENT\tLEVERAGE")
	for i := range rows {
		f := rows[i].Features
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%d\t%.2f\n",
			rows[i].RelieverID, f.Outs, f.RunnersOn, f.Inning, f.CloseGame, f.LateInning,
			f.Platoon, f.RestDays, f.Fatigued, f.Home, f.ParkID, f.BatterSegment, f.LeverageScore)
	}
	return tw.Flush()
}
