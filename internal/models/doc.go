// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

/*
Package models defines the value types shared by the recommendation engine,
the predictors and the API layer.

# Game State

A GameState captures the situation a manager faces when going to the bullpen:
outs, base occupancy, inning, score differential, home/away, ballpark, the
expected batter's handedness and which part of the lineup is due up.
GameState values are immutable. They can only be built through NewGameState,
which validates every field and returns an *InvalidGameStateError describing
the first offending field.

	state, err := models.NewGameState(models.GameStateParams{
	    Outs:              1,
	    Bases:             models.FirstAndThird,
	    Inning:            8,
	    ScoreDifferential: -1,
	    ParkID:            "SEA",
	    BatterHand:        models.HandRight,
	    Segment:           models.SegmentMiddle,
	})

# Base State Encoding

Base occupancy uses the three character runner string familiar from play-by-play
data: one position per base, a digit when occupied and '-' when empty.

	---  bases empty        12-  first and second
	1--  runner on first    1-3  first and third
	-2-  runner on second   -23  second and third
	--3  runner on third    123  bases loaded

# Candidates

A Candidate is a reliever under consideration. Unlike GameState it is a plain
struct: callers update rest and workload between games, the engine only reads
it. RestDays carries a NeverAppeared sentinel for pitchers with no recorded
outing.
*/
package models
