// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/bullpen/internal/recommend"
)

// CandidateSummary is the per-candidate part of a DecisionEvent.
type CandidateSummary struct {
	ID            string          `json:"id"`
	AdjustedScore recommend.Score `json:"adjusted_score"`
	Status        string          `json:"status"`
}

// DecisionEvent is published once per successful recommendation.
type DecisionEvent struct {
	EventID    string             `json:"event_id"`
	Timestamp  time.Time          `json:"timestamp"`
	RequestID  string             `json:"request_id,omitempty"`
	Decision   string             `json:"decision"`
	BestID     string             `json:"best_id,omitempty"`
	Candidates []CandidateSummary `json:"candidates"`
}

// NewDecisionEvent summarises rec. Ranked entries come first in rank order,
// followed by excluded ones.
func NewDecisionEvent(requestID string, rec *recommend.Recommendation) DecisionEvent {
	ev := DecisionEvent{
		EventID:    uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		RequestID:  requestID,
		Decision:   string(rec.Decision),
		Candidates: make([]CandidateSummary, 0, len(rec.Ranked)+len(rec.Excluded)),
	}
	if rec.Best != nil {
		ev.BestID = rec.Best.Candidate.ID
	}
	for _, list := range [][]recommend.Entry{rec.Ranked, rec.Excluded} {
		for _, e := range list {
			ev.Candidates = append(ev.Candidates, CandidateSummary{
				ID:            e.Candidate.ID,
				AdjustedScore: e.AdjustedScore,
				Status:        e.Status.String(),
			})
		}
	}
	return ev
}

// Encode serializes the event as JSON.
func (e *DecisionEvent) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode decision event: %w", err)
	}
	return data, nil
}

// DecodeDecisionEvent parses a payload produced by Encode.
func DecodeDecisionEvent(data []byte) (*DecisionEvent, error) {
	var ev DecisionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode decision event: %w", err)
	}
	if ev.EventID == "" {
		return nil, fmt.Errorf("decode decision event: missing event_id")
	}
	return &ev, nil
}
