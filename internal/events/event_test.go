// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package events

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/bullpen/internal/models"
	"github.com/tomtom215/bullpen/internal/recommend"
)

func testRecommendation() *recommend.Recommendation {
	best := recommend.Entry{
		Candidate:     models.Candidate{ID: "R2", Throws: models.HandRight, IsAvailable: true},
		Rank:          1,
		Status:        recommend.StatusRanked,
		AdjustedScore: recommend.Finite(0.41),
	}
	return &recommend.Recommendation{
		Decision: recommend.DecisionSelected,
		Best:     &best,
		Ranked: []recommend.Entry{
			best,
			{
				Candidate:     models.Candidate{ID: "R1", Throws: models.HandLeft, IsAvailable: true},
				Rank:          2,
				Status:        recommend.StatusRanked,
				AdjustedScore: recommend.Finite(1.2),
			},
			{
				Candidate:     models.Candidate{ID: "R4", Throws: models.HandLeft},
				Status:        recommend.StatusUnavailable,
				AdjustedScore: recommend.Unavailable(),
			},
		},
		Excluded: []recommend.Entry{
			{
				Candidate:       models.Candidate{ID: "R3", Throws: models.HandRight, IsAvailable: true},
				Status:          recommend.StatusExcluded,
				ExclusionReason: "prediction failed",
				AdjustedScore:   recommend.Unavailable(),
			},
		},
	}
}

func TestNewDecisionEvent(t *testing.T) {
	t.Parallel()

	ev := NewDecisionEvent("req-7", testRecommendation())

	if _, err := uuid.Parse(ev.EventID); err != nil {
		t.Errorf("EventID %q is not a UUID: %v", ev.EventID, err)
	}
	if ev.Timestamp.IsZero() || ev.Timestamp.Location().String() != "UTC" {
		t.Errorf("Timestamp = %v, want non-zero UTC", ev.Timestamp)
	}
	if ev.RequestID != "req-7" || ev.Decision != "selected" || ev.BestID != "R2" {
		t.Errorf("header = %+v", ev)
	}

	want := []struct {
		id     string
		status string
	}{
		{"R2", "ranked"},
		{"R1", "ranked"},
		{"R4", "unavailable"},
		{"R3", "excluded"},
	}
	if len(ev.Candidates) != len(want) {
		t.Fatalf("len(Candidates) = %d, want %d", len(ev.Candidates), len(want))
	}
	for i, w := range want {
		if got := ev.Candidates[i]; got.ID != w.id || got.Status != w.status {
			t.Errorf("Candidates[%d] = %+v, want id %s status %s", i, got, w.id, w.status)
		}
	}
	if !ev.Candidates[0].AdjustedScore.Equal(recommend.Finite(0.41)) {
		t.Errorf("best score = %v", ev.Candidates[0].AdjustedScore)
	}
}

func TestNewDecisionEvent_NoneAvailable(t *testing.T) {
	t.Parallel()

	rec := &recommend.Recommendation{
		Decision: recommend.DecisionNoneAvailable,
		Ranked: []recommend.Entry{{
			Candidate:     models.Candidate{ID: "R9"},
			Status:        recommend.StatusUnavailable,
			AdjustedScore: recommend.Unavailable(),
		}},
	}

	ev := NewDecisionEvent("", rec)
	if ev.BestID != "" {
		t.Errorf("BestID = %q, want empty", ev.BestID)
	}

	data, err := ev.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	body := string(data)
	for _, want := range []string{`"decision":"none_available"`, `"adjusted_score":"unavailable"`} {
		if !strings.Contains(body, want) {
			t.Errorf("payload missing %s: %s", want, body)
		}
	}
	for _, absent := range []string{`"best_id"`, `"request_id"`} {
		if strings.Contains(body, absent) {
			t.Errorf("payload should omit %s: %s", absent, body)
		}
	}
}

func TestDecodeDecisionEvent(t *testing.T) {
	t.Parallel()

	ev := NewDecisionEvent("req-1", testRecommendation())
	data, err := ev.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := DecodeDecisionEvent(data)
	if err != nil {
		t.Fatalf("DecodeDecisionEvent() error = %v", err)
	}
	if got.EventID != ev.EventID || got.BestID != "R2" {
		t.Errorf("decoded = %+v", got)
	}
	if !got.Candidates[2].AdjustedScore.IsUnavailable() {
		t.Error("unavailable score lost in transit")
	}

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "plain text"},
		{"missing id", `{"decision":"selected"}`},
		{"bad score", `{"event_id":"x","candidates":[{"id":"R1","adjusted_score":"huge"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DecodeDecisionEvent([]byte(tt.payload)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
