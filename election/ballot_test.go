// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"reflect"
	"testing"
)

func president() Position {
	return Position{ID: "pos-president", Name: "President", Min: 1, Max: 1, CandidateIDs: []string{"cand-A", "cand-B"}}
}

func senator() Position {
	return Position{ID: "pos-senator", Name: "Senator", Min: 0, Max: 3, CandidateIDs: []string{"s1", "s2", "s3", "s4", "s5"}}
}

func TestValidateBallotSinglePosition(t *testing.T) {
	tests := []struct {
		name       string
		position   Position
		selected   []string
		wantReason Reason
	}{
		{"president empty", president(), nil, ReasonBelowMinimum},
		{"president one", president(), []string{"cand-A"}, ""},
		{"president two", president(), []string{"cand-A", "cand-B"}, ReasonAboveMaximum},
		{"senator abstain", senator(), nil, ""},
		{"senator three", senator(), []string{"s1", "s2", "s3"}, ""},
		{"senator four", senator(), []string{"s1", "s2", "s3", "s4"}, ReasonAboveMaximum},
		{"duplicate ids count once", president(), []string{"cand-A", "cand-A"}, ""},
		{"foreign candidate", president(), []string{"s1"}, ReasonForeignCandidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := Selections{}
			if tt.selected != nil {
				sel[tt.position.ID] = tt.selected
			}
			failures := ValidateBallot([]Position{tt.position}, sel)

			if tt.wantReason == "" {
				if len(failures) != 0 {
					t.Errorf("expected ballot to pass, got %+v", failures)
				}
				return
			}
			if len(failures) != 1 {
				t.Fatalf("expected 1 failure, got %d: %+v", len(failures), failures)
			}
			if failures[0].Reason != tt.wantReason {
				t.Errorf("expected reason %s, got %s", tt.wantReason, failures[0].Reason)
			}
			if failures[0].PositionID != tt.position.ID {
				t.Errorf("expected position %s, got %s", tt.position.ID, failures[0].PositionID)
			}
		})
	}
}

func TestValidateBallotCardinality(t *testing.T) {
	for min := 0; min <= 3; min++ {
		for max := 1; max <= 4; max++ {
			if min > max {
				continue
			}
			ids := []string{"c0", "c1", "c2", "c3", "c4", "c5"}
			p := Position{ID: "p", Min: min, Max: max, CandidateIDs: ids}
			for k := 0; k <= len(ids); k++ {
				failures := ValidateBallot([]Position{p}, Selections{"p": ids[:k]})
				want := min <= k && k <= max
				if got := len(failures) == 0; got != want {
					t.Errorf("min=%d max=%d k=%d: passed=%v, want %v", min, max, k, got, want)
				}
			}
		}
	}
}

func TestValidateBallotReportsAllFailuresInDeclarationOrder(t *testing.T) {
	treasurer := Position{ID: "pos-treasurer", Min: 1, Max: 1, CandidateIDs: []string{"t1"}}
	positions := []Position{president(), senator(), treasurer}

	sel := Selections{
		"pos-treasurer": nil,
		"pos-senator":   {"s1", "s2", "s3", "s4"},
		"pos-ghost":     {"x"},
	}

	failures := ValidateBallot(positions, sel)

	var got []string
	for _, f := range failures {
		got = append(got, f.PositionID+":"+string(f.Reason))
	}
	want := []string{
		"pos-president:below_minimum",
		"pos-senator:above_maximum",
		"pos-treasurer:below_minimum",
		"pos-ghost:unknown_position",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("failures = %v, want %v", got, want)
	}
}

func TestValidateBallotForeignCandidateIsNeverDropped(t *testing.T) {
	// s1 belongs to Senator; placing it under President must fail even though
	// the count would otherwise be valid.
	failures := ValidateBallot([]Position{president(), senator()}, Selections{
		"pos-president": {"s1"},
		"pos-senator":   {"s2"},
	})
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %+v", failures)
	}
	if failures[0].Reason != ReasonForeignCandidate || failures[0].CandidateID != "s1" {
		t.Errorf("unexpected failure %+v", failures[0])
	}
}

func TestValidateBallotIsDeterministic(t *testing.T) {
	positions := []Position{president(), senator()}
	sel := Selections{"pos-senator": {"s1", "s2", "s3", "s4"}, "zzz": {"a"}, "aaa": {"b"}}

	first := ValidateBallot(positions, sel)
	for i := 0; i < 20; i++ {
		if again := ValidateBallot(positions, sel); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed: %+v vs %+v", i, first, again)
		}
	}
}

func TestCandidateIDs(t *testing.T) {
	positions := []Position{president(), senator()}
	sel := Selections{"pos-senator": {"s2", "s1", "s2"}, "pos-president": {"cand-B"}}

	got := CandidateIDs(positions, sel)
	want := []string{"cand-B", "s2", "s1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CandidateIDs() = %v, want %v", got, want)
	}
}

func TestBallotErrorMessage(t *testing.T) {
	err := &BallotError{Failures: []Failure{{PositionID: "p1", Reason: ReasonBelowMinimum}}}
	want := "ballot validation failed (p1: below_minimum)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
