// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "sort"

// Position is a ballot position as the validator sees it: its limits and
// the candidates running for it.
type Position struct {
	ID           string
	Name         string
	Min          int
	Max          int
	CandidateIDs []string
}

// Selections maps a position id to the candidate ids chosen for it.
type Selections map[string][]string

// Reason explains why a position failed validation.
type Reason string

const (
	ReasonBelowMinimum     Reason = "below_minimum"
	ReasonAboveMaximum     Reason = "above_maximum"
	ReasonForeignCandidate Reason = "foreign_candidate"
	ReasonUnknownPosition  Reason = "unknown_position"
)

// Failure is a single failing position.
type Failure struct {
	PositionID  string `json:"position_id"`
	Reason      Reason `json:"reason"`
	CandidateID string `json:"candidate_id,omitempty"`
	Selected    int    `json:"selected"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
}

// ValidateBallot checks sel against every position, in declaration order.
// It returns nil when the ballot can be submitted.
func ValidateBallot(positions []Position, sel Selections) []Failure {
	var failures []Failure
	known := make(map[string]bool, len(positions))

	for _, p := range positions {
		known[p.ID] = true
		chosen := distinct(sel[p.ID])
		k := len(chosen)

		if foreign, ok := firstForeign(p, chosen); ok {
			failures = append(failures, Failure{
				PositionID:  p.ID,
				Reason:      ReasonForeignCandidate,
				CandidateID: foreign,
				Selected:    k,
				Min:         p.Min,
				Max:         p.Max,
			})
			continue
		}

		switch {
		case k < p.Min:
			failures = append(failures, Failure{PositionID: p.ID, Reason: ReasonBelowMinimum, Selected: k, Min: p.Min, Max: p.Max})
		case k > p.Max:
			failures = append(failures, Failure{PositionID: p.ID, Reason: ReasonAboveMaximum, Selected: k, Min: p.Min, Max: p.Max})
		}
	}

	var unknown []string
	for id := range sel {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		failures = append(failures, Failure{PositionID: id, Reason: ReasonUnknownPosition, Selected: len(distinct(sel[id]))})
	}

	return failures
}

// CandidateIDs flattens sel into the distinct candidate ids to record,
// following position declaration order.
func CandidateIDs(positions []Position, sel Selections) []string {
	var ids []string
	for _, p := range positions {
		ids = append(ids, distinct(sel[p.ID])...)
	}
	return ids
}

func distinct(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func firstForeign(p Position, chosen []string) (string, bool) {
	if len(chosen) == 0 {
		return "", false
	}
	allowed := make(map[string]bool, len(p.CandidateIDs))
	for _, id := range p.CandidateIDs {
		allowed[id] = true
	}
	for _, id := range chosen {
		if !allowed[id] {
			return id, true
		}
	}
	return "", false
}
