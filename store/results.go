// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/danielhkuo/eboto/models"
)

// Tally counts votes per candidate and abstentions per position. A voter
// abstains from a position when their ballot holds no vote for it.
func (s *Store) Tally(ctx context.Context, electionID string) (int, []models.PositionResult, error) {
	var ballots int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballot WHERE election_id = $1`, electionID).Scan(&ballots)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count ballots: %w", err)
	}

	positions, err := s.ListPositions(ctx, electionID)
	if err != nil {
		return 0, nil, err
	}
	candidates, err := s.ListCandidates(ctx, electionID)
	if err != nil {
		return 0, nil, err
	}

	counts := make(map[string]int)
	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id, COUNT(*) FROM vote WHERE election_id = $1 GROUP BY candidate_id
	`, electionID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count votes: %w", err)
	}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			rows.Close()
			return 0, nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[id] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to read vote counts: %w", err)
	}

	participated := make(map[string]int)
	rows, err = s.db.QueryContext(ctx, `
		SELECT c.position_id, COUNT(DISTINCT v.ballot_id)
		FROM vote v
		JOIN candidate c ON c.id = v.candidate_id
		WHERE v.election_id = $1
		GROUP BY c.position_id
	`, electionID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count participation: %w", err)
	}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			rows.Close()
			return 0, nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		participated[id] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to read participation: %w", err)
	}

	byPosition := make(map[string][]models.CandidateResult)
	for _, c := range candidates {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], models.CandidateResult{
			CandidateID: c.ID,
			Name:        c.DisplayName(),
			PartylistID: c.PartylistID,
			Votes:       counts[c.ID],
		})
	}

	results := make([]models.PositionResult, 0, len(positions))
	for _, p := range positions {
		cands := byPosition[p.ID]
		rankCandidates(cands)
		if cands == nil {
			cands = []models.CandidateResult{}
		}
		results = append(results, models.PositionResult{
			PositionID: p.ID,
			Name:       p.Name,
			Abstained:  ballots - participated[p.ID],
			Candidates: cands,
		})
	}

	return ballots, results, nil
}

// rankCandidates sorts by votes descending and assigns competition ranks
// (1, 1, 3, ...).
func rankCandidates(cands []models.CandidateResult) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Votes > cands[j].Votes
	})
	for i := range cands {
		if i > 0 && cands[i].Votes == cands[i-1].Votes {
			cands[i].Rank = cands[i-1].Rank
		} else {
			cands[i].Rank = i + 1
		}
	}
}
