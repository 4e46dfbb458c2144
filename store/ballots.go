// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/eboto/election"
	"github.com/danielhkuo/eboto/models"
)

// HasVoted reports whether the voter already has a ballot for the election.
func (s *Store) HasVoted(ctx context.Context, electionID, voterID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM ballot WHERE election_id = $1 AND voter_id = $2)
	`, electionID, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ballot: %w", err)
	}
	return exists, nil
}

// CommitBallot records the ballot and one vote row per candidate in a
// single transaction. A second ballot from the same voter violates
// UNIQUE (election_id, voter_id) and returns election.ErrDuplicateVote;
// nothing from the failed attempt is kept.
func (s *Store) CommitBallot(ctx context.Context, b *models.Ballot, candidateIDs []string) error {
	b.ID = NewID()
	b.SubmittedAt = utc(b.SubmittedAt)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ballot (id, election_id, voter_id, submitted_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, b.ID, b.ElectionID, b.VoterID, b.SubmittedAt, b.IPHash, b.UserAgent)
	if err != nil {
		if isUniqueViolation(err) {
			return election.ErrDuplicateVote
		}
		return fmt.Errorf("failed to insert ballot: %w", err)
	}

	for _, candidateID := range candidateIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (id, ballot_id, election_id, voter_id, candidate_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, NewID(), b.ID, b.ElectionID, b.VoterID, candidateID, b.SubmittedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return election.ErrDuplicateVote
			}
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return election.ErrDuplicateVote
		}
		return fmt.Errorf("failed to commit ballot: %w", err)
	}
	return nil
}
