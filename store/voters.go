// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/eboto/election"
	"github.com/danielhkuo/eboto/models"
)

// CreateVoter registers an email address as a voter of the election.
func (s *Store) CreateVoter(ctx context.Context, v *models.Voter) error {
	v.ID = NewID()
	v.Email = strings.ToLower(strings.TrimSpace(v.Email))
	v.CreatedAt = utc(time.Now())
	v.HasVoted = false

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM voter WHERE election_id = $1 AND email = $2 AND status = 'active')
	`, v.ElectionID, v.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check voter email: %w", err)
	}
	if exists {
		return fmt.Errorf("voter %s: %w", v.Email, ErrAlreadyExists)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO voter (id, election_id, email, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.ElectionID, v.Email, models.StatusActive, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert voter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit voter: %w", err)
	}
	return nil
}

// GetVoter returns an active voter of the election.
func (s *Store) GetVoter(ctx context.Context, electionID, voterID string) (*models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRowContext(ctx, `
		SELECT v.id, v.election_id, v.email, v.created_at,
			CASE WHEN b.id IS NULL THEN 0 ELSE 1 END
		FROM voter v
		LEFT JOIN ballot b ON b.voter_id = v.id AND b.election_id = v.election_id
		WHERE v.id = $1 AND v.election_id = $2 AND v.status = 'active'
	`, voterID, electionID).Scan(&v.ID, &v.ElectionID, &v.Email, &v.CreatedAt, &v.HasVoted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &election.NotFoundError{Kind: "voter"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query voter: %w", err)
	}
	return &v, nil
}

// ListVoters returns the election's voters ordered by email.
func (s *Store) ListVoters(ctx context.Context, electionID string) ([]models.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.election_id, v.email, v.created_at,
			CASE WHEN b.id IS NULL THEN 0 ELSE 1 END
		FROM voter v
		LEFT JOIN ballot b ON b.voter_id = v.id AND b.election_id = v.election_id
		WHERE v.election_id = $1 AND v.status = 'active'
		ORDER BY v.email
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(&v.ID, &v.ElectionID, &v.Email, &v.CreatedAt, &v.HasVoted); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

// DeleteVoter soft-deletes a voter. Ballots already cast are kept.
func (s *Store) DeleteVoter(ctx context.Context, electionID, voterID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE voter
		SET status = 'deleted', deleted_at = $1
		WHERE id = $2 AND election_id = $3 AND status = 'active'
	`, utc(time.Now()), voterID, electionID)
	if err != nil {
		return fmt.Errorf("failed to delete voter: %w", err)
	}
	return requireAffected(result, &election.NotFoundError{Kind: "voter"})
}
