// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/eboto/election"
	"github.com/danielhkuo/eboto/models"
)

// CreatePartylist adds a non-default partylist to the election.
func (s *Store) CreatePartylist(ctx context.Context, pl *models.Partylist) error {
	pl.ID = NewID()
	pl.IsDefault = false
	pl.CreatedAt = utc(time.Now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO partylist (id, election_id, name, abbreviation, is_default, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, pl.ID, pl.ElectionID, pl.Name, pl.Abbreviation, boolInt(pl.IsDefault), models.StatusActive, pl.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert partylist: %w", err)
	}
	return nil
}

// ListPartylists returns the default partylist first, then the rest by age.
func (s *Store) ListPartylists(ctx context.Context, electionID string) ([]models.Partylist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, election_id, name, abbreviation, is_default, created_at
		FROM partylist
		WHERE election_id = $1 AND status = 'active'
		ORDER BY is_default DESC, created_at
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query partylists: %w", err)
	}
	defer rows.Close()

	partylists := []models.Partylist{}
	for rows.Next() {
		var pl models.Partylist
		if err := rows.Scan(&pl.ID, &pl.ElectionID, &pl.Name, &pl.Abbreviation, &pl.IsDefault, &pl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan partylist: %w", err)
		}
		partylists = append(partylists, pl)
	}
	return partylists, rows.Err()
}

// DeletePartylist soft-deletes a partylist that no active candidate uses.
func (s *Store) DeletePartylist(ctx context.Context, electionID, partylistID string) error {
	var isDefault bool
	err := s.db.QueryRowContext(ctx, `
		SELECT is_default FROM partylist
		WHERE id = $1 AND election_id = $2 AND status = 'active'
	`, partylistID, electionID).Scan(&isDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return &election.NotFoundError{Kind: "partylist"}
	}
	if err != nil {
		return fmt.Errorf("failed to query partylist: %w", err)
	}
	if isDefault {
		return ErrDefaultPartylist
	}

	var inUse bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidate WHERE partylist_id = $1 AND status = 'active')
	`, partylistID).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check partylist candidates: %w", err)
	}
	if inUse {
		return fmt.Errorf("partylist %s: %w", partylistID, ErrInUse)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE partylist SET status = 'deleted', deleted_at = $1 WHERE id = $2
	`, utc(time.Now()), partylistID)
	if err != nil {
		return fmt.Errorf("failed to delete partylist: %w", err)
	}
	return nil
}

// CreateCandidate inserts a candidate after checking that its position and
// partylist belong to the same election. An empty PartylistID selects the
// election's default partylist.
func (s *Store) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	c.ID = NewID()
	c.CreatedAt = utc(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var found bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM election_position WHERE id = $1 AND election_id = $2 AND status = 'active')
	`, c.PositionID, c.ElectionID).Scan(&found)
	if err != nil {
		return fmt.Errorf("failed to check position: %w", err)
	}
	if !found {
		return &election.ConfigError{Field: "position_id", Reason: "position does not belong to this election"}
	}

	if c.PartylistID == "" {
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM partylist WHERE election_id = $1 AND is_default = 1 AND status = 'active'
		`, c.ElectionID).Scan(&c.PartylistID)
		if err != nil {
			return fmt.Errorf("failed to find default partylist: %w", err)
		}
	} else {
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM partylist WHERE id = $1 AND election_id = $2 AND status = 'active')
		`, c.PartylistID, c.ElectionID).Scan(&found)
		if err != nil {
			return fmt.Errorf("failed to check partylist: %w", err)
		}
		if !found {
			return &election.ConfigError{Field: "partylist_id", Reason: "partylist does not belong to this election"}
		}
	}

	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidate WHERE election_id = $1 AND slug = $2 AND status = 'active')
	`, c.ElectionID, c.Slug).Scan(&found)
	if err != nil {
		return fmt.Errorf("failed to check candidate slug: %w", err)
	}
	if found {
		return fmt.Errorf("candidate slug %q: %w", c.Slug, ErrAlreadyExists)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO candidate (id, election_id, position_id, partylist_id, slug, first_name, middle_name,
			last_name, image_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, c.ID, c.ElectionID, c.PositionID, c.PartylistID, c.Slug, c.FirstName, c.MiddleName,
		c.LastName, c.ImageURL, models.StatusActive, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit candidate: %w", err)
	}
	return nil
}

// ListCandidates returns the election's candidates grouped by position
// declaration order.
func (s *Store) ListCandidates(ctx context.Context, electionID string) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.election_id, c.position_id, c.partylist_id, c.slug, c.first_name, c.middle_name,
			c.last_name, c.image_url, c.created_at
		FROM candidate c
		JOIN election_position p ON p.id = c.position_id
		WHERE c.election_id = $1 AND c.status = 'active' AND p.status = 'active'
		ORDER BY p.sort_order, c.last_name, c.first_name
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		var middle, image sql.NullString
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.PositionID, &c.PartylistID, &c.Slug, &c.FirstName,
			&middle, &c.LastName, &image, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if middle.Valid {
			c.MiddleName = &middle.String
		}
		if image.Valid {
			c.ImageURL = &image.String
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// DeleteCandidate soft-deletes a candidate.
func (s *Store) DeleteCandidate(ctx context.Context, electionID, candidateID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE candidate
		SET status = 'deleted', deleted_at = $1
		WHERE id = $2 AND election_id = $3 AND status = 'active'
	`, utc(time.Now()), candidateID, electionID)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	return requireAffected(result, &election.NotFoundError{Kind: "candidate"})
}
