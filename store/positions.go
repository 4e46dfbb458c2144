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

// CreatePosition appends a position to the end of the election's ballot.
func (s *Store) CreatePosition(ctx context.Context, p *models.Position) error {
	p.ID = NewID()
	p.CreatedAt = utc(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(sort_order), -1) + 1 FROM election_position WHERE election_id = $1
	`, p.ElectionID).Scan(&p.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to compute position order: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO election_position (id, election_id, name, min_selections, max_selections, sort_order, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.ElectionID, p.Name, p.Min, p.Max, p.SortOrder, models.StatusActive, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit position: %w", err)
	}
	return nil
}

// GetPosition returns an active position of the election.
func (s *Store) GetPosition(ctx context.Context, electionID, positionID string) (*models.Position, error) {
	var p models.Position
	err := s.db.QueryRowContext(ctx, `
		SELECT id, election_id, name, min_selections, max_selections, sort_order, created_at
		FROM election_position
		WHERE id = $1 AND election_id = $2 AND status = 'active'
	`, positionID, electionID).Scan(&p.ID, &p.ElectionID, &p.Name, &p.Min, &p.Max, &p.SortOrder, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &election.NotFoundError{Kind: "position"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query position: %w", err)
	}
	return &p, nil
}

// ListPositions returns the election's positions in declaration order.
func (s *Store) ListPositions(ctx context.Context, electionID string) ([]models.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, election_id, name, min_selections, max_selections, sort_order, created_at
		FROM election_position
		WHERE election_id = $1 AND status = 'active'
		ORDER BY sort_order, created_at
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.ElectionID, &p.Name, &p.Min, &p.Max, &p.SortOrder, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// UpdatePosition writes the name and limits of an active position.
func (s *Store) UpdatePosition(ctx context.Context, p *models.Position) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE election_position
		SET name = $1, min_selections = $2, max_selections = $3
		WHERE id = $4 AND election_id = $5 AND status = 'active'
	`, p.Name, p.Min, p.Max, p.ID, p.ElectionID)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	return requireAffected(result, &election.NotFoundError{Kind: "position"})
}

// DeletePosition soft-deletes a position and the candidates running for it.
func (s *Store) DeletePosition(ctx context.Context, electionID, positionID string) error {
	now := utc(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE election_position
		SET status = 'deleted', deleted_at = $1
		WHERE id = $2 AND election_id = $3 AND status = 'active'
	`, now, positionID, electionID)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	if err := requireAffected(result, &election.NotFoundError{Kind: "position"}); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE candidate
		SET status = 'deleted', deleted_at = $1
		WHERE position_id = $2 AND status = 'active'
	`, now, positionID)
	if err != nil {
		return fmt.Errorf("failed to delete position candidates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit position deletion: %w", err)
	}
	return nil
}
