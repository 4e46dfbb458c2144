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

const electionColumns = `id, name, slug, description, publicity, start_date, end_date,
	voting_start, voting_end, status, created_at, updated_at, deleted_at`

// CreateElection inserts the election together with its default
// "Independent" partylist. Both rows are written or neither is.
func (s *Store) CreateElection(ctx context.Context, e *models.Election) error {
	now := utc(time.Now())
	e.ID = NewID()
	e.Status = models.StatusActive
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Publicity == "" {
		e.Publicity = models.PublicityPrivate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO election (id, name, slug, description, publicity, start_date, end_date,
			voting_start, voting_end, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, e.ID, e.Name, e.Slug, e.Description, e.Publicity, utc(e.StartDate), utc(e.EndDate),
		e.VotingStartHour, e.VotingEndHour, e.Status, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("election slug %q: %w", e.Slug, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert election: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO partylist (id, election_id, name, abbreviation, is_default, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, NewID(), e.ID, models.DefaultPartylistName, models.DefaultPartylistAbbreviation, 1, models.StatusActive, now)
	if err != nil {
		return fmt.Errorf("failed to insert default partylist: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit election: %w", err)
	}

	e.StartDate = utc(e.StartDate)
	e.EndDate = utc(e.EndDate)
	return nil
}

// GetElectionBySlug returns the active election with the given slug.
func (s *Store) GetElectionBySlug(ctx context.Context, slug string) (*models.Election, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+electionColumns+`
		FROM election
		WHERE slug = $1 AND status = 'active'
	`, slug)
	return scanElection(row)
}

// GetElectionByID returns the active election with the given id.
func (s *Store) GetElectionByID(ctx context.Context, id string) (*models.Election, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+electionColumns+`
		FROM election
		WHERE id = $1 AND status = 'active'
	`, id)
	return scanElection(row)
}

// UpdateElectionSettings writes the mutable settings of an active election.
// Callers are responsible for the ongoing-election date lock.
func (s *Store) UpdateElectionSettings(ctx context.Context, e *models.Election) error {
	e.UpdatedAt = utc(time.Now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE election
		SET name = $1, slug = $2, description = $3, publicity = $4, start_date = $5, end_date = $6,
			voting_start = $7, voting_end = $8, updated_at = $9
		WHERE id = $10 AND status = 'active'
	`, e.Name, e.Slug, e.Description, e.Publicity, utc(e.StartDate), utc(e.EndDate),
		e.VotingStartHour, e.VotingEndHour, e.UpdatedAt, e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("election slug %q: %w", e.Slug, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update election: %w", err)
	}

	return requireAffected(result, election.ErrElectionNotFound)
}

// SoftDeleteElection marks the election deleted. Its rows are kept.
func (s *Store) SoftDeleteElection(ctx context.Context, id string) error {
	now := utc(time.Now())
	result, err := s.db.ExecContext(ctx, `
		UPDATE election
		SET status = 'deleted', deleted_at = $1, updated_at = $1
		WHERE id = $2 AND status = 'active'
	`, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}

	return requireAffected(result, election.ErrElectionNotFound)
}

func scanElection(row *sql.Row) (*models.Election, error) {
	var e models.Election
	var deletedAt sql.NullTime
	err := row.Scan(
		&e.ID, &e.Name, &e.Slug, &e.Description, &e.Publicity, &e.StartDate, &e.EndDate,
		&e.VotingStartHour, &e.VotingEndHour, &e.Status, &e.CreatedAt, &e.UpdatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, election.ErrElectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan election: %w", err)
	}
	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Time
	}
	e.StartDate = utc(e.StartDate)
	e.EndDate = utc(e.EndDate)
	return &e, nil
}

func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
