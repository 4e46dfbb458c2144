// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrElectionNotFound   = errors.New("election not found")
	ErrNotFound           = errors.New("not found")
	ErrVotingWindowClosed = errors.New("voting is not open for this election")
	ErrDuplicateVote      = errors.New("voter has already voted in this election")
	ErrElectionOngoing    = errors.New("election dates cannot be changed while the election is ongoing")
)

// NotFoundError names the kind of record a lookup missed. It matches
// ErrNotFound under errors.Is.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "" {
		return "Not found"
	}
	return strings.ToUpper(e.Kind[:1]) + e.Kind[1:] + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConfigError reports an election, position or candidate write that would
// leave invalid data behind.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// BallotError carries every failing position of a rejected ballot.
type BallotError struct {
	Failures []Failure
}

func (e *BallotError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.PositionID+": "+string(f.Reason))
	}
	return "ballot validation failed (" + strings.Join(parts, ", ") + ")"
}
