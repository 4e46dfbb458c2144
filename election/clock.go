// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "time"

// Schedule is the part of an election that decides when it accepts votes.
type Schedule struct {
	StartDate       time.Time
	EndDate         time.Time
	VotingStartHour int
	VotingEndHour   int
}

// Phase describes where an election stands relative to a given instant.
type Phase string

const (
	PhaseUpcoming     Phase = "upcoming"
	PhaseOpen         Phase = "open"
	PhaseOutsideHours Phase = "outside_hours"
	PhaseEnded        Phase = "ended"
)

// EndBoundary returns the first instant after the election's last day.
func EndBoundary(s Schedule) time.Time {
	return s.EndDate.AddDate(0, 0, 1)
}

// IsOngoing reports whether now falls within [StartDate, EndDate + 1 day).
func IsOngoing(s Schedule, now time.Time) bool {
	return !now.Before(s.StartDate) && now.Before(EndBoundary(s))
}

// IsVotingOpenNow reports whether the election is ongoing and the hour of
// now lies inside the daily voting window. Only the hour component is
// compared.
func IsVotingOpenNow(s Schedule, now time.Time) bool {
	if !IsOngoing(s, now) {
		return false
	}
	h := now.Hour()
	return s.VotingStartHour <= h && h < s.VotingEndHour
}

// PhaseAt classifies now against the schedule.
func PhaseAt(s Schedule, now time.Time) Phase {
	switch {
	case now.Before(s.StartDate):
		return PhaseUpcoming
	case !now.Before(EndBoundary(s)):
		return PhaseEnded
	case IsVotingOpenNow(s, now):
		return PhaseOpen
	default:
		return PhaseOutsideHours
	}
}

// NextWindowOpening returns the next instant at or after now when voting
// opens, or the zero time when the election will not open again.
func NextWindowOpening(s Schedule, now time.Time) time.Time {
	from := now
	if from.Before(s.StartDate) {
		from = s.StartDate
	}
	end := EndBoundary(s)
	if !from.Before(end) {
		return time.Time{}
	}
	if h := from.Hour(); s.VotingStartHour <= h && h < s.VotingEndHour {
		return from
	}
	next := time.Date(from.Year(), from.Month(), from.Day(), s.VotingStartHour, 0, 0, 0, from.Location())
	if next.Before(from) {
		next = next.AddDate(0, 0, 1)
	}
	if !next.Before(end) {
		return time.Time{}
	}
	return next
}

// ValidateSchedule rejects date ranges and hour windows that could never
// be evaluated sensibly.
func ValidateSchedule(s Schedule) error {
	if s.StartDate.IsZero() {
		return configErr("start_date", "start date is required")
	}
	if s.EndDate.IsZero() {
		return configErr("end_date", "end date is required")
	}
	if s.EndDate.Before(s.StartDate) {
		return configErr("end_date", "end date must not be before the start date")
	}
	if s.VotingStartHour < 0 || s.VotingStartHour > 23 {
		return configErr("voting_start", "voting start hour must be between 0 and 23")
	}
	if s.VotingEndHour < 0 || s.VotingEndHour > 23 {
		return configErr("voting_end", "voting end hour must be between 0 and 23")
	}
	if s.VotingEndHour <= s.VotingStartHour {
		return configErr("voting_end", "voting end hour must be after the voting start hour")
	}
	return nil
}

// CheckScheduleChange decides whether an election's schedule may move from
// current to next at instant now. Dates are locked while the election is
// ongoing in the date-only sense, even outside the daily window.
func CheckScheduleChange(current, next Schedule, now time.Time) error {
	datesChanged := !current.StartDate.Equal(next.StartDate) || !current.EndDate.Equal(next.EndDate)
	if datesChanged && IsOngoing(current, now) {
		return ErrElectionOngoing
	}
	return ValidateSchedule(next)
}
