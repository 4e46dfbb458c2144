// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election holds the voting rules of eBoto: when an election is
ongoing, when its daily voting window is open, and whether a ballot can be
submitted.

Every function here is pure. The current instant is always passed in as
now; nothing in this package reads the wall clock or touches storage.

# Election Clock

An election is ongoing from its start date up to, but excluding, the day
after its end date. The end date therefore covers its whole calendar day:

	election.IsOngoing(s, now)       // start <= now < end + 1 day
	election.IsVotingOpenNow(s, now) // ongoing && startHour <= hour(now) < endHour

Settings changes use the date-only check; ballot submission uses the
hour-gated one:

	if err := election.CheckScheduleChange(current, next, now); err != nil {
		// ErrElectionOngoing or *ConfigError
	}

# Ballot Validation

ValidateBallot checks every position of the election, including positions
the voter left empty:

	failures := election.ValidateBallot(positions, selections)
	if len(failures) > 0 {
		return &election.BallotError{Failures: failures}
	}

A position passes when min <= k <= max, where k is the number of distinct
candidates selected for it. Selecting a candidate that belongs to another
position is always a failure. Failures are reported in position declaration
order.

# Errors

  - *ConfigError: invalid schedule, limits or slug at write time
  - ErrVotingWindowClosed: submission outside the voting window
  - *BallotError: one or more positions failed validation
  - ErrDuplicateVote: the voter already has a ballot for this election
  - ErrElectionNotFound: no active election matches the lookup
  - ErrElectionOngoing: date change attempted while the election is ongoing
*/
package election
