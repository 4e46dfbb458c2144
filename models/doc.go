// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON. Struct tags carry the validation rules
checked by middleware.DecodeJSON:

  - CreateElectionRequest: name, slug, publicity, dates, voting hours
  - UpdateElectionSettingsRequest: same fields, all optional
  - CreatePositionRequest / UpdatePositionRequest: name, min, max
  - CreatePartylistRequest: name, abbreviation
  - CreateCandidateRequest: names, slug, image, position, partylist
  - AddVoterRequest: email
  - SubmitBallotRequest: selections (map[position_id][]candidate_id)

# Domain Types

  - Election: schedule, publicity and soft-delete status
  - Position: min/max selection limits and declaration order
  - Partylist: candidate grouping; every election has a default one
  - Candidate: belongs to one position and one partylist
  - Voter: registered voter and whether they have voted
  - Ballot: committed submission metadata

# Constants

Publicity values:

	PublicityPrivate    = "PRIVATE"
	PublicityVotersOnly = "VOTERS_ONLY"
	PublicityPublic     = "PUBLIC"

Row status:

	StatusActive  = "active"
	StatusDeleted = "deleted"
*/
package models
