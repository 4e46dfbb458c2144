// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the eBoto API.

# Handler Types

Each handler is a struct with store, config and clock dependencies:

  - ElectionHandler: Election lifecycle (create, settings, delete)
  - PositionHandler: Ballot positions and their selection limits
  - CandidateHandler: Partylists and candidates
  - VoterHandler: Voter registration and tokens
  - VotingHandler: Ballot retrieval and submission
  - ResultsHandler: Live tallies

Handlers are created via constructor functions that accept *sql.DB and Config:

	electionHandler := handlers.NewElectionHandler(db, cfg)

# Election Administration

	POST   /elections                 → CreateElection (returns admin_key)
	GET    /elections/{id}/admin      → GetElectionAdmin
	PATCH  /elections/{id}/settings   → UpdateSettings
	DELETE /elections/{id}            → DeleteElection

Positions, partylists, candidates and voters hang off /elections/{id}.
Admin operations require the X-Admin-Key header. Start and end dates cannot
change while the election is ongoing; voting hours, name and publicity can.

# Voting Flow

Voters interact via the election slug:

	GET  /elections/{slug}         → GetElection (publicity gated)
	GET  /elections/{slug}/ballot  → GetBallot
	POST /elections/{slug}/ballots → SubmitBallot
	GET  /elections/{slug}/results → GetResults (publicity gated)

Voter operations require the X-Voter-Token header. A ballot is accepted
only while the election is ongoing and the current hour, in the configured
time zone, lies inside the daily voting window. Every position's selection
limits are checked before anything is written; a rejected ballot reports
all failing positions at once with status 422.

# Publicity

PUBLIC elections are visible to anyone. VOTERS_ONLY elections need a voter
token for that election or the admin key, and PRIVATE elections need the
admin key. Elections the caller may not see are reported as not found.
*/
package handlers
