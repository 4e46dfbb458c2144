// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the eBoto API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Election management (admin, requires X-Admin-Key):

	POST   /elections                 - Create election
	GET    /elections/{id}/admin      - Election details with positions and candidates
	PATCH  /elections/{id}/settings   - Update name, publicity, dates or hours
	DELETE /elections/{id}            - Remove election

	POST/GET     /elections/{id}/positions
	PATCH/DELETE /elections/{id}/positions/{positionID}
	POST/GET     /elections/{id}/partylists
	DELETE       /elections/{id}/partylists/{partylistID}
	POST/GET     /elections/{id}/candidates
	DELETE       /elections/{id}/candidates/{candidateID}
	POST/GET     /elections/{id}/voters
	POST         /elections/{id}/voters/{voterID}/token
	DELETE       /elections/{id}/voters/{voterID}

Voting (uses slug, requires X-Voter-Token):

	GET  /elections/{slug}/ballot  - Ballot form
	POST /elections/{slug}/ballots - Submit ballot (rate limited per IP)

Public, subject to publicity:

	GET /elections/{slug}          - Election page and status
	GET /elections/{slug}/results  - Live tally

Ballot submission is limited to Config.BallotRateLimit requests per second
per client IP. A rate of zero disables the limiter.
*/
package router
