// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/eboto/cliparse"
	"github.com/danielhkuo/eboto/handlers"
	"github.com/danielhkuo/eboto/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg)
	positionHandler := handlers.NewPositionHandler(db, cfg)
	candidateHandler := handlers.NewCandidateHandler(db, cfg)
	voterHandler := handlers.NewVoterHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	var ballotLimiter *middleware.IPRateLimiter
	if cfg.BallotRateLimit > 0 {
		ballotLimiter = middleware.NewIPRateLimiter(cfg.BallotRateLimit, cfg.BallotRateBurst,
			middleware.NewIPResolver(cfg.ProxyPrefixes()))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election management (admin operations)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections/{id}/admin", middleware.WithLogging(electionHandler.GetElectionAdmin))
	mux.HandleFunc("PATCH /elections/{id}/settings", middleware.WithLogging(electionHandler.UpdateSettings))
	mux.HandleFunc("DELETE /elections/{id}", middleware.WithLogging(electionHandler.DeleteElection))

	// Positions
	mux.HandleFunc("POST /elections/{id}/positions", middleware.WithLogging(positionHandler.CreatePosition))
	mux.HandleFunc("GET /elections/{id}/positions", middleware.WithLogging(positionHandler.ListPositions))
	mux.HandleFunc("PATCH /elections/{id}/positions/{positionID}", middleware.WithLogging(positionHandler.UpdatePosition))
	mux.HandleFunc("DELETE /elections/{id}/positions/{positionID}", middleware.WithLogging(positionHandler.DeletePosition))

	// Partylists and candidates
	mux.HandleFunc("POST /elections/{id}/partylists", middleware.WithLogging(candidateHandler.CreatePartylist))
	mux.HandleFunc("GET /elections/{id}/partylists", middleware.WithLogging(candidateHandler.ListPartylists))
	mux.HandleFunc("DELETE /elections/{id}/partylists/{partylistID}", middleware.WithLogging(candidateHandler.DeletePartylist))
	mux.HandleFunc("POST /elections/{id}/candidates", middleware.WithLogging(candidateHandler.CreateCandidate))
	mux.HandleFunc("GET /elections/{id}/candidates", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("DELETE /elections/{id}/candidates/{candidateID}", middleware.WithLogging(candidateHandler.DeleteCandidate))

	// Voters
	mux.HandleFunc("POST /elections/{id}/voters", middleware.WithLogging(voterHandler.AddVoter))
	mux.HandleFunc("GET /elections/{id}/voters", middleware.WithLogging(voterHandler.ListVoters))
	mux.HandleFunc("POST /elections/{id}/voters/{voterID}/token", middleware.WithLogging(voterHandler.ReissueToken))
	mux.HandleFunc("DELETE /elections/{id}/voters/{voterID}", middleware.WithLogging(voterHandler.DeleteVoter))

	// Public election page and voting (uses slug)
	mux.HandleFunc("GET /elections/{slug}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("GET /elections/{slug}/ballot", middleware.WithLogging(votingHandler.GetBallot))
	mux.HandleFunc("POST /elections/{slug}/ballots", middleware.WithLogging(middleware.RateLimit(ballotLimiter, votingHandler.SubmitBallot)))
	mux.HandleFunc("GET /elections/{slug}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("eboto API v1"))
	})

	return mux
}
