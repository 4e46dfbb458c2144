// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/eboto/auth"
	"github.com/danielhkuo/eboto/cliparse"
	"github.com/danielhkuo/eboto/election"
	"github.com/danielhkuo/eboto/middleware"
	"github.com/danielhkuo/eboto/models"
	"github.com/danielhkuo/eboto/store"
)

type VotingHandler struct {
	store *store.Store
	cfg   cliparse.Config
	ips   *middleware.IPResolver
	now   func() time.Time
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{
		store: store.New(db),
		cfg:   cfg,
		ips:   middleware.NewIPResolver(cfg.ProxyPrefixes()),
		now:   time.Now,
	}
}

// GetBallot handles GET /elections/{slug}/ballot
// The ballot form is only included while voting is open; otherwise the
// status message explains when it opens or that it has ended.
func (h *VotingHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.cfg.Location())

	e, err := h.store.GetElectionBySlug(r.Context(), election.NormalizeSlug(r.PathValue("slug")))
	if err != nil {
		writeError(w, err, "Failed to load election")
		return
	}

	voter, err := authenticateVoter(r.Context(), r, h.store, h.cfg, e, now)
	if err != nil {
		writeError(w, err, "Failed to verify voter")
		return
	}

	resp := models.BallotResponse{
		Election:  *e,
		Status:    electionStatus(scheduleIn(e, now.Location()), now),
		HasVoted:  voter.HasVoted,
		Positions: []models.BallotPosition{},
	}

	if resp.Status.VotingOpen && !voter.HasVoted {
		positions, candidates, err := h.loadBallot(r.Context(), e.ID)
		if err != nil {
			writeError(w, err, "Failed to load ballot")
			return
		}

		byPosition := make(map[string][]models.Candidate, len(positions))
		for _, c := range candidates {
			byPosition[c.PositionID] = append(byPosition[c.PositionID], c)
		}
		for _, p := range positions {
			cands := byPosition[p.ID]
			if cands == nil {
				cands = []models.Candidate{}
			}
			resp.Positions = append(resp.Positions, models.BallotPosition{
				Position:     p,
				SingleChoice: p.IsSingleChoice(),
				Candidates:   cands,
			})
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// SubmitBallot handles POST /elections/{slug}/ballots
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	// Get voter token from header
	if r.Header.Get(headerVoterToken) == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	ctx := r.Context()
	now := h.now().In(h.cfg.Location())

	e, err := h.store.GetElectionBySlug(ctx, election.NormalizeSlug(r.PathValue("slug")))
	if err != nil {
		writeError(w, err, "Failed to load election")
		return
	}

	voter, err := authenticateVoter(ctx, r, h.store, h.cfg, e, now)
	if err != nil {
		writeError(w, err, "Failed to verify voter")
		return
	}

	// Client-side gating is not trusted
	if !election.IsVotingOpenNow(scheduleIn(e, now.Location()), now) {
		writeError(w, election.ErrVotingWindowClosed, "")
		return
	}

	voted, err := h.store.HasVoted(ctx, e.ID, voter.ID)
	if err != nil {
		writeError(w, err, "Failed to check ballot")
		return
	}
	if voted {
		writeError(w, election.ErrDuplicateVote, "")
		return
	}

	positions, candidates, err := h.loadBallot(ctx, e.ID)
	if err != nil {
		writeError(w, err, "Failed to load ballot")
		return
	}
	core := corePositions(positions, candidates)

	sel := election.Selections(req.Selections)
	if failures := election.ValidateBallot(core, sel); len(failures) > 0 {
		writeError(w, &election.BallotError{Failures: failures}, "")
		return
	}

	ipHash := auth.HashIP(h.ips.ClientIP(r), h.cfg.IPHashSalt)
	ballot := &models.Ballot{
		ElectionID:  e.ID,
		VoterID:     voter.ID,
		SubmittedAt: now,
		IPHash:      &ipHash,
	}
	if ua := r.UserAgent(); ua != "" {
		ballot.UserAgent = &ua
	}

	candidateIDs := election.CandidateIDs(core, sel)
	if err := h.store.CommitBallot(ctx, ballot, candidateIDs); err != nil {
		writeError(w, err, "Failed to submit ballot")
		return
	}

	slog.Info("ballot submitted",
		"election_id", e.ID,
		"ballot_id", ballot.ID,
		"votes", len(candidateIDs),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		BallotID: ballot.ID,
		Votes:    len(candidateIDs),
		Message:  fmt.Sprintf("Thank you for voting in %s", e.Name),
	})
}

func (h *VotingHandler) loadBallot(ctx context.Context, electionID string) ([]models.Position, []models.Candidate, error) {
	positions, err := h.store.ListPositions(ctx, electionID)
	if err != nil {
		return nil, nil, err
	}
	candidates, err := h.store.ListCandidates(ctx, electionID)
	if err != nil {
		return nil, nil, err
	}
	return positions, candidates, nil
}

// corePositions converts stored positions into the validator's view, with
// each position's candidate ids attached in declaration order.
func corePositions(positions []models.Position, candidates []models.Candidate) []election.Position {
	ids := make(map[string][]string, len(positions))
	for _, c := range candidates {
		ids[c.PositionID] = append(ids[c.PositionID], c.ID)
	}

	core := make([]election.Position, 0, len(positions))
	for _, p := range positions {
		core = append(core, election.Position{
			ID:           p.ID,
			Name:         p.Name,
			Min:          p.Min,
			Max:          p.Max,
			CandidateIDs: ids[p.ID],
		})
	}
	return core
}
