// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
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

// Voter tokens stay valid this long after the election's last day so that
// voters can still open VOTERS_ONLY results.
const voterTokenGrace = 30 * 24 * time.Hour

type VoterHandler struct {
	store *store.Store
	cfg   cliparse.Config
	now   func() time.Time
}

func NewVoterHandler(db *sql.DB, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{store: store.New(db), cfg: cfg, now: time.Now}
}

// AddVoter handles POST /elections/{id}/voters
func (h *VoterHandler) AddVoter(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	var req models.AddVoterRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	v := &models.Voter{ElectionID: e.ID, Email: req.Email}
	if err := h.store.CreateVoter(r.Context(), v); err != nil {
		writeError(w, err, "Failed to add voter")
		return
	}

	token, err := h.issueToken(e, v.ID)
	if err != nil {
		writeError(w, err, "Failed to issue voter token")
		return
	}

	slog.Info("voter added", "election_id", e.ID, "voter_id", v.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddVoterResponse{
		Voter:      *v,
		VoterToken: token,
	})
}

// ListVoters handles GET /elections/{id}/voters
func (h *VoterHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	voters, err := h.store.ListVoters(r.Context(), e.ID)
	if err != nil {
		writeError(w, err, "Failed to list voters")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}

// ReissueToken handles POST /elections/{id}/voters/{voterID}/token
// Tokens are not stored, so a lost token is replaced by signing a new one.
func (h *VoterHandler) ReissueToken(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	v, err := h.store.GetVoter(r.Context(), e.ID, r.PathValue("voterID"))
	if err != nil {
		writeError(w, err, "Failed to load voter")
		return
	}

	token, err := h.issueToken(e, v.ID)
	if err != nil {
		writeError(w, err, "Failed to issue voter token")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AddVoterResponse{
		Voter:      *v,
		VoterToken: token,
	})
}

// DeleteVoter handles DELETE /elections/{id}/voters/{voterID}
func (h *VoterHandler) DeleteVoter(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	voterID := r.PathValue("voterID")
	if err := h.store.DeleteVoter(r.Context(), e.ID, voterID); err != nil {
		writeError(w, err, "Failed to remove voter")
		return
	}

	slog.Info("voter removed", "election_id", e.ID, "voter_id", voterID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *VoterHandler) issueToken(e *models.Election, voterID string) (string, error) {
	now := h.now()
	expires := election.EndBoundary(e.Schedule()).Add(voterTokenGrace)
	if expires.Before(now.Add(24 * time.Hour)) {
		expires = now.Add(24 * time.Hour)
	}
	return auth.IssueVoterToken(h.cfg.VoterTokenSecret, e.ID, voterID, now, expires)
}
