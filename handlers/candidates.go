// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/eboto/cliparse"
	"github.com/danielhkuo/eboto/election"
	"github.com/danielhkuo/eboto/middleware"
	"github.com/danielhkuo/eboto/models"
	"github.com/danielhkuo/eboto/store"
)

// CandidateHandler manages partylists and the candidates running under them.
type CandidateHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewCandidateHandler(db *sql.DB, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{store: store.New(db), cfg: cfg}
}

// CreatePartylist handles POST /elections/{id}/partylists
func (h *CandidateHandler) CreatePartylist(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	var req models.CreatePartylistRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	pl := &models.Partylist{
		ElectionID:   e.ID,
		Name:         strings.TrimSpace(req.Name),
		Abbreviation: strings.ToUpper(strings.TrimSpace(req.Abbreviation)),
	}
	if err := h.store.CreatePartylist(r.Context(), pl); err != nil {
		writeError(w, err, "Failed to create partylist")
		return
	}

	slog.Info("partylist created", "election_id", e.ID, "partylist_id", pl.ID)

	middleware.JSONResponse(w, http.StatusCreated, pl)
}

// ListPartylists handles GET /elections/{id}/partylists
func (h *CandidateHandler) ListPartylists(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	partylists, err := h.store.ListPartylists(r.Context(), e.ID)
	if err != nil {
		writeError(w, err, "Failed to list partylists")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, partylists)
}

// DeletePartylist handles DELETE /elections/{id}/partylists/{partylistID}
func (h *CandidateHandler) DeletePartylist(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	partylistID := r.PathValue("partylistID")
	if err := h.store.DeletePartylist(r.Context(), e.ID, partylistID); err != nil {
		writeError(w, err, "Failed to delete partylist")
		return
	}

	slog.Info("partylist deleted", "election_id", e.ID, "partylist_id", partylistID)

	w.WriteHeader(http.StatusNoContent)
}

// CreateCandidate handles POST /elections/{id}/candidates
func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	var req models.CreateCandidateRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	c := &models.Candidate{
		ElectionID:  e.ID,
		PositionID:  req.PositionID,
		PartylistID: req.PartylistID,
		Slug:        election.NormalizeSlug(req.Slug),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
	}
	if m := strings.TrimSpace(req.MiddleName); m != "" {
		c.MiddleName = &m
	}
	if req.ImageURL != "" {
		c.ImageURL = &req.ImageURL
	}

	if err := election.ValidateSlug(c.Slug); err != nil {
		writeError(w, err, "Invalid slug")
		return
	}

	if err := h.store.CreateCandidate(r.Context(), c); err != nil {
		writeError(w, err, "Failed to create candidate")
		return
	}

	slog.Info("candidate created", "election_id", e.ID, "candidate_id", c.ID, "position_id", c.PositionID)

	middleware.JSONResponse(w, http.StatusCreated, c)
}

// ListCandidates handles GET /elections/{id}/candidates
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	candidates, err := h.store.ListCandidates(r.Context(), e.ID)
	if err != nil {
		writeError(w, err, "Failed to list candidates")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// DeleteCandidate handles DELETE /elections/{id}/candidates/{candidateID}
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	candidateID := r.PathValue("candidateID")
	if err := h.store.DeleteCandidate(r.Context(), e.ID, candidateID); err != nil {
		writeError(w, err, "Failed to delete candidate")
		return
	}

	slog.Info("candidate deleted", "election_id", e.ID, "candidate_id", candidateID)

	w.WriteHeader(http.StatusNoContent)
}
