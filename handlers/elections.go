// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
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

type ElectionHandler struct {
	store *store.Store
	cfg   cliparse.Config
	now   func() time.Time
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{store: store.New(db), cfg: cfg, now: time.Now}
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	loc := h.cfg.Location()
	e := &models.Election{
		Name:            req.Name,
		Slug:            election.NormalizeSlug(req.Slug),
		Description:     req.Description,
		Publicity:       req.Publicity,
		StartDate:       req.StartDate.In(loc),
		EndDate:         req.EndDate.In(loc),
		VotingStartHour: *req.VotingStartHour,
		VotingEndHour:   *req.VotingEndHour,
	}

	if err := election.ValidateSlug(e.Slug); err != nil {
		writeError(w, err, "Invalid slug")
		return
	}
	if err := election.ValidateSchedule(e.Schedule()); err != nil {
		writeError(w, err, "Invalid schedule")
		return
	}

	if err := h.store.CreateElection(r.Context(), e); err != nil {
		writeError(w, err, "Failed to create election")
		return
	}

	adminKey := auth.GenerateAdminKey(e.ID, h.cfg.AdminKeySalt)

	slog.Info("election created", "election_id", e.ID, "slug", e.Slug)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		Election: *e,
		AdminKey: adminKey,
	})
}

// GetElection handles GET /elections/{slug}
// Returns the public election page, subject to the election's publicity.
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.cfg.Location())

	e, ok := loadVisibleElection(w, r, h.store, h.cfg, now)
	if !ok {
		return
	}

	page, err := h.page(r.Context(), e, now)
	if err != nil {
		writeError(w, err, "Failed to load election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, page)
}

// GetElectionAdmin handles GET /elections/{id}/admin
func (h *ElectionHandler) GetElectionAdmin(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	page, err := h.page(r.Context(), e, h.now().In(h.cfg.Location()))
	if err != nil {
		writeError(w, err, "Failed to load election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, page)
}

func (h *ElectionHandler) page(ctx context.Context, e *models.Election, now time.Time) (models.ElectionPageResponse, error) {
	positions, err := h.store.ListPositions(ctx, e.ID)
	if err != nil {
		return models.ElectionPageResponse{}, err
	}
	partylists, err := h.store.ListPartylists(ctx, e.ID)
	if err != nil {
		return models.ElectionPageResponse{}, err
	}
	candidates, err := h.store.ListCandidates(ctx, e.ID)
	if err != nil {
		return models.ElectionPageResponse{}, err
	}

	return models.ElectionPageResponse{
		Election:   *e,
		Status:     electionStatus(scheduleIn(e, now.Location()), now),
		Positions:  positions,
		Partylists: partylists,
		Candidates: candidates,
	}, nil
}

// UpdateSettings handles PATCH /elections/{id}/settings
// Dates are locked for the whole ongoing period, including outside the
// daily voting window. Everything else stays editable.
func (h *ElectionHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	current, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	var req models.UpdateElectionSettingsRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	loc := h.cfg.Location()
	next := *current
	if req.Name != nil {
		next.Name = *req.Name
	}
	if req.Slug != nil {
		next.Slug = election.NormalizeSlug(*req.Slug)
		if err := election.ValidateSlug(next.Slug); err != nil {
			writeError(w, err, "Invalid slug")
			return
		}
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.Publicity != nil {
		next.Publicity = *req.Publicity
	}
	if req.StartDate != nil {
		next.StartDate = req.StartDate.In(loc)
	}
	if req.EndDate != nil {
		next.EndDate = req.EndDate.In(loc)
	}
	if req.VotingStartHour != nil {
		next.VotingStartHour = *req.VotingStartHour
	}
	if req.VotingEndHour != nil {
		next.VotingEndHour = *req.VotingEndHour
	}

	now := h.now().In(loc)
	if err := election.CheckScheduleChange(scheduleIn(current, loc), scheduleIn(&next, loc), now); err != nil {
		writeError(w, err, "Invalid schedule")
		return
	}

	if err := h.store.UpdateElectionSettings(r.Context(), &next); err != nil {
		writeError(w, err, "Failed to update election")
		return
	}

	slog.Info("election settings updated", "election_id", next.ID)

	middleware.JSONResponse(w, http.StatusOK, next)
}

// DeleteElection handles DELETE /elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	if err := h.store.SoftDeleteElection(r.Context(), e.ID); err != nil {
		writeError(w, err, "Failed to delete election")
		return
	}

	slog.Info("election deleted", "election_id", e.ID)

	w.WriteHeader(http.StatusNoContent)
}
