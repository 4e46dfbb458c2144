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

type PositionHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewPositionHandler(db *sql.DB, cfg cliparse.Config) *PositionHandler {
	return &PositionHandler{store: store.New(db), cfg: cfg}
}

// CreatePosition handles POST /elections/{id}/positions
func (h *PositionHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	var req models.CreatePositionRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	p := &models.Position{
		ElectionID: e.ID,
		Name:       strings.TrimSpace(req.Name),
		Min:        0,
		Max:        1,
	}
	if req.Min != nil {
		p.Min = *req.Min
	}
	if req.Max != nil {
		p.Max = *req.Max
	}
	if err := validatePosition(p); err != nil {
		writeError(w, err, "Invalid position")
		return
	}

	if err := h.store.CreatePosition(r.Context(), p); err != nil {
		writeError(w, err, "Failed to create position")
		return
	}

	slog.Info("position created", "election_id", e.ID, "position_id", p.ID)

	middleware.JSONResponse(w, http.StatusCreated, p)
}

// ListPositions handles GET /elections/{id}/positions
func (h *PositionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	positions, err := h.store.ListPositions(r.Context(), e.ID)
	if err != nil {
		writeError(w, err, "Failed to list positions")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, positions)
}

// UpdatePosition handles PATCH /elections/{id}/positions/{positionID}
func (h *PositionHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	var req models.UpdatePositionRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		writeError(w, err, "Invalid request")
		return
	}

	p, err := h.store.GetPosition(r.Context(), e.ID, r.PathValue("positionID"))
	if err != nil {
		writeError(w, err, "Failed to load position")
		return
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Min != nil {
		p.Min = *req.Min
	}
	if req.Max != nil {
		p.Max = *req.Max
	}
	if err := validatePosition(p); err != nil {
		writeError(w, err, "Invalid position")
		return
	}

	if err := h.store.UpdatePosition(r.Context(), p); err != nil {
		writeError(w, err, "Failed to update position")
		return
	}

	slog.Info("position updated", "election_id", e.ID, "position_id", p.ID)

	middleware.JSONResponse(w, http.StatusOK, p)
}

// DeletePosition handles DELETE /elections/{id}/positions/{positionID}
func (h *PositionHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	e, ok := loadAdminElection(w, r, h.store, h.cfg)
	if !ok {
		return
	}

	positionID := r.PathValue("positionID")
	if err := h.store.DeletePosition(r.Context(), e.ID, positionID); err != nil {
		writeError(w, err, "Failed to delete position")
		return
	}

	slog.Info("position deleted", "election_id", e.ID, "position_id", positionID)

	w.WriteHeader(http.StatusNoContent)
}

func validatePosition(p *models.Position) error {
	if err := election.ValidatePositionName(p.Name); err != nil {
		return err
	}
	return election.ValidatePositionLimits(p.Min, p.Max)
}
