// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/danielhkuo/eboto/cliparse"
	"github.com/danielhkuo/eboto/middleware"
	"github.com/danielhkuo/eboto/models"
	"github.com/danielhkuo/eboto/store"
)

type ResultsHandler struct {
	store *store.Store
	cfg   cliparse.Config
	now   func() time.Time
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: store.New(db), cfg: cfg, now: time.Now}
}

// GetResults handles GET /elections/{slug}/results
// Counts are live; who may read them follows the election's publicity.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.cfg.Location())

	e, ok := loadVisibleElection(w, r, h.store, h.cfg, now)
	if !ok {
		return
	}

	ballots, positions, err := h.store.Tally(r.Context(), e.ID)
	if err != nil {
		writeError(w, err, "Failed to compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		ElectionID:  e.ID,
		BallotCount: ballots,
		ComputedAt:  now,
		Positions:   positions,
	})
}
