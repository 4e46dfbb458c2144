// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/eboto/auth"
	"github.com/danielhkuo/eboto/cliparse"
	"github.com/danielhkuo/eboto/election"
	"github.com/danielhkuo/eboto/middleware"
	"github.com/danielhkuo/eboto/models"
	"github.com/danielhkuo/eboto/store"
)

const (
	headerAdminKey   = "X-Admin-Key"
	headerVoterToken = "X-Voter-Token"
)

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a generic 500 using msg.
func writeError(w http.ResponseWriter, err error, msg string) {
	var (
		notFound  *election.NotFoundError
		reqErr    *middleware.RequestError
		cfgErr    *election.ConfigError
		ballotErr *election.BallotError
	)

	switch {
	case errors.As(err, &reqErr):
		middleware.ErrorResponse(w, http.StatusBadRequest, reqErr.Message)
	case errors.As(err, &cfgErr):
		middleware.ErrorResponse(w, http.StatusBadRequest, cfgErr.Error())
	case errors.As(err, &ballotErr):
		middleware.JSONResponse(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:    http.StatusText(http.StatusUnprocessableEntity),
			Message:  "Your ballot has problems that must be fixed before it can be submitted",
			Failures: ballotErr.Failures,
		})
	case errors.Is(err, election.ErrElectionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
	case errors.As(err, &notFound):
		middleware.ErrorResponse(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, election.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, election.ErrVotingWindowClosed):
		middleware.ErrorResponse(w, http.StatusForbidden, "Voting is not open for this election right now")
	case errors.Is(err, election.ErrDuplicateVote):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
	case errors.Is(err, election.ErrElectionOngoing):
		middleware.ErrorResponse(w, http.StatusConflict, "Election dates cannot be changed while the election is ongoing")
	case errors.Is(err, store.ErrAlreadyExists),
		errors.Is(err, store.ErrInUse),
		errors.Is(err, store.ErrDefaultPartylist):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidAdminKey):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
	case errors.Is(err, auth.ErrInvalidToken):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token for this election")
	default:
		slog.Error(msg, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msg)
	}
}

// requireAdmin checks the X-Admin-Key header against electionID and writes
// a 401 when it does not match.
func requireAdmin(w http.ResponseWriter, r *http.Request, electionID string, cfg cliparse.Config) bool {
	if err := auth.ValidateAdminKey(electionID, r.Header.Get(headerAdminKey), cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// loadAdminElection resolves the {id} path value to an active election the
// caller holds the admin key for. On failure the response is already written.
func loadAdminElection(w http.ResponseWriter, r *http.Request, st *store.Store, cfg cliparse.Config) (*models.Election, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return nil, false
	}

	if !requireAdmin(w, r, electionID, cfg) {
		return nil, false
	}

	e, err := st.GetElectionByID(r.Context(), electionID)
	if err != nil {
		writeError(w, err, "Failed to load election")
		return nil, false
	}
	return e, true
}

// authenticateVoter resolves the X-Voter-Token header to an active voter of
// e. Tokens for other elections, expired tokens and removed voters all
// yield auth.ErrInvalidToken.
func authenticateVoter(ctx context.Context, r *http.Request, st *store.Store, cfg cliparse.Config, e *models.Election, now time.Time) (*models.Voter, error) {
	token := r.Header.Get(headerVoterToken)
	if token == "" {
		return nil, auth.ErrInvalidToken
	}

	claims, err := auth.ParseVoterToken(cfg.VoterTokenSecret, token, now)
	if err != nil {
		return nil, err
	}
	if claims.ElectionID != e.ID {
		return nil, auth.ErrInvalidToken
	}

	voter, err := st.GetVoter(ctx, e.ID, claims.Subject)
	if errors.Is(err, election.ErrNotFound) {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return voter, nil
}

// canView applies the election's publicity level to the request.
func canView(r *http.Request, st *store.Store, cfg cliparse.Config, e *models.Election, now time.Time) (bool, error) {
	if e.Publicity == models.PublicityPublic {
		return true, nil
	}
	if auth.ValidateAdminKey(e.ID, r.Header.Get(headerAdminKey), cfg.AdminKeySalt) == nil {
		return true, nil
	}
	if e.Publicity != models.PublicityVotersOnly {
		return false, nil
	}

	_, err := authenticateVoter(r.Context(), r, st, cfg, e, now)
	if errors.Is(err, auth.ErrInvalidToken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// loadVisibleElection resolves the {slug} path value and enforces
// publicity. Hidden elections are reported as missing.
func loadVisibleElection(w http.ResponseWriter, r *http.Request, st *store.Store, cfg cliparse.Config, now time.Time) (*models.Election, bool) {
	slug := election.NormalizeSlug(r.PathValue("slug"))
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return nil, false
	}

	e, err := st.GetElectionBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err, "Failed to load election")
		return nil, false
	}

	ok, err := canView(r, st, cfg, e, now)
	if err != nil {
		writeError(w, err, "Failed to check access")
		return nil, false
	}
	if !ok {
		writeError(w, election.ErrElectionNotFound, "")
		return nil, false
	}
	return e, true
}

// scheduleIn returns the election schedule with its dates expressed in loc,
// so that hour-of-day arithmetic happens in the configured zone.
func scheduleIn(e *models.Election, loc *time.Location) election.Schedule {
	s := e.Schedule()
	s.StartDate = s.StartDate.In(loc)
	s.EndDate = s.EndDate.In(loc)
	return s
}


// electionStatus summarises where the election stands at now.
func electionStatus(s election.Schedule, now time.Time) models.ElectionStatus {
	status := models.ElectionStatus{
		Phase:      election.PhaseAt(s, now),
		Ongoing:    election.IsOngoing(s, now),
		VotingOpen: election.IsVotingOpenNow(s, now),
	}

	next := election.NextWindowOpening(s, now)
	if !next.IsZero() && !status.VotingOpen {
		status.NextOpen = &next
	}

	switch status.Phase {
	case election.PhaseUpcoming:
		status.Message = "Voting opens " + humanize.RelTime(next, now, "ago", "from now")
	case election.PhaseOpen:
		closes := time.Date(now.Year(), now.Month(), now.Day(), s.VotingEndHour, 0, 0, 0, now.Location())
		status.Message = "Voting is open and closes " + humanize.RelTime(closes, now, "ago", "from now")
	case election.PhaseOutsideHours:
		if next.IsZero() {
			status.Message = "Voting has closed for the last day of this election"
		} else {
			status.Message = fmt.Sprintf("Voting is open daily from %02d:00 to %02d:00 and resumes %s",
				s.VotingStartHour, s.VotingEndHour, humanize.RelTime(next, now, "ago", "from now"))
		}
	case election.PhaseEnded:
		status.Message = "Election ended " + humanize.RelTime(election.EndBoundary(s), now, "ago", "from now")
	}
	return status
}
