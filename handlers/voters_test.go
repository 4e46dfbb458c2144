// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/eboto/auth"
	"github.com/danielhkuo/eboto/models"
	"github.com/danielhkuo/eboto/testutil"
)

func voterHandler(f *ballotFixture, now time.Time) *VoterHandler {
	h := NewVoterHandler(f.db, f.cfg)
	h.now = testutil.FixedClock(now)
	return h
}

func addVoter(h *VoterHandler, f *ballotFixture, email string) *httptest.ResponseRecorder {
	req := adminRequest("POST", "/elections/"+f.election.ID+"/voters", f.adminKey,
		models.AddVoterRequest{Email: email}, map[string]string{"id": f.election.ID})
	w := httptest.NewRecorder()
	h.AddVoter(w, req)
	return w
}

func TestAddVoter(t *testing.T) {
	f := newBallotFixture(t, models.PublicityPublic)
	registeredAt := testutil.At(2023, time.December, 20, 9, 0)
	h := voterHandler(f, registeredAt)

	tests := []struct {
		name           string
		email          string
		expectedStatus int
	}{
		{"new voter", "Juan.Dela.Cruz@Example.com", http.StatusCreated},
		{"same email different case", "juan.dela.cruz@example.com", http.StatusConflict},
		{"second voter", "maria@example.com", http.StatusCreated},
		{"invalid email", "not-an-email", http.StatusBadRequest},
		{"missing email", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := addVoter(h, f, tt.email)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	w := addVoter(h, f, "pedro@example.com")
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AddVoterResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Voter.Email != "pedro@example.com" || resp.Voter.HasVoted {
		t.Errorf("Unexpected voter: %+v", resp.Voter)
	}

	claims, err := auth.ParseVoterToken(f.cfg.VoterTokenSecret, resp.VoterToken, openAt)
	if err != nil {
		t.Fatalf("Issued token does not parse: %v", err)
	}
	if claims.Subject != resp.Voter.ID || claims.ElectionID != f.election.ID {
		t.Errorf("Token claims do not match voter: %+v", claims)
	}

	// Tokens outlive the election so that results stay reachable
	if _, err := auth.ParseVoterToken(f.cfg.VoterTokenSecret, resp.VoterToken, testutil.Date(2024, time.January, 20)); err != nil {
		t.Errorf("Token expired too early: %v", err)
	}
	if _, err := auth.ParseVoterToken(f.cfg.VoterTokenSecret, resp.VoterToken, testutil.Date(2024, time.March, 1)); err == nil {
		t.Error("Expected token to expire after the grace period")
	}
}

func TestAddVoterAfterElectionEnded(t *testing.T) {
	f := newBallotFixture(t, models.PublicityPublic)
	late := testutil.At(2024, time.June, 1, 12, 0)
	h := voterHandler(f, late)

	w := addVoter(h, f, "late@example.com")
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AddVoterResponse
	testutil.AssertJSON(t, w, &resp)
	if _, err := auth.ParseVoterToken(f.cfg.VoterTokenSecret, resp.VoterToken, late.Add(23*time.Hour)); err != nil {
		t.Errorf("Expected token valid for at least a day, got %v", err)
	}
}

func TestListVoters(t *testing.T) {
	f := newBallotFixture(t, models.PublicityPublic)
	h := voterHandler(f, openAt)

	votedID, token := f.newVoter(t)
	f.newVoter(t)
	testutil.AssertStatus(t, submitBallot(f.votingHandler(openAt), "student-council", token,
		map[string][]string{f.president: {f.presA}}), http.StatusCreated)

	req := adminRequest("GET", "/elections/"+f.election.ID+"/voters", f.adminKey, nil,
		map[string]string{"id": f.election.ID})
	w := httptest.NewRecorder()
	h.ListVoters(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var voters []models.Voter
	testutil.AssertJSON(t, w, &voters)
	if len(voters) != 2 {
		t.Fatalf("Expected 2 voters, got %d", len(voters))
	}
	for _, v := range voters {
		if v.HasVoted != (v.ID == votedID) {
			t.Errorf("Voter %s has_voted = %v", v.Email, v.HasVoted)
		}
	}

	req = adminRequest("GET", "/elections/"+f.election.ID+"/voters", "wrong-key", nil,
		map[string]string{"id": f.election.ID})
	w = httptest.NewRecorder()
	h.ListVoters(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestReissueToken(t *testing.T) {
	f := newBallotFixture(t, models.PublicityPublic)
	h := voterHandler(f, openAt)
	voterID, _ := f.newVoter(t)

	reissue := func(id string) *httptest.ResponseRecorder {
		req := adminRequest("POST", "/elections/"+f.election.ID+"/voters/"+id+"/token", f.adminKey, nil,
			map[string]string{"id": f.election.ID, "voterID": id})
		w := httptest.NewRecorder()
		h.ReissueToken(w, req)
		return w
	}

	w := reissue(voterID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AddVoterResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Voter.ID != voterID {
		t.Errorf("Expected voter %s, got %s", voterID, resp.Voter.ID)
	}

	// The new token is accepted for voting
	testutil.AssertStatus(t, submitBallot(f.votingHandler(openAt), "student-council", resp.VoterToken,
		map[string][]string{f.president: {f.presB}}), http.StatusCreated)

	testutil.AssertStatus(t, reissue("missing"), http.StatusNotFound)
}

func TestDeleteVoter(t *testing.T) {
	f := newBallotFixture(t, models.PublicityPublic)
	h := voterHandler(f, openAt)
	voterID, token := f.newVoter(t)

	remove := func() *httptest.ResponseRecorder {
		req := adminRequest("DELETE", "/elections/"+f.election.ID+"/voters/"+voterID, f.adminKey, nil,
			map[string]string{"id": f.election.ID, "voterID": voterID})
		w := httptest.NewRecorder()
		h.DeleteVoter(w, req)
		return w
	}

	testutil.AssertStatus(t, remove(), http.StatusNoContent)
	testutil.AssertStatus(t, remove(), http.StatusNotFound)

	// The removed voter's token no longer works
	testutil.AssertStatus(t, submitBallot(f.votingHandler(openAt), "student-council", token,
		map[string][]string{f.president: {f.presA}}), http.StatusUnauthorized)

	// The email can be registered again
	testutil.AssertStatus(t, addVoter(h, f, "voter1@example.com"), http.StatusCreated)
}
