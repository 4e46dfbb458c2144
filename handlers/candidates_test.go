// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/eboto/models"
	"github.com/danielhkuo/eboto/testutil"
)

func TestPartylists(t *testing.T) {
	f := newBallotFixture(t, models.PublicityPublic)
	handler := NewCandidateHandler(f.db, f.cfg)
	base := "/elections/" + f.election.ID + "/partylists"
	ids := map[string]string{"id": f.election.ID}

	create := func(body any) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.CreatePartylist(w, adminRequest("POST", base, f.adminKey, body, ids))
		return w
	}
	remove := func(partylistID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.DeletePartylist(w, adminRequest("DELETE", base+"/"+partylistID, f.adminKey, nil,
			map[string]string{"id": f.election.ID, "partylistID": partylistID}))
		return w
	}

	w := create(models.CreatePartylistRequest{Name: "Student Alliance", Abbreviation: "sa"})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var alliance models.Partylist
	testutil.AssertJSON(t, w, &alliance)
	if alliance.Abbreviation != "SA" || alliance.IsDefault {
		t.Errorf("Unexpected partylist: %+v", alliance)
	}

	testutil.AssertStatus(t, create(models.CreatePartylistRequest{Name: "X", Abbreviation: "X"}), http.StatusBadRequest)

	w = httptest.NewRecorder()
	handler.ListPartylists(w, adminRequest("GET", base, f.adminKey, nil, ids))
	testutil.AssertStatus(t, w, http.StatusOK)

	var partylists []models.Partylist
	testutil.AssertJSON(t, w, &partylists)
	if len(partylists) != 2 {
		t.Fatalf("Expected 2 partylists, got %d", len(partylists))
	}
	if !partylists[0].IsDefault || partylists[0].Name != models.DefaultPartylistName {
		t.Errorf("Expected default partylist first, got %+v", partylists[0])
	}

	// Fixture candidates all run under the default partylist
	testutil.AssertStatus(t, remove(partylists[0].ID), http.StatusConflict)

	// A partylist with candidates cannot be removed
	cw := httptest.NewRecorder()
	handler.CreateCandidate(cw, adminRequest("POST", "/elections/"+f.election.ID+"/candidates", f.adminKey,
		models.CreateCandidateRequest{
			FirstName:   "Maria",
			LastName:    "Santos",
			Slug:        "maria-santos",
			PositionID:  f.senator,
			PartylistID: alliance.ID,
		}, ids))
	testutil.AssertStatus(t, cw, http.StatusCreated)

	var maria models.Candidate
	testutil.AssertJSON(t, cw, &maria)
	testutil.AssertStatus(t, remove(alliance.ID), http.StatusConflict)

	dw := httptest.NewRecorder()
	handler.DeleteCandidate(dw, adminRequest("DELETE", "/elections/"+f.election.ID+"/candidates/"+maria.ID, f.adminKey, nil,
		map[string]string{"id": f.election.ID, "candidateID": maria.ID}))
	testutil.AssertStatus(t, dw, http.StatusNoContent)

	testutil.AssertStatus(t, remove(alliance.ID), http.StatusNoContent)
	testutil.AssertStatus(t, remove(alliance.ID), http.StatusNotFound)
}

func TestCreateCandidate(t *testing.T) {
	f := newBallotFixture(t, models.PublicityPublic)
	handler := NewCandidateHandler(f.db, f.cfg)

	other, _ := testutil.CreateTestElection(t, f.db, f.cfg, "other-election", models.PublicityPublic, testutil.SampleSchedule())
	foreignPosition := testutil.AddTestPosition(t, f.db, other.ID, "Governor", 1, 1)

	tests := []struct {
		name           string
		requestBody    models.CreateCandidateRequest
		expectedStatus int
		checkResponse  func(t *testing.T, c models.Candidate)
	}{
		{
			name: "full candidate",
			requestBody: models.CreateCandidateRequest{
				FirstName:  "Jose",
				MiddleName: "Protacio",
				LastName:   "Rizal",
				Slug:       "Jose-Rizal",
				ImageURL:   "https://example.com/rizal.png",
				PositionID: f.president,
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, c models.Candidate) {
				if c.Slug != "jose-rizal" {
					t.Errorf("Expected normalized slug, got %q", c.Slug)
				}
				if c.MiddleName == nil || *c.MiddleName != "Protacio" {
					t.Errorf("Expected middle name, got %v", c.MiddleName)
				}
				if c.PartylistID == "" {
					t.Error("Expected default partylist to be assigned")
				}
				if c.DisplayName() != "Rizal, Jose Protacio" {
					t.Errorf("Unexpected display name %q", c.DisplayName())
				}
			},
		},
		{
			name:           "duplicate slug",
			requestBody:    models.CreateCandidateRequest{FirstName: "Jose", LastName: "Rizal", Slug: "jose-rizal", PositionID: f.senator},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "position from another election",
			requestBody:    models.CreateCandidateRequest{FirstName: "Ana", LastName: "Cruz", Slug: "ana-cruz", PositionID: foreignPosition},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown partylist",
			requestBody:    models.CreateCandidateRequest{FirstName: "Ana", LastName: "Cruz", Slug: "ana-cruz", PositionID: f.senator, PartylistID: "missing"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad image url",
			requestBody:    models.CreateCandidateRequest{FirstName: "Ana", LastName: "Cruz", Slug: "ana-cruz", PositionID: f.senator, ImageURL: "not a url"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing last name",
			requestBody:    models.CreateCandidateRequest{FirstName: "Ana", Slug: "ana-cruz", PositionID: f.senator},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := adminRequest("POST", "/elections/"+f.election.ID+"/candidates", f.adminKey, tt.requestBody,
				map[string]string{"id": f.election.ID})
			w := httptest.NewRecorder()

			handler.CreateCandidate(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil && w.Code == tt.expectedStatus {
				var c models.Candidate
				testutil.AssertJSON(t, w, &c)
				tt.checkResponse(t, c)
			}
		})
	}
}
