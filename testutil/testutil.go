// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/eboto/auth"
	"github.com/danielhkuo/eboto/cliparse"
	"github.com/danielhkuo/eboto/db"
	"github.com/danielhkuo/eboto/election"
	"github.com/danielhkuo/eboto/models"
	"github.com/danielhkuo/eboto/store"
)

// TestDBURL is the connection string for the test database
const TestDBURL = ":memory:"

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	cfg := cliparse.Default()
	cfg.DatabaseURL = TestDBURL
	cfg.AdminKeySalt = "test-admin-salt"
	cfg.VoterTokenSecret = "test-voter-secret"
	cfg.IPHashSalt = "test-ip-salt"
	cfg.TimeZone = "UTC"
	return cfg
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// At returns the given UTC instant.
func At(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SampleSchedule runs 2024-01-01 through 2024-01-05, voting 08:00-17:00.
func SampleSchedule() election.Schedule {
	return election.Schedule{
		StartDate:       Date(2024, time.January, 1),
		EndDate:         Date(2024, time.January, 5),
		VotingStartHour: 8,
		VotingEndHour:   17,
	}
}

// CreateTestElection creates an election and returns it with its admin key.
func CreateTestElection(t *testing.T, conn *sql.DB, cfg cliparse.Config, slug, publicity string, sched election.Schedule) (*models.Election, string) {
	t.Helper()

	e := &models.Election{
		Name:            "Test Election",
		Slug:            slug,
		Description:     "A test election",
		Publicity:       publicity,
		StartDate:       sched.StartDate,
		EndDate:         sched.EndDate,
		VotingStartHour: sched.VotingStartHour,
		VotingEndHour:   sched.VotingEndHour,
	}
	if err := store.New(conn).CreateElection(context.Background(), e); err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return e, auth.GenerateAdminKey(e.ID, cfg.AdminKeySalt)
}

// AddTestPosition adds a position and returns its ID
func AddTestPosition(t *testing.T, conn *sql.DB, electionID, name string, min, max int) string {
	t.Helper()

	p := &models.Position{ElectionID: electionID, Name: name, Min: min, Max: max}
	if err := store.New(conn).CreatePosition(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return p.ID
}

// AddTestCandidate adds a candidate under the default partylist and
// returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, positionID, slug string) string {
	t.Helper()

	c := &models.Candidate{
		ElectionID: electionID,
		PositionID: positionID,
		Slug:       slug,
		FirstName:  "Juan",
		LastName:   slug,
	}
	if err := store.New(conn).CreateCandidate(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return c.ID
}

// AddTestVoter registers a voter and returns the voter ID and a voter token
// valid from a year before until a year after the election.
func AddTestVoter(t *testing.T, conn *sql.DB, cfg cliparse.Config, e *models.Election, email string) (voterID, token string) {
	t.Helper()

	v := &models.Voter{ElectionID: e.ID, Email: email}
	if err := store.New(conn).CreateVoter(context.Background(), v); err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	token, err := auth.IssueVoterToken(cfg.VoterTokenSecret, e.ID, v.ID,
		e.StartDate.AddDate(-1, 0, 0), election.EndBoundary(e.Schedule()).AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("Failed to issue voter token: %v", err)
	}

	return v.ID, token
}

// SubmitTestBallot commits a ballot for the voter directly through the store
func SubmitTestBallot(t *testing.T, conn *sql.DB, electionID, voterID string, candidateIDs ...string) string {
	t.Helper()

	b := &models.Ballot{ElectionID: electionID, VoterID: voterID, SubmittedAt: time.Now()}
	if err := store.New(conn).CommitBallot(context.Background(), b, candidateIDs); err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	return b.ID
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
