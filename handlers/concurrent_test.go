// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/eboto/models"
	"github.com/danielhkuo/eboto/testutil"
)

// TestConcurrentBallotSubmissions verifies that multiple simultaneous ballot
// submissions from different voters don't cause data corruption or duplicates
func TestConcurrentBallotSubmissions(t *testing.T) {
	f := newBallotFixture(t, models.PublicityPublic)
	h := f.votingHandler(openAt)

	numVoters := 10
	voterTokens := make([]string, numVoters)

	// Pre-create all voters
	for i := 0; i < numVoters; i++ {
		_, voterTokens[i] = f.newVoter(t)
	}

	// Track results
	var successCount atomic.Int32
	var wg sync.WaitGroup

	// Submit all ballots concurrently
	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			sel := map[string][]string{
				f.president: {[]string{f.presA, f.presB}[voterIdx%2]},
				f.senator:   {f.senators[voterIdx%4]},
			}
			w := submitBallot(h, "student-council", voterTokens[voterIdx], sel)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	// All submissions should succeed
	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	// Verify database has exactly numVoters ballots
	if n := testutil.CountRows(t, f.db, "ballot"); n != numVoters {
		t.Errorf("Expected %d ballots in database, got %d", numVoters, n)
	}
	if n := testutil.CountRows(t, f.db, "vote"); n != numVoters*2 {
		t.Errorf("Expected %d votes in database, got %d", numVoters*2, n)
	}
}

// TestConcurrentDuplicateSubmissions verifies that when one voter submits
// several ballots at once, exactly one is recorded and the rest are told
// they already voted.
func TestConcurrentDuplicateSubmissions(t *testing.T) {
	f := newBallotFixture(t, models.PublicityPublic)
	h := f.votingHandler(openAt)
	_, token := f.newVoter(t)

	numAttempts := 8
	var created, conflicts atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(attempt int) {
			defer wg.Done()

			sel := map[string][]string{
				f.president: {f.presA},
				f.senator:   f.senators[:1+attempt%3],
			}
			w := submitBallot(h, "student-council", token, sel)

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			default:
				t.Errorf("attempt %d: unexpected status %d: %s", attempt, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted ballot, got %d", created.Load())
	}
	if conflicts.Load() != int32(numAttempts-1) {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflicts.Load())
	}

	if n := testutil.CountRows(t, f.db, "ballot"); n != 1 {
		t.Errorf("Expected 1 ballot in database, got %d", n)
	}

	// Only the winning ballot's votes exist
	var orphans int
	err := f.db.QueryRow(`
		SELECT COUNT(*) FROM vote v
		WHERE NOT EXISTS (SELECT 1 FROM ballot b WHERE b.id = v.ballot_id)
	`).Scan(&orphans)
	if err != nil {
		t.Fatalf("Failed to count orphan votes: %v", err)
	}
	if orphans != 0 {
		t.Errorf("Expected no votes without a ballot, got %d", orphans)
	}
}
