package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sportsfest/livescore/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMatchRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	m := &domain.Match{
		ID:        "m1",
		Sport:     domain.SportCricket,
		TeamA:     "d1",
		TeamB:     "d2",
		Status:    domain.StatusLive,
		Category:  domain.CategoryFinal,
		Venue:     "Main Ground",
		CreatedAt: now,
		UpdatedAt: now,
		Cricket: &domain.CricketState{
			CurrentInnings: 1,
			BattingTeam:    domain.TeamA,
			MaxOvers:       20,
			ScoreA:         domain.CricketScore{Runs: 42, Wickets: 2, Overs: 5, Balls: 3},
		},
	}

	if err := store.SaveMatch(ctx, m); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	got, err := store.GetMatch(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if got == nil {
		t.Fatal("GetMatch returned nil for a stored match")
	}
	if got.Sport != domain.SportCricket || got.Cricket == nil {
		t.Errorf("sport state lost on round trip: %+v", got)
	}
	if got.Cricket.ScoreA.Runs != 42 {
		t.Errorf("runs = %d, want 42", got.Cricket.ScoreA.Runs)
	}
	if got.Venue != "Main Ground" {
		t.Errorf("venue = %q, want Main Ground", got.Venue)
	}
}

func TestGetMatchMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetMatch(context.Background(), "absent")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for an absent match, got %+v", got)
	}
}

func TestSaveMatchUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m := &domain.Match{ID: "m1", Sport: domain.SportFootball, Status: domain.StatusScheduled,
		Timed: &domain.TimedState{Period: 1, MaxPeriods: 2}}
	if err := store.SaveMatch(ctx, m); err != nil {
		t.Fatalf("insert: %v", err)
	}

	m.Status = domain.StatusLive
	m.Timed.ScoreA = 2
	if err := store.SaveMatch(ctx, m); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := store.GetMatch(ctx, "m1")
	if got.Status != domain.StatusLive || got.Timed.ScoreA != 2 {
		t.Errorf("upsert did not replace the document: %+v", got)
	}

	matches, err := store.ListMatches(ctx, MatchFilter{})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("list has %d matches after upsert, want 1", len(matches))
	}
}

func TestListMatchesFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []*domain.Match{
		{ID: "m1", Sport: domain.SportFootball, Status: domain.StatusLive},
		{ID: "m2", Sport: domain.SportFootball, Status: domain.StatusCompleted},
		{ID: "m3", Sport: domain.SportCricket, Status: domain.StatusLive},
	}
	for _, m := range seed {
		if err := store.SaveMatch(ctx, m); err != nil {
			t.Fatalf("SaveMatch %s: %v", m.ID, err)
		}
	}

	live, err := store.ListMatches(ctx, MatchFilter{Status: domain.StatusLive})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(live) != 2 {
		t.Errorf("live matches = %d, want 2", len(live))
	}

	football, err := store.ListMatches(ctx, MatchFilter{Sport: string(domain.SportFootball), Status: domain.StatusLive})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(football) != 1 || football[0].ID != "m1" {
		t.Errorf("filtered matches = %+v, want only m1", football)
	}

	limited, err := store.ListMatches(ctx, MatchFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited matches = %d, want 2", len(limited))
	}
}

func TestDeleteMatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	m := &domain.Match{ID: "m1", Sport: domain.SportFootball, Status: domain.StatusLive}
	store.SaveMatch(ctx, m)

	if err := store.DeleteMatch(ctx, "m1"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}
	if err := store.DeleteMatch(ctx, "m1"); err == nil {
		t.Errorf("expected error deleting a missing match")
	}
}

func TestDepartmentCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d := &domain.Department{ID: "d1", Name: "Mechanical", Color: "#ff6600"}
	if err := store.CreateDepartment(ctx, d); err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}

	// Duplicate name must hit the unique constraint.
	dup := &domain.Department{ID: "d2", Name: "Mechanical"}
	if err := store.CreateDepartment(ctx, dup); err == nil {
		t.Errorf("expected unique constraint error for duplicate name")
	}

	got, err := store.GetDepartment(ctx, "d1")
	if err != nil {
		t.Fatalf("GetDepartment: %v", err)
	}
	if got == nil || got.Name != "Mechanical" {
		t.Fatalf("GetDepartment = %+v", got)
	}

	got.Name = "Mechanical Engineering"
	if err := store.UpdateDepartment(ctx, got); err != nil {
		t.Fatalf("UpdateDepartment: %v", err)
	}

	list, err := store.ListDepartments(ctx)
	if err != nil {
		t.Fatalf("ListDepartments: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Mechanical Engineering" {
		t.Errorf("list = %+v", list)
	}

	if err := store.DeleteDepartment(ctx, "d1"); err != nil {
		t.Fatalf("DeleteDepartment: %v", err)
	}
	if absent, _ := store.GetDepartment(ctx, "d1"); absent != nil {
		t.Errorf("department still present after delete")
	}
}

func TestUserLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateUser(ctx, "scorer", "hash1", false); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	user, err := store.GetUserByUsername(ctx, "scorer")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if !user.PasswordChangeRequired {
		t.Errorf("new users must be required to change their password")
	}
	if user.IsAdmin {
		t.Errorf("user should not be admin")
	}

	if err := store.UpdateUserPassword(ctx, user.ID, "hash2"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	user, _ = store.GetUserByID(ctx, user.ID)
	if user.PasswordChangeRequired {
		t.Errorf("password change flag not cleared after update")
	}
	if user.PasswordHash != "hash2" {
		t.Errorf("hash = %q, want hash2", user.PasswordHash)
	}

	if err := store.UpdateUserAdmin(ctx, user.ID, true); err != nil {
		t.Fatalf("UpdateUserAdmin: %v", err)
	}
	user, _ = store.GetUserByID(ctx, user.ID)
	if !user.IsAdmin {
		t.Errorf("admin flag not set")
	}

	if err := store.DeleteUser(ctx, "scorer"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := store.DeleteUser(ctx, "scorer"); err == nil {
		t.Errorf("expected error deleting a missing user")
	}
}
