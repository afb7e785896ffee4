package scoring

import (
	"context"
	"testing"

	"github.com/sportsfest/livescore/internal/domain"
	"github.com/sportsfest/livescore/internal/engine"
)

func TestAddFoulValidation(t *testing.T) {
	c, _, _ := newTestCoordinator()
	ctx := context.Background()
	m := createLiveMatch(t, c, domain.SportFootball)

	_, err := c.AddFoul(ctx, m.ID, domain.FoulRecord{Team: domain.TeamA, FoulType: domain.FoulYellowCard})
	if engine.ErrorKind(err) != engine.KindInvalidAction {
		t.Fatalf("expected INVALID_ACTION without player name, got %v", err)
	}

	_, err = c.AddFoul(ctx, m.ID, domain.FoulRecord{PlayerName: "Rossi", FoulType: domain.FoulYellowCard})
	if engine.ErrorKind(err) != engine.KindInvalidAction {
		t.Fatalf("expected INVALID_ACTION without team, got %v", err)
	}

	_, err = c.AddFoul(ctx, "nope", domain.FoulRecord{
		Team: domain.TeamA, PlayerName: "Rossi", FoulType: domain.FoulYellowCard,
	})
	if engine.ErrorKind(err) != engine.KindMatchNotFound {
		t.Fatalf("expected MATCH_NOT_FOUND, got %v", err)
	}
}

func TestCardFoulsUpdateCounters(t *testing.T) {
	c, store, _ := newTestCoordinator()
	ctx := context.Background()
	m := createLiveMatch(t, c, domain.SportFootball)

	rec, err := c.AddFoul(ctx, m.ID, domain.FoulRecord{
		Team: domain.TeamA, PlayerName: "Rossi", FoulType: domain.FoulYellowCard, GameTime: 12,
	})
	if err != nil {
		t.Fatalf("AddFoul: %v", err)
	}
	if rec.ID == "" {
		t.Errorf("foul record has no id")
	}

	stored, _ := store.GetMatch(ctx, m.ID)
	if stored.Timed.CardsA.Yellow != 1 {
		t.Errorf("yellow cards A = %d, want 1", stored.Timed.CardsA.Yellow)
	}
	if len(stored.Fouls) != 1 {
		t.Errorf("ledger has %d entries, want 1", len(stored.Fouls))
	}

	// Non-card fouls leave the counters alone.
	if _, err := c.AddFoul(ctx, m.ID, domain.FoulRecord{
		Team: domain.TeamB, PlayerName: "Verdi", FoulType: domain.FoulPersonal,
	}); err != nil {
		t.Fatalf("AddFoul personal: %v", err)
	}
	stored, _ = store.GetMatch(ctx, m.ID)
	if stored.Timed.CardsB.Yellow != 0 || stored.Timed.CardsB.Red != 0 {
		t.Errorf("personal foul touched card counters: %+v", stored.Timed.CardsB)
	}
}

func TestRemoveFoulRollsBackCard(t *testing.T) {
	c, store, _ := newTestCoordinator()
	ctx := context.Background()
	m := createLiveMatch(t, c, domain.SportFootball)

	rec, err := c.AddFoul(ctx, m.ID, domain.FoulRecord{
		Team: domain.TeamB, PlayerName: "Bianchi", FoulType: domain.FoulRedCard,
	})
	if err != nil {
		t.Fatalf("AddFoul: %v", err)
	}

	if err := c.RemoveFoul(ctx, m.ID, rec.ID); err != nil {
		t.Fatalf("RemoveFoul: %v", err)
	}

	stored, _ := store.GetMatch(ctx, m.ID)
	if len(stored.Fouls) != 0 {
		t.Errorf("ledger has %d entries after removal, want 0", len(stored.Fouls))
	}
	if stored.Timed.CardsB.Red != 0 {
		t.Errorf("red cards B = %d after rollback, want 0", stored.Timed.CardsB.Red)
	}

	if err := c.RemoveFoul(ctx, m.ID, rec.ID); engine.ErrorKind(err) != engine.KindFoulNotFound {
		t.Errorf("expected FOUL_NOT_FOUND on double removal, got %v", err)
	}
}

func TestSuspensionsDerivedFromLedger(t *testing.T) {
	c, _, _ := newTestCoordinator()
	ctx := context.Background()
	m := createLiveMatch(t, c, domain.SportFootball)

	// One yellow is not a suspension.
	c.AddFoul(ctx, m.ID, domain.FoulRecord{Team: domain.TeamA, PlayerName: "Rossi", FoulType: domain.FoulYellowCard})
	suspended, err := c.Suspensions(ctx, m.ID)
	if err != nil {
		t.Fatalf("Suspensions: %v", err)
	}
	if len(suspended) != 0 {
		t.Fatalf("suspended after one yellow = %d, want 0", len(suspended))
	}

	// Second yellow suspends.
	c.AddFoul(ctx, m.ID, domain.FoulRecord{Team: domain.TeamA, PlayerName: "Rossi", FoulType: domain.FoulYellowCard})
	// A straight red suspends too.
	c.AddFoul(ctx, m.ID, domain.FoulRecord{Team: domain.TeamB, PlayerName: "Verdi", FoulType: domain.FoulRedCard})

	suspended, err = c.Suspensions(ctx, m.ID)
	if err != nil {
		t.Fatalf("Suspensions: %v", err)
	}
	if len(suspended) != 2 {
		t.Fatalf("suspended = %d, want 2", len(suspended))
	}
	if suspended[0].PlayerName != "Rossi" || suspended[1].PlayerName != "Verdi" {
		t.Errorf("suspension order = %s, %s; want Rossi, Verdi", suspended[0].PlayerName, suspended[1].PlayerName)
	}
}

func TestFoulsOnSetBasedMatch(t *testing.T) {
	c, store, _ := newTestCoordinator()
	ctx := context.Background()
	m := createLiveMatch(t, c, domain.SportBadminton)

	// No timed state; the ledger still records the foul.
	if _, err := c.AddFoul(ctx, m.ID, domain.FoulRecord{
		Team: domain.TeamA, PlayerName: "Lee", FoulType: domain.FoulUnsportsman,
	}); err != nil {
		t.Fatalf("AddFoul: %v", err)
	}
	stored, _ := store.GetMatch(ctx, m.ID)
	if len(stored.Fouls) != 1 {
		t.Errorf("ledger has %d entries, want 1", len(stored.Fouls))
	}
}
