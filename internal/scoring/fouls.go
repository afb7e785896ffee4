package scoring

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sportsfest/livescore/internal/domain"
	"github.com/sportsfest/livescore/internal/engine"
)

// AddFoul appends a disciplinary record to the match's ledger. Card fouls
// additionally bump the match's card counters, so the mutation runs under the
// same per-match serialization as scoring updates and broadcasts the updated
// document.
func (c *Coordinator) AddFoul(ctx context.Context, matchID string, rec domain.FoulRecord) (*domain.FoulRecord, error) {
	if rec.PlayerName == "" {
		return nil, engine.Errf(engine.KindInvalidAction, "foul requires a player name")
	}
	if !rec.Team.Valid() {
		return nil, engine.Errf(engine.KindInvalidAction, "foul requires a team")
	}

	unlock := c.lockMatch(matchID)
	defer unlock()

	m, err := c.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("loading match %s: %w", matchID, err)
	}
	if m == nil {
		return nil, engine.Errf(engine.KindMatchNotFound, "no match with id %s", matchID)
	}

	rec.ID = uuid.NewString()
	rec.Timestamp = c.now().UTC()
	m.Fouls = append(m.Fouls, rec)
	if domain.IsCardFoul(rec.FoulType) {
		adjustCards(m, rec.Team, rec.FoulType, +1)
	}
	m.UpdatedAt = c.now().UTC()

	if err := c.store.SaveMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("saving match %s: %w", matchID, err)
	}
	c.publish(domain.EventMatchUpdate, m)
	return &rec, nil
}

// RemoveFoul deletes a ledger record by ID, rolling back the card counter if
// the record carried a card.
func (c *Coordinator) RemoveFoul(ctx context.Context, matchID, foulID string) error {
	unlock := c.lockMatch(matchID)
	defer unlock()

	m, err := c.store.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("loading match %s: %w", matchID, err)
	}
	if m == nil {
		return engine.Errf(engine.KindMatchNotFound, "no match with id %s", matchID)
	}

	idx := -1
	for i, f := range m.Fouls {
		if f.ID == foulID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return engine.Errf(engine.KindFoulNotFound, "no foul with id %s on this match", foulID)
	}

	removed := m.Fouls[idx]
	m.Fouls = append(m.Fouls[:idx], m.Fouls[idx+1:]...)
	if domain.IsCardFoul(removed.FoulType) {
		adjustCards(m, removed.Team, removed.FoulType, -1)
	}
	m.UpdatedAt = c.now().UTC()

	if err := c.store.SaveMatch(ctx, m); err != nil {
		return fmt.Errorf("saving match %s: %w", matchID, err)
	}
	c.publish(domain.EventMatchUpdate, m)
	return nil
}

// Suspensions derives the suspended-player list from the ledger. Suspension
// is never stored; it is recomputed on every read.
func (c *Coordinator) Suspensions(ctx context.Context, matchID string) ([]domain.SuspendedPlayer, error) {
	m, err := c.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("loading match %s: %w", matchID, err)
	}
	if m == nil {
		return nil, engine.Errf(engine.KindMatchNotFound, "no match with id %s", matchID)
	}
	return domain.SuspendedPlayers(m.Fouls), nil
}

// adjustCards keeps the timed-state card counters in sync with the ledger.
// Sports without a timed state carry the ledger only.
func adjustCards(m *domain.Match, team domain.TeamSide, foulType string, delta int) {
	if m.Timed == nil {
		return
	}
	cards := &m.Timed.CardsA
	if team == domain.TeamB {
		cards = &m.Timed.CardsB
	}
	if foulType == domain.FoulYellowCard {
		cards.Yellow += delta
		if cards.Yellow < 0 {
			cards.Yellow = 0
		}
	} else {
		cards.Red += delta
		if cards.Red < 0 {
			cards.Red = 0
		}
	}
}
