// Package scoring owns the write path for match documents: it serializes
// updates per match, dispatches actions to the rule engines, persists the
// result and fans the updated document out on the broadcast bus.
package scoring

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sportsfest/livescore/internal/domain"
	"github.com/sportsfest/livescore/internal/engine"
)

// Store is the match document store. GetMatch returns (nil, nil) when no
// document exists; every call returns a freshly decoded document, so a caller
// may mutate the result freely before deciding to save it.
type Store interface {
	GetMatch(ctx context.Context, id string) (*domain.Match, error)
	SaveMatch(ctx context.Context, m *domain.Match) error
	DeleteMatch(ctx context.Context, id string) error
}

// Publisher pushes events to all subscribed viewers. Publishing is
// best-effort and must never block the caller.
type Publisher interface {
	Publish(event string, payload interface{}) error
}

// Coordinator guarantees at-most-one in-flight write per match while letting
// different matches proceed concurrently.
type Coordinator struct {
	store   Store
	bus     Publisher
	engines *engine.Registry
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a coordinator. now is injectable for tests and defaults to
// time.Now.
func New(store Store, bus Publisher, engines *engine.Registry, now func() time.Time) *Coordinator {
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		store:   store,
		bus:     bus,
		engines: engines,
		now:     now,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lockMatch acquires the per-match mutex, creating it on first use.
func (c *Coordinator) lockMatch(id string) func() {
	c.mu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// HandleUpdate applies one scoring action to a match: load, validate through
// the sport's rule engine, persist, broadcast. On a validation error the
// stored document is left untouched and the error is surfaced verbatim.
func (c *Coordinator) HandleUpdate(ctx context.Context, matchID string, a domain.Action) (*domain.Match, error) {
	unlock := c.lockMatch(matchID)
	defer unlock()

	m, err := c.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("loading match %s: %w", matchID, err)
	}
	if m == nil {
		return nil, engine.Errf(engine.KindMatchNotFound, "no match with id %s", matchID)
	}
	if m.Status == domain.StatusCompleted {
		return nil, engine.Errf(engine.KindMatchNotLive, "match is completed, scoring is frozen")
	}
	if m.Status == domain.StatusScheduled && !a.PreLiveAllowed() {
		return nil, engine.Errf(engine.KindMatchNotLive, "match has not started")
	}

	eng, ok := c.engines.Resolve(m, a)
	if !ok {
		return nil, engine.Errf(engine.KindUnsupportedAction, "action %q not supported for sport %s", a.Kind, m.Sport)
	}

	res, err := eng.Apply(m, a)
	if err != nil {
		return nil, err
	}

	if res.Decided {
		m.Status = domain.StatusCompleted
		m.Winner = m.TeamID(res.Winner)
	}
	m.UpdatedAt = c.now().UTC()

	if err := c.store.SaveMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("saving match %s: %w", matchID, err)
	}
	c.publish(domain.EventMatchUpdate, m)
	return m, nil
}

// CreateMatch registers a new fixture, initializes the sport-specific state
// and broadcasts the lifecycle event.
func (c *Coordinator) CreateMatch(ctx context.Context, m *domain.Match) error {
	if _, ok := domain.Family(m.Sport); !ok {
		return engine.Errf(engine.KindInvalidAction, "unknown sport %q", m.Sport)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Category == "" {
		m.Category = domain.CategoryRegular
	}
	m.Status = domain.StatusScheduled
	initState(m)
	now := c.now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := c.store.SaveMatch(ctx, m); err != nil {
		return fmt.Errorf("creating match: %w", err)
	}
	c.publish(domain.EventMatchCreated, m)
	return nil
}

// Start transitions SCHEDULED -> LIVE. The transition is one-way.
func (c *Coordinator) Start(ctx context.Context, matchID string) (*domain.Match, error) {
	return c.transition(ctx, matchID, func(m *domain.Match) error {
		if m.Status != domain.StatusScheduled {
			return engine.Errf(engine.KindInvalidAction, "match is %s, only a scheduled match can go live", m.Status)
		}
		m.Status = domain.StatusLive
		return nil
	})
}

// Complete transitions a match to COMPLETED, optionally naming the winning
// side. Reverting to LIVE or SCHEDULED is not possible.
func (c *Coordinator) Complete(ctx context.Context, matchID string, winner domain.TeamSide) (*domain.Match, error) {
	return c.transition(ctx, matchID, func(m *domain.Match) error {
		if m.Status == domain.StatusCompleted {
			return engine.Errf(engine.KindInvalidAction, "match is already completed")
		}
		m.Status = domain.StatusCompleted
		if winner.Valid() {
			m.Winner = m.TeamID(winner)
		}
		return nil
	})
}

// transition runs a status mutation under the per-match lock and broadcasts
// the updated document.
func (c *Coordinator) transition(ctx context.Context, matchID string, fn func(*domain.Match) error) (*domain.Match, error) {
	unlock := c.lockMatch(matchID)
	defer unlock()

	m, err := c.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("loading match %s: %w", matchID, err)
	}
	if m == nil {
		return nil, engine.Errf(engine.KindMatchNotFound, "no match with id %s", matchID)
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	m.UpdatedAt = c.now().UTC()
	if err := c.store.SaveMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("saving match %s: %w", matchID, err)
	}
	c.publish(domain.EventMatchUpdate, m)
	return m, nil
}

// DeleteMatch removes the document and broadcasts the lifecycle event so
// viewers drop the match from their boards.
func (c *Coordinator) DeleteMatch(ctx context.Context, matchID string) error {
	unlock := c.lockMatch(matchID)
	defer unlock()

	m, err := c.store.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("loading match %s: %w", matchID, err)
	}
	if m == nil {
		return engine.Errf(engine.KindMatchNotFound, "no match with id %s", matchID)
	}
	if err := c.store.DeleteMatch(ctx, matchID); err != nil {
		return fmt.Errorf("deleting match %s: %w", matchID, err)
	}
	c.publish(domain.EventMatchDeleted, domain.MatchDeletedPayload{MatchID: matchID})
	return nil
}

// publish is fire-and-forget: a slow or failed broadcast never blocks the
// admin's response.
func (c *Coordinator) publish(event string, payload interface{}) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(event, payload); err != nil {
		log.Printf("broadcast %s failed: %v", event, err)
	}
}

// initState attaches the sport-family substructure with tournament defaults.
func initState(m *domain.Match) {
	family, _ := domain.Family(m.Sport)
	switch family {
	case domain.FamilyCricket:
		if m.Cricket == nil {
			m.Cricket = &domain.CricketState{
				CurrentInnings: 1,
				BattingTeam:    domain.TeamA,
				MaxOvers:       20,
			}
		}
	case domain.FamilySetBased:
		if m.Sets == nil {
			m.Sets = &domain.SetState{
				MaxSets:       3,
				CurrentServer: domain.TeamA,
			}
		}
	case domain.FamilyTimed:
		if m.Timed == nil {
			m.Timed = &domain.TimedState{
				Period:     1,
				MaxPeriods: defaultPeriods(m.Sport),
			}
		}
	}
}

func defaultPeriods(s domain.Sport) int {
	switch s {
	case domain.SportBasketball:
		return 4
	case domain.SportChess:
		return 1
	default:
		return 2
	}
}
