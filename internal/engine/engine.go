// Package engine holds the per-sport rule engines: pure state transitions
// mapping (current match state, action) to the next state or a validation
// error. Engines perform no I/O; loading, persistence and broadcast belong to
// the scoring coordinator.
package engine

import (
	"fmt"
	"time"

	"github.com/sportsfest/livescore/internal/domain"
)

// Validation error kinds. These are surfaced verbatim to the caller and are
// never retried: they indicate a logical precondition violation, not a
// transient fault.
const (
	KindMatchNotFound      = "MATCH_NOT_FOUND"
	KindMatchNotLive       = "MATCH_NOT_LIVE"
	KindUnsupportedAction  = "UNSUPPORTED_ACTION"
	KindInvalidAction      = "INVALID_ACTION"
	KindNoBatsman          = "NO_BATSMAN"
	KindOverInProgress     = "OVER_IN_PROGRESS"
	KindTossAlreadySet     = "TOSS_ALREADY_SET"
	KindInningsComplete    = "INNINGS_COMPLETE"
	KindSetInProgress      = "SET_IN_PROGRESS"
	KindNoActiveSet        = "NO_ACTIVE_SET"
	KindMatchDecided       = "MATCH_ALREADY_DECIDED"
	KindAllPeriodsComplete = "ALL_PERIODS_COMPLETE"
	KindShootoutInProgress = "SHOOTOUT_IN_PROGRESS"
	KindNoShootout         = "NO_SHOOTOUT"
	KindFoulNotFound       = "FOUL_NOT_FOUND"
)

// Error is a kind-coded validation error.
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Kind + ": " + e.Message
}

// Errf builds a validation error with a formatted message.
func Errf(kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrorKind extracts the kind from an error, or "" if it is not a validation
// error.
func ErrorKind(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// Result reports side effects of a successful transition that the coordinator
// must apply to the match lifecycle.
type Result struct {
	Decided bool            // the match has been decided by this action
	Winner  domain.TeamSide // valid only when Decided
}

// Engine is a rule engine for one sport family. Apply mutates the match's
// scoring substructure in place; the coordinator passes a working copy and
// discards it on error, so a failed action never leaves partial state.
type Engine interface {
	Apply(m *domain.Match, a domain.Action) (Result, error)
}

// Registry resolves the engine for a match and action.
type Registry struct {
	cricket  Engine
	sets     Engine
	timed    Engine
	shootout Engine
}

// NewRegistry builds the engine lookup table. now supplies wall-clock time for
// the timed-period clock and is injectable for tests.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		cricket:  &CricketEngine{},
		sets:     &SetEngine{},
		timed:    &TimedEngine{Now: now},
		shootout: &ShootoutEngine{},
	}
}

// shootoutKinds piggyback on timed-family matches in the knockout stage.
var shootoutKinds = map[string]bool{
	domain.ActionStartShootout: true,
	domain.ActionRecordKick:    true,
	domain.ActionDeclareWinner: true,
}

// Resolve picks the engine for the given match and action kind. The second
// return is false when the sport is unknown or a shootout action targets a
// sport without shootouts.
func (r *Registry) Resolve(m *domain.Match, a domain.Action) (Engine, bool) {
	family, ok := domain.Family(m.Sport)
	if !ok {
		return nil, false
	}
	if shootoutKinds[a.Kind] {
		if family != domain.FamilyTimed {
			return nil, false
		}
		return r.shootout, true
	}
	switch family {
	case domain.FamilyCricket:
		return r.cricket, true
	case domain.FamilySetBased:
		return r.sets, true
	case domain.FamilyTimed:
		return r.timed, true
	}
	return nil, false
}
