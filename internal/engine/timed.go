package engine

import (
	"time"

	"github.com/sportsfest/livescore/internal/domain"
)

// TimedEngine applies transitions for timed-period sports. The match clock is
// stored as a start time plus accumulated elapsed seconds; Now is injectable
// so the pause/resume arithmetic is testable without sleeping.
type TimedEngine struct {
	Now func() time.Time
}

// Apply dispatches one timed-period action.
func (e *TimedEngine) Apply(m *domain.Match, a domain.Action) (Result, error) {
	st := m.Timed
	if st == nil {
		return Result{}, Errf(KindInvalidAction, "timed state not initialized")
	}

	switch a.Kind {
	case domain.ActionRecordScore:
		return e.recordScore(st, a)
	case domain.ActionTimer:
		return e.timerAction(st, a)
	case domain.ActionAdvancePeriod:
		return e.advancePeriod(st)
	default:
		return Result{}, Errf(KindUnsupportedAction, "action %q not valid for %s", a.Kind, m.Sport)
	}
}

func (e *TimedEngine) recordScore(st *domain.TimedState, a domain.Action) (Result, error) {
	if !a.Team.Valid() {
		return Result{}, Errf(KindInvalidAction, "recordScore requires a team")
	}
	points := a.Points
	if points == 0 {
		points = 1
	}
	if points < 0 || points > 3 {
		return Result{}, Errf(KindInvalidAction, "points must be 1-3, got %d", points)
	}
	if a.Team == domain.TeamA {
		st.ScoreA += points
	} else {
		st.ScoreB += points
	}
	if a.PlayerName != "" {
		st.Scorers = append(st.Scorers, domain.ScorerEntry{
			Team:       a.Team,
			PlayerName: a.PlayerName,
			Minute:     a.Minute,
			Points:     points,
			Type:       a.ScoreType,
		})
	}
	return Result{}, nil
}

// timerAction drives the match clock. Pausing snapshots elapsed time; elapsed
// seconds are monotonically non-decreasing while running, and at most one of
// isRunning/isPaused holds at a time.
func (e *TimedEngine) timerAction(st *domain.TimedState, a domain.Action) (Result, error) {
	t := &st.Timer
	now := e.Now()

	switch a.Timer {
	case domain.TimerStart:
		if t.IsRunning {
			return Result{}, Errf(KindInvalidAction, "timer already running")
		}
		t.StartTime = &now
		t.IsRunning = true
		t.IsPaused = false

	case domain.TimerPause:
		if !t.IsRunning {
			return Result{}, Errf(KindInvalidAction, "timer is not running")
		}
		t.ElapsedSeconds = t.Elapsed(now)
		t.StartTime = nil
		t.IsRunning = false
		t.IsPaused = true

	case domain.TimerResume:
		if !t.IsPaused {
			return Result{}, Errf(KindInvalidAction, "timer is not paused")
		}
		t.StartTime = &now
		t.IsRunning = true
		t.IsPaused = false

	case domain.TimerStop:
		t.ElapsedSeconds = t.Elapsed(now)
		t.StartTime = nil
		t.IsRunning = false
		t.IsPaused = false

	case domain.TimerAddTime:
		if a.Seconds <= 0 {
			return Result{}, Errf(KindInvalidAction, "addTime requires a positive number of seconds")
		}
		t.AddedTime += a.Seconds

	default:
		return Result{}, Errf(KindInvalidAction, "unknown timer action %q", a.Timer)
	}
	return Result{}, nil
}

// advancePeriod moves to the next period; the caller must end the match
// instead once all periods are played.
func (e *TimedEngine) advancePeriod(st *domain.TimedState) (Result, error) {
	if st.Period >= st.MaxPeriods {
		return Result{}, Errf(KindAllPeriodsComplete, "period %d is the last", st.Period)
	}
	st.Period++
	return Result{}, nil
}
