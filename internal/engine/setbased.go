package engine

import "github.com/sportsfest/livescore/internal/domain"

// setRules holds the win threshold and hard cap for one set-based sport. At
// the cap a one-point margin wins (30-29 in badminton); below it the usual
// margin of two applies, covering deuce.
type setRules struct {
	winPoints int
	cap       int // 0 = uncapped
}

var setRulesBySport = map[domain.Sport]setRules{
	domain.SportBadminton:   {winPoints: 21, cap: 30},
	domain.SportTableTennis: {winPoints: 11},
	domain.SportVolleyball:  {winPoints: 25},
}

// SetEngine applies transitions for badminton, table tennis and volleyball.
type SetEngine struct{}

// Apply dispatches one set-based action.
func (e *SetEngine) Apply(m *domain.Match, a domain.Action) (Result, error) {
	st := m.Sets
	if st == nil {
		return Result{}, Errf(KindInvalidAction, "set state not initialized")
	}

	switch a.Kind {
	case domain.ActionStartSet:
		return e.startSet(st, a)
	case domain.ActionUpdateSetPoints:
		return e.updatePoints(st, a)
	case domain.ActionToggleServer:
		st.CurrentServer = st.CurrentServer.Opponent()
		return Result{}, nil
	case domain.ActionEndSet:
		return e.endSet(m.Sport, st, a)
	default:
		return Result{}, Errf(KindUnsupportedAction, "action %q not valid for %s", a.Kind, m.Sport)
	}
}

func (e *SetEngine) startSet(st *domain.SetState, a domain.Action) (Result, error) {
	if st.CurrentSet != nil {
		return Result{}, Errf(KindSetInProgress, "set %d is still open", st.CurrentSet.Number)
	}
	if st.Decided() {
		return Result{}, Errf(KindMatchDecided, "a side has already won %d sets", st.SetsToWin())
	}
	number := a.SetNumber
	if number == 0 {
		number = len(st.SetDetails) + 1
	}
	st.CurrentSet = &domain.SetScore{Number: number}
	return Result{}, nil
}

func (e *SetEngine) updatePoints(st *domain.SetState, a domain.Action) (Result, error) {
	if st.CurrentSet == nil {
		return Result{}, Errf(KindNoActiveSet, "no set in progress")
	}
	if !a.Team.Valid() {
		return Result{}, Errf(KindInvalidAction, "updateSetPoints requires a team")
	}
	if a.Delta != 1 && a.Delta != -1 {
		return Result{}, Errf(KindInvalidAction, "delta must be +1 or -1, got %d", a.Delta)
	}
	pts := &st.CurrentSet.PointsA
	if a.Team == domain.TeamB {
		pts = &st.CurrentSet.PointsB
	}
	if *pts+a.Delta < 0 {
		return Result{}, Errf(KindInvalidAction, "points cannot go below zero")
	}
	*pts += a.Delta
	return Result{}, nil
}

// endSet validates the final score against the sport's win condition, appends
// the set to history and credits exactly one set to the winner. The
// coordinator completes the match when the set tally reaches SetsToWin.
func (e *SetEngine) endSet(sport domain.Sport, st *domain.SetState, a domain.Action) (Result, error) {
	if st.CurrentSet == nil {
		return Result{}, Errf(KindNoActiveSet, "no set in progress")
	}
	if !a.Team.Valid() {
		return Result{}, Errf(KindInvalidAction, "endSet requires the winning team")
	}

	win, lose := a.FinalPtsA, a.FinalPtsB
	if a.Team == domain.TeamB {
		win, lose = lose, win
	}
	rules := setRulesBySport[sport]
	if !setWon(rules, win, lose) {
		return Result{}, Errf(KindInvalidAction,
			"%d-%d does not satisfy the %s win condition", win, lose, sport)
	}

	st.SetDetails = append(st.SetDetails, domain.SetDetail{
		Number:  st.CurrentSet.Number,
		PointsA: a.FinalPtsA,
		PointsB: a.FinalPtsB,
		Winner:  a.Team,
	})
	if a.Team == domain.TeamA {
		st.SetsWonA++
	} else {
		st.SetsWonB++
	}
	st.CurrentSet = nil

	if st.Decided() {
		return Result{Decided: true, Winner: a.Team}, nil
	}
	return Result{}, nil
}

// setWon checks threshold plus margin of two, or a one-point win at the cap.
func setWon(r setRules, win, lose int) bool {
	if win <= lose {
		return false
	}
	if r.cap > 0 && win == r.cap {
		return true
	}
	if r.cap > 0 && win > r.cap {
		return false
	}
	return win >= r.winPoints && win-lose >= 2
}
