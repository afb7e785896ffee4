package engine

import "github.com/sportsfest/livescore/internal/domain"

// regulationRounds is the number of alternating rounds before sudden death.
const regulationRounds = 5

// ShootoutEngine applies penalty shootout transitions for knockout matches in
// the timed-period family.
type ShootoutEngine struct{}

// Apply dispatches one shootout action.
func (e *ShootoutEngine) Apply(m *domain.Match, a domain.Action) (Result, error) {
	switch a.Kind {
	case domain.ActionStartShootout:
		return e.start(m)
	case domain.ActionRecordKick:
		return e.recordKick(m, a)
	case domain.ActionDeclareWinner:
		return e.declareWinner(m, a)
	default:
		return Result{}, Errf(KindUnsupportedAction, "action %q not valid for a shootout", a.Kind)
	}
}

func (e *ShootoutEngine) start(m *domain.Match) (Result, error) {
	if m.Shootout != nil && m.Shootout.Status == domain.ShootoutInProgress {
		return Result{}, Errf(KindShootoutInProgress, "a shootout is already in progress")
	}
	m.Shootout = &domain.ShootoutState{
		Status:       domain.ShootoutInProgress,
		KicksA:       []domain.ShootoutKick{},
		KicksB:       []domain.ShootoutKick{},
		CurrentRound: 1,
		CurrentTeam:  domain.TeamA,
	}
	return Result{}, nil
}

// recordKick appends the current team's attempt and alternates sides. The
// winner check runs after team B's kick closes a round: before round 5 a side
// wins early once the other cannot catch up, at round 5 unequal totals decide,
// and in sudden death the round decides the instant exactly one side scores.
func (e *ShootoutEngine) recordKick(m *domain.Match, a domain.Action) (Result, error) {
	st := m.Shootout
	if st == nil || st.Status != domain.ShootoutInProgress {
		return Result{}, Errf(KindNoShootout, "no shootout in progress")
	}

	kick := domain.ShootoutKick{Round: st.CurrentRound, Scored: a.Scored, MissType: a.MissType}
	if st.CurrentTeam == domain.TeamA {
		st.KicksA = append(st.KicksA, kick)
		st.CurrentTeam = domain.TeamB
		return Result{}, nil
	}
	st.KicksB = append(st.KicksB, kick)
	st.CurrentTeam = domain.TeamA

	round := st.CurrentRound
	st.CurrentRound++

	scoreA := domain.Goals(st.KicksA)
	scoreB := domain.Goals(st.KicksB)
	switch {
	case round < regulationRounds:
		remaining := regulationRounds - round
		if scoreA > scoreB+remaining {
			return e.complete(st, domain.TeamA), nil
		}
		if scoreB > scoreA+remaining {
			return e.complete(st, domain.TeamB), nil
		}
	case round == regulationRounds:
		if scoreA != scoreB {
			winner := domain.TeamA
			if scoreB > scoreA {
				winner = domain.TeamB
			}
			return e.complete(st, winner), nil
		}
	default:
		// Sudden death: only this round's pair matters. Both scoring or both
		// missing decides nothing and the shootout continues.
		lastA := st.KicksA[len(st.KicksA)-1]
		lastB := st.KicksB[len(st.KicksB)-1]
		if lastA.Scored != lastB.Scored {
			winner := domain.TeamA
			if lastB.Scored {
				winner = domain.TeamB
			}
			return e.complete(st, winner), nil
		}
	}
	return Result{}, nil
}

// declareWinner terminally closes the shootout and the match.
func (e *ShootoutEngine) declareWinner(m *domain.Match, a domain.Action) (Result, error) {
	st := m.Shootout
	if st == nil {
		return Result{}, Errf(KindNoShootout, "no shootout in progress")
	}
	if !a.Team.Valid() {
		return Result{}, Errf(KindInvalidAction, "declareWinner requires a team")
	}
	return e.complete(st, a.Team), nil
}

func (e *ShootoutEngine) complete(st *domain.ShootoutState, winner domain.TeamSide) Result {
	st.Status = domain.ShootoutCompleted
	st.Winner = winner
	st.FinalScoreA = domain.Goals(st.KicksA)
	st.FinalScoreB = domain.Goals(st.KicksB)
	return Result{Decided: true, Winner: winner}
}
