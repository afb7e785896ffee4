package engine

import (
	"fmt"
	"strconv"

	"github.com/sportsfest/livescore/internal/domain"
)

// Extra delivery kinds for recordBall.
const (
	ExtraWide   = "wide"
	ExtraNoBall = "no_ball"
	ExtraBye    = "bye"
	ExtraLegBye = "leg_bye"
)

// CricketEngine applies ball-by-ball transitions to a cricket match.
type CricketEngine struct{}

// Apply dispatches one cricket action.
func (e *CricketEngine) Apply(m *domain.Match, a domain.Action) (Result, error) {
	st := m.Cricket
	if st == nil {
		return Result{}, Errf(KindInvalidAction, "cricket state not initialized")
	}

	switch a.Kind {
	case domain.ActionSetToss:
		return e.setToss(m, a)
	case domain.ActionSetSquad:
		return e.setSquad(st, a)
	case domain.ActionNewBatsman:
		return e.newBatsman(st, a)
	case domain.ActionChangeBowler:
		return e.changeBowler(st, a)
	case domain.ActionRecordBall:
		return e.recordBall(st, a)
	case domain.ActionEndInnings:
		return e.endInnings(st)
	default:
		return Result{}, Errf(KindUnsupportedAction, "action %q not valid for cricket", a.Kind)
	}
}

// setToss is legal only once, before the first ball.
func (e *CricketEngine) setToss(m *domain.Match, a domain.Action) (Result, error) {
	if m.Toss != nil {
		return Result{}, Errf(KindTossAlreadySet, "toss already recorded")
	}
	st := m.Cricket
	if st.CurrentInnings > 1 || st.ScoreA.Runs > 0 || st.ScoreB.Runs > 0 ||
		st.ScoreA.Overs+st.ScoreA.Balls > 0 || st.ScoreB.Overs+st.ScoreB.Balls > 0 {
		return Result{}, Errf(KindTossAlreadySet, "play has started, toss can no longer be set")
	}
	if !a.TossWinner.Valid() || (a.TossDecision != "bat" && a.TossDecision != "bowl") {
		return Result{}, Errf(KindInvalidAction, "toss requires a winning team and a bat/bowl decision")
	}
	m.Toss = &domain.TossResult{Winner: a.TossWinner, Decision: a.TossDecision}
	if a.TossDecision == "bat" {
		st.BattingTeam = a.TossWinner
	} else {
		st.BattingTeam = a.TossWinner.Opponent()
	}
	return Result{}, nil
}

func (e *CricketEngine) setSquad(st *domain.CricketState, a domain.Action) (Result, error) {
	if !a.Team.Valid() {
		return Result{}, Errf(KindInvalidAction, "squad requires a team")
	}
	if len(a.Squad) < 11 || len(a.Squad) > 15 {
		return Result{}, Errf(KindInvalidAction, "squad must have 11-15 players, got %d", len(a.Squad))
	}
	if a.Team == domain.TeamA {
		st.SquadA = a.Squad
	} else {
		st.SquadB = a.Squad
	}
	return Result{}, nil
}

// newBatsman fills the striker slot first, then the non-striker slot.
func (e *CricketEngine) newBatsman(st *domain.CricketState, a domain.Action) (Result, error) {
	if a.PlayerID == "" {
		return Result{}, Errf(KindInvalidAction, "newBatsman requires a player id")
	}
	b := &domain.BatsmanState{PlayerID: a.PlayerID, Name: a.PlayerName}
	if b.Name == "" {
		b.Name = e.squadName(st, a.PlayerID)
	}
	switch {
	case st.Striker == nil:
		st.Striker = b
	case st.NonStriker == nil:
		st.NonStriker = b
	default:
		return Result{}, Errf(KindInvalidAction, "both batsmen already at the crease")
	}
	return Result{}, nil
}

// squadName looks up a player's name in the batting squad.
func (e *CricketEngine) squadName(st *domain.CricketState, playerID string) string {
	squad := st.SquadA
	if st.BattingTeam == domain.TeamB {
		squad = st.SquadB
	}
	for _, p := range squad {
		if p.ID == playerID {
			return p.Name
		}
	}
	return playerID
}

// changeBowler is only legal between overs.
func (e *CricketEngine) changeBowler(st *domain.CricketState, a domain.Action) (Result, error) {
	if a.PlayerID == "" {
		return Result{}, Errf(KindInvalidAction, "changeBowler requires a player id")
	}
	if st.BattingScore().Balls != 0 {
		return Result{}, Errf(KindOverInProgress, "bowler can only change between overs")
	}
	name := a.PlayerName
	if name == "" {
		name = a.PlayerID
	}
	st.Bowler = &domain.BowlerState{PlayerID: a.PlayerID, Name: name}
	return Result{}, nil
}

// recordBall applies one delivery. Wides and no-balls add to extras and the
// team total but do not count as a legal ball faced by the striker nor advance
// the over; byes and leg-byes are legal balls and rotate strike on odd totals.
func (e *CricketEngine) recordBall(st *domain.CricketState, a domain.Action) (Result, error) {
	score := st.BattingScore()
	if score.Wickets >= 10 {
		return Result{}, Errf(KindInningsComplete, "all wickets have fallen")
	}
	if st.MaxOvers > 0 && score.Overs >= st.MaxOvers {
		return Result{}, Errf(KindInningsComplete, "over allocation exhausted")
	}
	if st.Striker == nil || st.NonStriker == nil {
		return Result{}, Errf(KindNoBatsman, "a new batsman must be selected before play continues")
	}
	if a.Runs < 0 || a.Runs > 6 {
		return Result{}, Errf(KindInvalidAction, "runs must be 0-6, got %d", a.Runs)
	}

	switch a.Extra {
	case ExtraWide, ExtraNoBall:
		// One for the illegal delivery plus anything run.
		total := 1 + a.Runs
		score.Runs += total
		if a.Extra == ExtraWide {
			score.Extras.Wides += total
			st.CurrentOver = append(st.CurrentOver, "Wd")
		} else {
			score.Extras.NoBalls += total
			st.CurrentOver = append(st.CurrentOver, "Nb")
		}
		if st.Bowler != nil {
			st.Bowler.RunsConceded += total
		}
		return e.checkTarget(st), nil

	case ExtraBye, ExtraLegBye:
		score.Runs += a.Runs
		if a.Extra == ExtraBye {
			score.Extras.Byes += a.Runs
		} else {
			score.Extras.LegByes += a.Runs
		}
		st.CurrentOver = append(st.CurrentOver, strconv.Itoa(a.Runs))
		e.legalBall(st, score)
		if a.Runs%2 == 1 {
			e.rotateStrike(st)
		}
		e.endOverIfDue(st, score)
		return e.checkTarget(st), nil

	case "":
		// fall through to a normal delivery or wicket below
	default:
		return Result{}, Errf(KindInvalidAction, "unknown extra type %q", a.Extra)
	}

	if a.WicketType != "" {
		return e.wicket(st, score, a)
	}

	// Runs off the bat.
	score.Runs += a.Runs
	st.Striker.Runs += a.Runs
	switch a.Runs {
	case 4:
		st.Striker.Fours++
	case 6:
		st.Striker.Sixes++
	}
	if st.Bowler != nil {
		st.Bowler.RunsConceded += a.Runs
	}
	st.CurrentOver = append(st.CurrentOver, strconv.Itoa(a.Runs))
	e.legalBall(st, score)
	if a.Runs%2 == 1 {
		e.rotateStrike(st)
	}
	e.endOverIfDue(st, score)
	return e.checkTarget(st), nil
}

// wicket handles a dismissal delivery.
func (e *CricketEngine) wicket(st *domain.CricketState, score *domain.CricketScore, a domain.Action) (Result, error) {
	score.Runs += a.Runs // run-outs can still score
	score.Wickets++
	out := st.Striker
	out.IsOut = true
	out.Dismissal = a.WicketType
	out.OutBy = a.OutBy
	out.BallsFaced++
	if st.Bowler != nil {
		st.Bowler.RunsConceded += a.Runs
		if a.WicketType != "run_out" {
			st.Bowler.Wickets++
		}
	}
	st.CurrentOver = append(st.CurrentOver, "W")
	score.Balls++
	if st.Bowler != nil {
		st.Bowler.BallsBowled++
	}
	st.FallOfWickets = append(st.FallOfWickets, domain.FallOfWicket{
		Wicket:    score.Wickets,
		Runs:      score.Runs,
		Over:      fmt.Sprintf("%d.%d", score.Overs, score.Balls),
		Batsman:   out.Name,
		Dismissal: a.WicketType,
		OutBy:     a.OutBy,
	})
	// Further deliveries are rejected with NO_BATSMAN until newBatsman runs.
	st.Striker = nil
	e.endOverIfDue(st, score)
	return e.checkTarget(st), nil
}

// legalBall charges the striker and bowler with one delivery.
func (e *CricketEngine) legalBall(st *domain.CricketState, score *domain.CricketScore) {
	st.Striker.BallsFaced++
	score.Balls++
	if st.Bowler != nil {
		st.Bowler.BallsBowled++
	}
}

// endOverIfDue closes the over after the 6th legal ball: the over counter
// increments, the ball count resets, and the batsmen cross.
func (e *CricketEngine) endOverIfDue(st *domain.CricketState, score *domain.CricketScore) {
	if score.Balls < 6 {
		return
	}
	score.Balls = 0
	score.Overs++
	st.CurrentOver = nil
	e.rotateStrike(st)
}

func (e *CricketEngine) rotateStrike(st *domain.CricketState) {
	st.Striker, st.NonStriker = st.NonStriker, st.Striker
}

// checkTarget decides the match the moment the chasing side passes its target.
func (e *CricketEngine) checkTarget(st *domain.CricketState) Result {
	if st.CurrentInnings == 2 && st.Target > 0 && st.BattingScore().Runs >= st.Target {
		return Result{Decided: true, Winner: st.BattingTeam}
	}
	return Result{}
}

// endInnings locks the first innings, computes the target and switches the
// batting side. Called again in the second innings it decides the match on the
// totals (a tie decides nothing and is left to the admin).
func (e *CricketEngine) endInnings(st *domain.CricketState) (Result, error) {
	if st.CurrentInnings >= 2 {
		switch {
		case st.ScoreA.Runs > st.ScoreB.Runs:
			return Result{Decided: true, Winner: domain.TeamA}, nil
		case st.ScoreB.Runs > st.ScoreA.Runs:
			return Result{Decided: true, Winner: domain.TeamB}, nil
		default:
			return Result{}, nil
		}
	}
	st.Target = st.BattingScore().Runs + 1
	st.CurrentInnings = 2
	st.BattingTeam = st.BattingTeam.Opponent()
	st.CurrentOver = nil
	st.Striker = nil
	st.NonStriker = nil
	st.Bowler = nil
	return Result{}, nil
}
