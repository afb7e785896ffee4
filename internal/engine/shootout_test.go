package engine

import (
	"testing"

	"github.com/sportsfest/livescore/internal/domain"
)

func newShootoutMatch(t *testing.T) (*ShootoutEngine, *domain.Match) {
	t.Helper()
	e := &ShootoutEngine{}
	m := &domain.Match{
		Sport:  domain.SportFootball,
		Status: domain.StatusLive,
		Timed:  &domain.TimedState{Period: 2, MaxPeriods: 2},
	}
	if _, err := e.Apply(m, domain.Action{Kind: domain.ActionStartShootout}); err != nil {
		t.Fatalf("startShootout: %v", err)
	}
	return e, m
}

// kick records one attempt for whichever side is due.
func kick(t *testing.T, e *ShootoutEngine, m *domain.Match, scored bool) Result {
	t.Helper()
	res, err := e.Apply(m, domain.Action{Kind: domain.ActionRecordKick, Scored: scored})
	if err != nil {
		t.Fatalf("recordKick: %v", err)
	}
	return res
}

func TestShootoutAlternatesTeams(t *testing.T) {
	e, m := newShootoutMatch(t)

	if m.Shootout.CurrentTeam != domain.TeamA {
		t.Fatalf("first kick belongs to %s, want A", m.Shootout.CurrentTeam)
	}
	kick(t, e, m, true)
	if m.Shootout.CurrentTeam != domain.TeamB {
		t.Errorf("after A's kick, current team = %s, want B", m.Shootout.CurrentTeam)
	}
	kick(t, e, m, true)
	if m.Shootout.CurrentTeam != domain.TeamA {
		t.Errorf("after B's kick, current team = %s, want A", m.Shootout.CurrentTeam)
	}
	if m.Shootout.CurrentRound != 2 {
		t.Errorf("round = %d, want 2", m.Shootout.CurrentRound)
	}
}

func TestShootoutEarlyDecision(t *testing.T) {
	e, m := newShootoutMatch(t)

	// A scores three, B misses three: after round 3 B cannot catch up (0 + 2
	// remaining < 3).
	var res Result
	for i := 0; i < 3; i++ {
		kick(t, e, m, true)
		res = kick(t, e, m, false)
	}
	if !res.Decided || res.Winner != domain.TeamA {
		t.Fatalf("result = %+v, want early decision for A", res)
	}
	if m.Shootout.Status != domain.ShootoutCompleted {
		t.Errorf("status = %s, want COMPLETED", m.Shootout.Status)
	}
	if m.Shootout.FinalScoreA != 3 || m.Shootout.FinalScoreB != 0 {
		t.Errorf("final score %d-%d, want 3-0", m.Shootout.FinalScoreA, m.Shootout.FinalScoreB)
	}
}

func TestShootoutRegulationDecision(t *testing.T) {
	e, m := newShootoutMatch(t)

	// Alternate so the lead never exceeds the remaining rounds, then let A edge
	// it 4-3 at round 5.
	script := []struct{ a, b bool }{
		{true, true},
		{false, true},
		{true, false},
		{true, true},
		{true, false},
	}
	var res Result
	for _, s := range script {
		kick(t, e, m, s.a)
		res = kick(t, e, m, s.b)
	}
	if !res.Decided || res.Winner != domain.TeamA {
		t.Fatalf("result = %+v, want A at the end of regulation", res)
	}
	if m.Shootout.FinalScoreA != 4 || m.Shootout.FinalScoreB != 3 {
		t.Errorf("final score %d-%d, want 4-3", m.Shootout.FinalScoreA, m.Shootout.FinalScoreB)
	}
}

func TestShootoutSuddenDeath(t *testing.T) {
	e, m := newShootoutMatch(t)

	// Mirror every round so regulation ends level at 3-3.
	pattern := []bool{true, true, false, true, false}
	var res Result
	for _, scored := range pattern {
		kick(t, e, m, scored)
		res = kick(t, e, m, scored)
	}
	if res.Decided {
		t.Fatalf("level after regulation should not decide: %+v", res)
	}
	if m.Shootout.CurrentRound != 6 {
		t.Fatalf("round = %d, want 6 (sudden death)", m.Shootout.CurrentRound)
	}

	// Round 6: both score, continues.
	kick(t, e, m, true)
	res = kick(t, e, m, true)
	if res.Decided {
		t.Fatalf("both scoring in sudden death should continue, got %+v", res)
	}

	// Round 7: both miss, continues.
	kick(t, e, m, false)
	res = kick(t, e, m, false)
	if res.Decided {
		t.Fatalf("both missing in sudden death should continue, got %+v", res)
	}

	// Round 8: A scores, B misses. A wins regardless of aggregate.
	kick(t, e, m, true)
	res = kick(t, e, m, false)
	if !res.Decided || res.Winner != domain.TeamA {
		t.Fatalf("result = %+v, want sudden-death win for A", res)
	}
}

func TestShootoutStartGuards(t *testing.T) {
	e, m := newShootoutMatch(t)

	_, err := e.Apply(m, domain.Action{Kind: domain.ActionStartShootout})
	if ErrorKind(err) != KindShootoutInProgress {
		t.Fatalf("expected SHOOTOUT_IN_PROGRESS, got %v", err)
	}

	fresh := &domain.Match{Sport: domain.SportFootball, Status: domain.StatusLive}
	_, err = e.Apply(fresh, domain.Action{Kind: domain.ActionRecordKick, Scored: true})
	if ErrorKind(err) != KindNoShootout {
		t.Fatalf("expected NO_SHOOTOUT, got %v", err)
	}
}

func TestShootoutDeclareWinner(t *testing.T) {
	e, m := newShootoutMatch(t)
	kick(t, e, m, true)

	res, err := e.Apply(m, domain.Action{Kind: domain.ActionDeclareWinner, Team: domain.TeamB})
	if err != nil {
		t.Fatalf("declareWinner: %v", err)
	}
	if !res.Decided || res.Winner != domain.TeamB {
		t.Errorf("result = %+v, want B", res)
	}
	if m.Shootout.Status != domain.ShootoutCompleted {
		t.Errorf("status = %s, want COMPLETED", m.Shootout.Status)
	}
}

func TestRegistryRoutesShootoutActions(t *testing.T) {
	reg := NewRegistry(nil)

	timed := &domain.Match{Sport: domain.SportFootball}
	if _, ok := reg.Resolve(timed, domain.Action{Kind: domain.ActionStartShootout}); !ok {
		t.Errorf("shootout action on football should resolve")
	}

	cricket := &domain.Match{Sport: domain.SportCricket}
	if _, ok := reg.Resolve(cricket, domain.Action{Kind: domain.ActionStartShootout}); ok {
		t.Errorf("shootout action on cricket should not resolve")
	}

	unknown := &domain.Match{Sport: "CURLING"}
	if _, ok := reg.Resolve(unknown, domain.Action{Kind: domain.ActionRecordScore}); ok {
		t.Errorf("unknown sport should not resolve")
	}
}
