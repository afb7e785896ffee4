package domain

import (
	"testing"
	"time"
)

func TestFamilyMapping(t *testing.T) {
	cases := []struct {
		sport  Sport
		family SportFamily
	}{
		{SportCricket, FamilyCricket},
		{SportBadminton, FamilySetBased},
		{SportTableTennis, FamilySetBased},
		{SportVolleyball, FamilySetBased},
		{SportFootball, FamilyTimed},
		{SportBasketball, FamilyTimed},
		{SportKhoKho, FamilyTimed},
		{SportKabaddi, FamilyTimed},
		{SportChess, FamilyTimed},
	}
	for _, tc := range cases {
		family, ok := Family(tc.sport)
		if !ok || family != tc.family {
			t.Errorf("Family(%s) = %s, %v; want %s", tc.sport, family, ok, tc.family)
		}
	}

	if _, ok := Family("HOCKEY"); ok {
		t.Errorf("Family should reject an unknown sport")
	}
}

func TestTimerElapsed(t *testing.T) {
	base := time.Unix(5000, 0)

	stopped := TimerState{ElapsedSeconds: 40}
	if got := stopped.Elapsed(base); got != 40 {
		t.Errorf("stopped elapsed = %d, want 40", got)
	}

	start := base
	running := TimerState{IsRunning: true, StartTime: &start, ElapsedSeconds: 40}
	if got := running.Elapsed(base.Add(25 * time.Second)); got != 65 {
		t.Errorf("running elapsed = %d, want 65", got)
	}

	// Paused timers ignore the start time entirely.
	paused := TimerState{IsPaused: true, ElapsedSeconds: 40}
	if got := paused.Elapsed(base.Add(time.Hour)); got != 40 {
		t.Errorf("paused elapsed = %d, want 40", got)
	}
}

func TestSetsToWin(t *testing.T) {
	bestOfThree := &SetState{MaxSets: 3}
	if bestOfThree.SetsToWin() != 2 {
		t.Errorf("best of 3 needs %d, want 2", bestOfThree.SetsToWin())
	}
	bestOfFive := &SetState{MaxSets: 5}
	if bestOfFive.SetsToWin() != 3 {
		t.Errorf("best of 5 needs %d, want 3", bestOfFive.SetsToWin())
	}

	if (&SetState{MaxSets: 3, SetsWonA: 1, SetsWonB: 1}).Decided() {
		t.Errorf("1-1 in best of 3 should not be decided")
	}
	if !(&SetState{MaxSets: 3, SetsWonB: 2}).Decided() {
		t.Errorf("0-2 in best of 3 should be decided")
	}
}

func TestGoals(t *testing.T) {
	kicks := []ShootoutKick{
		{Round: 1, Scored: true},
		{Round: 2, Scored: false, MissType: "saved"},
		{Round: 3, Scored: true},
	}
	if got := Goals(kicks); got != 2 {
		t.Errorf("Goals = %d, want 2", got)
	}
	if Goals(nil) != 0 {
		t.Errorf("Goals(nil) should be 0")
	}
}

func TestTeamSideHelpers(t *testing.T) {
	if TeamA.Opponent() != TeamB || TeamB.Opponent() != TeamA {
		t.Errorf("Opponent is not symmetric")
	}
	if !TeamA.Valid() || TeamSide("C").Valid() || TeamSide("").Valid() {
		t.Errorf("Valid accepts bad sides")
	}

	m := &Match{TeamA: "d1", TeamB: "d2"}
	if m.TeamID(TeamA) != "d1" || m.TeamID(TeamB) != "d2" {
		t.Errorf("TeamID mapping wrong")
	}
}
