package domain

import "testing"

func TestIsCardFoul(t *testing.T) {
	if !IsCardFoul(FoulYellowCard) || !IsCardFoul(FoulRedCard) {
		t.Errorf("card fouls not recognized")
	}
	for _, ft := range []string{FoulPersonal, FoulTechnical, FoulUnsportsman, FoulRaidViolation, FoulLineCross} {
		if IsCardFoul(ft) {
			t.Errorf("%s should not be a card foul", ft)
		}
	}
}

func TestSuspendedPlayersTwoYellows(t *testing.T) {
	fouls := []FoulRecord{
		{Team: TeamA, PlayerName: "Rossi", FoulType: FoulYellowCard},
		{Team: TeamA, PlayerName: "Rossi", FoulType: FoulPersonal},
		{Team: TeamA, PlayerName: "Rossi", FoulType: FoulYellowCard},
	}
	suspended := SuspendedPlayers(fouls)
	if len(suspended) != 1 {
		t.Fatalf("suspended = %d, want 1", len(suspended))
	}
	if suspended[0].PlayerName != "Rossi" || suspended[0].Yellows != 2 {
		t.Errorf("suspension = %+v, want Rossi with 2 yellows", suspended[0])
	}
}

func TestSuspendedPlayersStraightRed(t *testing.T) {
	fouls := []FoulRecord{
		{Team: TeamB, PlayerName: "Verdi", FoulType: FoulRedCard},
	}
	suspended := SuspendedPlayers(fouls)
	if len(suspended) != 1 || suspended[0].Reds != 1 {
		t.Fatalf("suspended = %+v, want Verdi with 1 red", suspended)
	}
}

func TestSuspendedPlayersKeyedByTeamAndName(t *testing.T) {
	// Same jersey name on both sides must count separately.
	fouls := []FoulRecord{
		{Team: TeamA, PlayerName: "Kumar", FoulType: FoulYellowCard},
		{Team: TeamB, PlayerName: "Kumar", FoulType: FoulYellowCard},
	}
	if suspended := SuspendedPlayers(fouls); len(suspended) != 0 {
		t.Errorf("one yellow per side should suspend nobody, got %+v", suspended)
	}

	fouls = append(fouls, FoulRecord{Team: TeamA, PlayerName: "Kumar", FoulType: FoulYellowCard})
	suspended := SuspendedPlayers(fouls)
	if len(suspended) != 1 || suspended[0].Team != TeamA {
		t.Errorf("suspended = %+v, want only team A's Kumar", suspended)
	}
}

func TestSuspendedPlayersOrderStable(t *testing.T) {
	fouls := []FoulRecord{
		{Team: TeamB, PlayerName: "Zed", FoulType: FoulRedCard},
		{Team: TeamA, PlayerName: "Abe", FoulType: FoulRedCard},
	}
	suspended := SuspendedPlayers(fouls)
	if len(suspended) != 2 || suspended[0].PlayerName != "Zed" {
		t.Errorf("suspension order should follow the ledger, got %+v", suspended)
	}
}
