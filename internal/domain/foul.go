package domain

import "time"

// Foul types. Card types additionally bump the match's card counters.
const (
	FoulYellowCard    = "YELLOW_CARD"
	FoulRedCard       = "RED_CARD"
	FoulPersonal      = "PERSONAL_FOUL"
	FoulTechnical     = "TECHNICAL_FOUL"
	FoulUnsportsman   = "UNSPORTSMANLIKE"
	FoulRaidViolation = "RAID_VIOLATION"
	FoulLineCross     = "LINE_CROSS"
)

// IsCardFoul reports whether the foul type carries a card.
func IsCardFoul(foulType string) bool {
	return foulType == FoulYellowCard || foulType == FoulRedCard
}

// FoulRecord is one entry in the append-only disciplinary ledger of a match.
// Records are never mutated after creation, only appended or deleted by ID.
type FoulRecord struct {
	ID            string    `json:"id"`
	Team          TeamSide  `json:"team"`
	FoulType      string    `json:"foul_type"`
	PlayerName    string    `json:"player_name"`
	JerseyNumber  string    `json:"jersey_number,omitempty"`
	GameTime      int       `json:"game_time,omitempty"` // minute
	Consequence   string    `json:"consequence,omitempty"`
	PitchLocation string    `json:"pitch_location,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// SuspendedPlayer is a derived suspension, never stored.
type SuspendedPlayer struct {
	Team       TeamSide `json:"team"`
	PlayerName string   `json:"player_name"`
	Yellows    int      `json:"yellows"`
	Reds       int      `json:"reds"`
}

// SuspendedPlayers derives the suspension list from the foul ledger: a player
// with 2 yellow cards or 1 red card is suspended.
func SuspendedPlayers(fouls []FoulRecord) []SuspendedPlayer {
	type key struct {
		team TeamSide
		name string
	}
	counts := make(map[key]*SuspendedPlayer)
	var order []key
	for _, f := range fouls {
		if !IsCardFoul(f.FoulType) {
			continue
		}
		k := key{f.Team, f.PlayerName}
		c, ok := counts[k]
		if !ok {
			c = &SuspendedPlayer{Team: f.Team, PlayerName: f.PlayerName}
			counts[k] = c
			order = append(order, k)
		}
		if f.FoulType == FoulYellowCard {
			c.Yellows++
		} else {
			c.Reds++
		}
	}

	var suspended []SuspendedPlayer
	for _, k := range order {
		c := counts[k]
		if c.Yellows >= 2 || c.Reds >= 1 {
			suspended = append(suspended, *c)
		}
	}
	return suspended
}
