package domain

import "time"

// Sport identifies the game being played. The set is closed; the rule engine
// family is derived from it via Family().
type Sport string

const (
	SportCricket     Sport = "CRICKET"
	SportFootball    Sport = "FOOTBALL"
	SportBasketball  Sport = "BASKETBALL"
	SportBadminton   Sport = "BADMINTON"
	SportTableTennis Sport = "TABLE_TENNIS"
	SportVolleyball  Sport = "VOLLEYBALL"
	SportKhoKho      Sport = "KHOKHO"
	SportKabaddi     Sport = "KABADDI"
	SportChess       Sport = "CHESS"
)

// SportFamily selects which rule engine handles a match.
type SportFamily string

const (
	FamilyCricket  SportFamily = "cricket"
	FamilySetBased SportFamily = "sets"
	FamilyTimed    SportFamily = "timed"
)

// Family maps a sport to its rule engine family. Chess is scored like a single
// timed period (score plus clock, no cards).
func Family(s Sport) (SportFamily, bool) {
	switch s {
	case SportCricket:
		return FamilyCricket, true
	case SportBadminton, SportTableTennis, SportVolleyball:
		return FamilySetBased, true
	case SportFootball, SportBasketball, SportKhoKho, SportKabaddi, SportChess:
		return FamilyTimed, true
	default:
		return "", false
	}
}

// Match lifecycle statuses. Transitions are one-way:
// SCHEDULED -> LIVE -> COMPLETED (or SCHEDULED -> COMPLETED if abandoned).
const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusCompleted = "COMPLETED"
)

// Match categories.
const (
	CategoryRegular   = "regular"
	CategorySemifinal = "semifinal"
	CategoryFinal     = "final"
)

// TeamSide refers to one of the two competing sides of a match.
type TeamSide string

const (
	TeamA TeamSide = "A"
	TeamB TeamSide = "B"
)

// Opponent returns the other side.
func (t TeamSide) Opponent() TeamSide {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Valid reports whether the side is A or B.
func (t TeamSide) Valid() bool {
	return t == TeamA || t == TeamB
}

// TossResult records who won the toss and what they chose (cricket).
type TossResult struct {
	Winner   TeamSide `json:"winner"`
	Decision string   `json:"decision"` // "bat" or "bowl"
}

// Match is the authoritative document for one fixture. Exactly one of the
// sport-specific state pointers is non-nil, selected by the sport's family.
type Match struct {
	ID          string    `json:"id"`
	Sport       Sport     `json:"sport"`
	TeamA       string    `json:"team_a"` // department ID
	TeamB       string    `json:"team_b"` // department ID
	ScheduledAt time.Time `json:"scheduled_at"`
	Venue       string    `json:"venue,omitempty"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Winner      string    `json:"winner,omitempty"` // department ID, set at COMPLETED

	Toss     *TossResult    `json:"toss,omitempty"`
	Cricket  *CricketState  `json:"cricket,omitempty"`
	Sets     *SetState      `json:"sets,omitempty"`
	Timed    *TimedState    `json:"timed,omitempty"`
	Shootout *ShootoutState `json:"shootout,omitempty"`
	Fouls    []FoulRecord   `json:"fouls,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamID returns the department ID for a side.
func (m *Match) TeamID(side TeamSide) string {
	if side == TeamA {
		return m.TeamA
	}
	return m.TeamB
}

// SetState holds scoring state for set-based sports (badminton, table tennis,
// volleyball). SetsWonA/SetsWonB are the scoreA/scoreB of these sports.
type SetState struct {
	MaxSets       int         `json:"max_sets"` // 3 or 5
	SetsWonA      int         `json:"sets_won_a"`
	SetsWonB      int         `json:"sets_won_b"`
	CurrentSet    *SetScore   `json:"current_set,omitempty"` // nil when no set is open
	SetDetails    []SetDetail `json:"set_details,omitempty"`
	CurrentServer TeamSide    `json:"current_server"`
}

// SetsToWin is the number of sets needed to take the match.
func (s *SetState) SetsToWin() int {
	return s.MaxSets/2 + 1
}

// Decided reports whether either side has already won enough sets.
func (s *SetState) Decided() bool {
	need := s.SetsToWin()
	return s.SetsWonA >= need || s.SetsWonB >= need
}

// SetScore is the live point count of the set in progress.
type SetScore struct {
	Number  int `json:"number"`
	PointsA int `json:"points_a"`
	PointsB int `json:"points_b"`
}

// SetDetail is one completed set in order of play.
type SetDetail struct {
	Number  int      `json:"number"`
	PointsA int      `json:"points_a"`
	PointsB int      `json:"points_b"`
	Winner  TeamSide `json:"winner"`
}

// TimedState holds scoring state for timed-period sports (football,
// basketball, kho-kho, kabaddi) and chess.
type TimedState struct {
	Period     int           `json:"period"` // 1-based
	MaxPeriods int           `json:"max_periods"`
	Timer      TimerState    `json:"timer"`
	ScoreA     int           `json:"score_a"`
	ScoreB     int           `json:"score_b"`
	CardsA     CardCount     `json:"cards_a"`
	CardsB     CardCount     `json:"cards_b"`
	Scorers    []ScorerEntry `json:"scorers,omitempty"`
}

// CardCount tallies cards shown to one side. Kept in sync with the foul
// sub-ledger by the coordinator.
type CardCount struct {
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

// ScorerEntry is one scoring event attributed to a named player.
type ScorerEntry struct {
	Team       TeamSide `json:"team"`
	PlayerName string   `json:"player_name"`
	Minute     int      `json:"minute"`
	Points     int      `json:"points"`
	Type       string   `json:"type,omitempty"` // e.g. "goal", "penalty", "3PT"
}

// TimerState stores the match clock as a start time plus accumulated elapsed
// seconds rather than a ticking counter. Elapsed time is always derived, so no
// server-side tick is needed and viewers compute the live countdown from the
// broadcast StartTime.
type TimerState struct {
	IsRunning      bool       `json:"is_running"`
	IsPaused       bool       `json:"is_paused"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	AddedTime      int        `json:"added_time"` // injury/extra seconds
}

// Elapsed returns total elapsed seconds at the given instant. Pure function of
// (now, StartTime, ElapsedSeconds, IsRunning).
func (t TimerState) Elapsed(now time.Time) int {
	if t.IsRunning && t.StartTime != nil {
		return t.ElapsedSeconds + int(now.Sub(*t.StartTime).Seconds())
	}
	return t.ElapsedSeconds
}

// ShootoutState holds penalty shootout state for knockout matches.
type ShootoutState struct {
	Status       string         `json:"status"` // IN_PROGRESS or COMPLETED
	KicksA       []ShootoutKick `json:"kicks_a"`
	KicksB       []ShootoutKick `json:"kicks_b"`
	CurrentRound int            `json:"current_round"`
	CurrentTeam  TeamSide       `json:"current_team"`
	Winner       TeamSide       `json:"winner,omitempty"`
	FinalScoreA  int            `json:"final_score_a"`
	FinalScoreB  int            `json:"final_score_b"`
}

// Shootout statuses.
const (
	ShootoutInProgress = "IN_PROGRESS"
	ShootoutCompleted  = "COMPLETED"
)

// ShootoutKick is one attempt, tagged with its round.
type ShootoutKick struct {
	Round    int    `json:"round"`
	Scored   bool   `json:"scored"`
	MissType string `json:"miss_type,omitempty"` // "saved", "post", "over", "wide"
}

// Goals returns how many kicks in the list scored.
func Goals(kicks []ShootoutKick) int {
	n := 0
	for _, k := range kicks {
		if k.Scored {
			n++
		}
	}
	return n
}
