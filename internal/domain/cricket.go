package domain

// CricketState holds ball-by-ball innings state. Score shapes follow the
// scoreboard: team totals with overs/balls and an extras breakdown, plus the
// two batsmen at the crease and the current bowler.
type CricketState struct {
	CurrentInnings int          `json:"current_innings"` // 1 or 2
	BattingTeam    TeamSide     `json:"batting_team"`
	ScoreA         CricketScore `json:"score_a"`
	ScoreB         CricketScore `json:"score_b"`
	MaxOvers       int          `json:"max_overs"`
	Target         int          `json:"target,omitempty"` // innings 2 only

	CurrentOver []string      `json:"current_over"` // ball outcomes: "0".."6", "W", "Wd", "Nb"
	Striker     *BatsmanState `json:"striker,omitempty"`
	NonStriker  *BatsmanState `json:"non_striker,omitempty"`
	Bowler      *BowlerState  `json:"bowler,omitempty"`

	SquadA        []SquadPlayer  `json:"squad_a,omitempty"`
	SquadB        []SquadPlayer  `json:"squad_b,omitempty"`
	FallOfWickets []FallOfWicket `json:"fall_of_wickets,omitempty"`
}

// BattingScore returns a pointer to the batting side's score.
func (c *CricketState) BattingScore() *CricketScore {
	if c.BattingTeam == TeamA {
		return &c.ScoreA
	}
	return &c.ScoreB
}

// CricketScore is one team's innings total.
type CricketScore struct {
	Runs    int           `json:"runs"`
	Wickets int           `json:"wickets"`
	Overs   int           `json:"overs"`
	Balls   int           `json:"balls"` // legal balls in the current over, 0-5
	Extras  CricketExtras `json:"extras"`
}

// CricketExtras breaks down runs not scored off the bat.
type CricketExtras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
	Byes    int `json:"byes"`
	LegByes int `json:"leg_byes"`
	Penalty int `json:"penalty"`
}

// Total returns all extra runs conceded.
func (e CricketExtras) Total() int {
	return e.Wides + e.NoBalls + e.Byes + e.LegByes + e.Penalty
}

// BatsmanState is a batsman's running score in the current innings.
type BatsmanState struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	Runs       int    `json:"runs"`
	BallsFaced int    `json:"balls_faced"`
	Fours      int    `json:"fours"`
	Sixes      int    `json:"sixes"`
	IsOut      bool   `json:"is_out"`
	Dismissal  string `json:"dismissal,omitempty"` // "bowled", "caught", "lbw", "run_out", "stumped"
	OutBy      string `json:"out_by,omitempty"`
}

// BowlerState is the current bowler's running figures.
type BowlerState struct {
	PlayerID     string `json:"player_id"`
	Name         string `json:"name"`
	BallsBowled  int    `json:"balls_bowled"`
	RunsConceded int    `json:"runs_conceded"`
	Wickets      int    `json:"wickets"`
}

// SquadPlayer is one roster entry, 11-15 per team.
type SquadPlayer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"` // "batsman", "bowler", "all_rounder", "keeper"
	BattingOrder int    `json:"batting_order,omitempty"`
}

// FallOfWicket logs the team score when a wicket fell.
type FallOfWicket struct {
	Wicket    int    `json:"wicket"` // 1-10
	Runs      int    `json:"runs"`   // team total at the fall
	Over      string `json:"over"`   // e.g. "12.4"
	Batsman   string `json:"batsman"`
	Dismissal string `json:"dismissal"`
	OutBy     string `json:"out_by,omitempty"`
}
