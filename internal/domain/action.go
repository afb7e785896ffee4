package domain

// Action kinds accepted by the rule engines. Each kind is valid for exactly
// one sport family (shootout actions piggyback on the timed family for
// knockout matches).
const (
	// cricket
	ActionRecordBall   = "recordBall"
	ActionNewBatsman   = "newBatsman"
	ActionChangeBowler = "changeBowler"
	ActionEndInnings   = "endInnings"
	ActionSetToss      = "setToss"
	ActionSetSquad     = "setSquad"

	// set-based
	ActionStartSet        = "startSet"
	ActionUpdateSetPoints = "updateSetPoints"
	ActionToggleServer    = "toggleServer"
	ActionEndSet          = "endSet"

	// timed-period
	ActionRecordScore   = "recordScore"
	ActionTimer         = "timerAction"
	ActionAdvancePeriod = "advancePeriod"

	// penalty shootout
	ActionStartShootout = "startShootout"
	ActionRecordKick    = "recordKick"
	ActionDeclareWinner = "declareWinner"
)

// Timer sub-action kinds for ActionTimer.
const (
	TimerStart   = "start"
	TimerPause   = "pause"
	TimerResume  = "resume"
	TimerStop    = "stop"
	TimerAddTime = "addTime"
)

// Action is the discriminated update payload carried from the admin console to
// a rule engine. Kind selects the operation; the other fields are
// kind-specific parameters and are ignored where they do not apply.
type Action struct {
	Kind string `json:"kind"`

	// cricket: recordBall / newBatsman / changeBowler / setToss / setSquad
	Runs       int           `json:"runs,omitempty"`        // 0-6, runs off the bat or extra runs
	Extra      string        `json:"extra,omitempty"`       // "wide", "no_ball", "bye", "leg_bye"
	WicketType string        `json:"wicket_type,omitempty"` // dismissal kind; empty = no wicket
	OutBy      string        `json:"out_by,omitempty"`
	PlayerID   string        `json:"player_id,omitempty"`
	Squad      []SquadPlayer `json:"squad,omitempty"`

	// toss
	TossWinner   TeamSide `json:"toss_winner,omitempty"`
	TossDecision string   `json:"toss_decision,omitempty"`

	// set-based: startSet / updateSetPoints / endSet
	SetNumber   int `json:"set_number,omitempty"`
	Delta       int `json:"delta,omitempty"` // +1 or -1
	FinalPtsA   int `json:"final_points_a,omitempty"`
	FinalPtsB   int `json:"final_points_b,omitempty"`

	// shared: which side the action concerns
	Team TeamSide `json:"team,omitempty"`

	// timed: recordScore / timerAction
	Points     int    `json:"points,omitempty"` // 1 for most sports, 1/2/3 for basketball
	PlayerName string `json:"player_name,omitempty"`
	Minute     int    `json:"minute,omitempty"`
	ScoreType  string `json:"score_type,omitempty"`
	Timer      string `json:"timer,omitempty"`   // TimerStart..TimerAddTime
	Seconds    int    `json:"seconds,omitempty"` // for addTime

	// shootout: recordKick
	Scored   bool   `json:"scored,omitempty"`
	MissType string `json:"miss_type,omitempty"`
}

// PreLiveAllowed reports whether the action may run while the match is still
// SCHEDULED. Toss-setting and squad edits happen before the first ball.
func (a Action) PreLiveAllowed() bool {
	return a.Kind == ActionSetToss || a.Kind == ActionSetSquad
}
