package model

import "fmt"

// Choice is a single move in a round. Cooperate is 0 and Defect is 1.
type Choice uint8

const (
	Cooperate Choice = 0
	Defect    Choice = 1
)

func (c Choice) Flip() Choice {
	if c == Cooperate {
		return Defect
	}
	return Cooperate
}

func (c Choice) Valid() bool {
	return c == Cooperate || c == Defect
}

func (c Choice) String() string {
	switch c {
	case Cooperate:
		return "cooperate"
	case Defect:
		return "defect"
	default:
		return fmt.Sprintf("choice(%d)", uint8(c))
	}
}

// Round is one resolved round of a battle.
type Round struct {
	ChoiceA Choice `json:"choice_a"`
	ChoiceB Choice `json:"choice_b"`
	ScoreA  int    `json:"score_a"`
	ScoreB  int    `json:"score_b"`
}

// VersionedRecord captures schema and codec evolution for exported data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// StandingRecord is one ranked colony in an exported tournament result.
type StandingRecord struct {
	Rank             int    `json:"rank"`
	ColonyID         string `json:"colony_id"`
	Label            string `json:"label"`
	Strategy         string `json:"strategy"`
	TournamentScore  int    `json:"tournament_score"`
	TotalBattleScore int    `json:"total_battle_score"`
}

type TournamentRecord struct {
	VersionedRecord
	RunID        string           `json:"run_id"`
	Format       string           `json:"format"`
	Seed         int64            `json:"seed"`
	CreatedAtUTC string           `json:"created_at_utc"`
	WinnerID     string           `json:"winner_id,omitempty"`
	Battles      int              `json:"battles"`
	Standings    []StandingRecord `json:"standings"`
}

// TrajectoryPoint is a colony's lifetime score after a sampling round.
type TrajectoryPoint struct {
	Round            int    `json:"round"`
	ColonyID         string `json:"colony_id"`
	TotalBattleScore int    `json:"total_battle_score"`
}
