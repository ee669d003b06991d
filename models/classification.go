package models

import "time"

// Classification is one row of a league or group table, maintained by the classification job.
type Classification struct {
	ID             int       `json:"id" db:"id"`
	ChampionshipID int       `json:"championship_id" db:"championship_id"`
	TeamID         int       `json:"team_id" db:"team_id"`
	GroupNumber    *int      `json:"group_number,omitempty" db:"group_number"`
	Points         int       `json:"points" db:"points"`
	Position       int       `json:"position" db:"position"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}

type MatchResult string

const (
	ResultWin  MatchResult = "W"
	ResultDraw MatchResult = "D"
	ResultLoss MatchResult = "L"
)

// LastMatch summarizes one resolved match from a team's point of view. For volleyball
// Scored and Conceded are sets, for soccer goals.
type LastMatch struct {
	MatchID    int         `json:"match_id"`
	OpponentID int         `json:"opponent_id"`
	Scored     int         `json:"scored"`
	Conceded   int         `json:"conceded"`
	Result     MatchResult `json:"result"`
}

// ClassificationRow is a classification enriched with statistics computed from match history.
// Goal fields are set for soccer rows and set fields for volleyball rows.
type ClassificationRow struct {
	Classification
	Matches        int         `json:"matches"`
	Wins           int         `json:"wins"`
	Draws          int         `json:"draws"`
	Losses         int         `json:"losses"`
	ProGoals       *int        `json:"pro_goals,omitempty"`
	GoalsAgainst   *int        `json:"goals_against,omitempty"`
	GoalDifference *int        `json:"goal_difference,omitempty"`
	SetsWon        *int        `json:"sets_won,omitempty"`
	SetsLost       *int        `json:"sets_lost,omitempty"`
	PointsAgainst  *int        `json:"points_against,omitempty"`
	LastMatches    []LastMatch `json:"last_matches"`
}

// ClassificationGroup is one group's table in a group-stage championship.
type ClassificationGroup struct {
	GroupNumber int                 `json:"group_number"`
	Rows        []ClassificationRow `json:"rows"`
}

// Striker is a top scorer entry.
type Striker struct {
	PlayerRef
	TeamID int    `json:"team_id"`
	Name   string `json:"name"`
	Goals  int    `json:"goals"`
}
