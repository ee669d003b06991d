package models

import "time"

// Match представляет матч между двумя командами чемпионата.
// Round is set for league matches, Phase for knockout and group-stage matches.
type Match struct {
	ID              int        `json:"id" db:"id"`
	ChampionshipID  int        `json:"championship_id" db:"championship_id"`
	HomeID          int        `json:"home_id" db:"home_id"`
	VisitorID       int        `json:"visitor_id" db:"visitor_id"`
	Round           *int       `json:"round,omitempty" db:"round"`
	Phase           *Phase     `json:"phase,omitempty" db:"phase"`
	GroupNumber     *int       `json:"group_number,omitempty" db:"group_number"`
	Date            *time.Time `json:"date,omitempty" db:"date"`
	Local           *string    `json:"local,omitempty" db:"local"`
	Arbitrator      *string    `json:"arbitrator,omitempty" db:"arbitrator"`
	UniformHome     *string    `json:"uniform_home,omitempty" db:"uniform_home"`
	UniformAway     *string    `json:"uniform_away,omitempty" db:"uniform_away"`
	PreviousMatchID *int       `json:"previous_match_id,omitempty" db:"previous_match_id"`
	Winner          *int       `json:"winner,omitempty" db:"winner"`
	Tied            bool       `json:"tied" db:"tied"`
	Penalties       bool       `json:"penalties" db:"penalties"`
	Prorrogation    bool       `json:"prorrogation" db:"prorrogation"`
	WO              bool       `json:"wo" db:"wo"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// IsResolved reports whether the match has a final outcome.
func (m *Match) IsResolved() bool {
	return m.Winner != nil || m.Tied
}

// IsGroupOrLeague reports whether a draw is an acceptable final outcome.
func (m *Match) IsGroupOrLeague() bool {
	if m.Round != nil {
		return true
	}
	return m.Phase != nil && *m.Phase == PhaseGroupStage
}

// HasTeam reports whether teamID plays this match.
func (m *Match) HasTeam(teamID int) bool {
	return m.HomeID == teamID || m.VisitorID == teamID
}

// Opponent returns the other side of the match for teamID.
func (m *Match) Opponent(teamID int) int {
	if m.HomeID == teamID {
		return m.VisitorID
	}
	return m.HomeID
}

// PlayerRef points at either a registered player or a temporary player. Exactly one is set.
type PlayerRef struct {
	PlayerID     *int `json:"player_id,omitempty" db:"player_id"`
	PlayerTempID *int `json:"player_temp_id,omitempty" db:"player_temp_id"`
}

func (r PlayerRef) IsValid() bool {
	return (r.PlayerID == nil) != (r.PlayerTempID == nil)
}

// Same reports whether both refs point at the same person.
func (r PlayerRef) Same(other PlayerRef) bool {
	switch {
	case r.PlayerID != nil && other.PlayerID != nil:
		return *r.PlayerID == *other.PlayerID
	case r.PlayerTempID != nil && other.PlayerTempID != nil:
		return *r.PlayerTempID == *other.PlayerTempID
	default:
		return false
	}
}

type Goal struct {
	ID      int `json:"id" db:"id"`
	MatchID int `json:"match_id" db:"match_id"`
	TeamID  int `json:"team_id" db:"team_id"`
	PlayerRef
	AssistingPlayerID     *int      `json:"assisting_player_id,omitempty" db:"assisting_player_id"`
	AssistingPlayerTempID *int      `json:"assisting_player_temp_id,omitempty" db:"assisting_player_temp_id"`
	OwnGoal               bool      `json:"own_goal" db:"own_goal"`
	Minutes               *int      `json:"minutes,omitempty" db:"minutes"`
	Set                   int       `json:"set" db:"set"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
}

// CountsFor reports whether the goal adds to teamID's score in a match against opponentID.
func (g *Goal) CountsFor(teamID, opponentID int) bool {
	return (g.TeamID == teamID && !g.OwnGoal) || (g.TeamID == opponentID && g.OwnGoal)
}

type Penalty struct {
	ID      int `json:"id" db:"id"`
	MatchID int `json:"match_id" db:"match_id"`
	TeamID  int `json:"team_id" db:"team_id"`
	PlayerRef
	IsConverted bool      `json:"is_converted" db:"is_converted"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CardType string

const (
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

type Foul struct {
	ID      int `json:"id" db:"id"`
	MatchID int `json:"match_id" db:"match_id"`
	TeamID  int `json:"team_id" db:"team_id"`
	PlayerRef
	Card      *CardType `json:"card,omitempty" db:"card"`
	Minutes   *int      `json:"minutes,omitempty" db:"minutes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FirstStringPlayer is a starter in a match lineup.
type FirstStringPlayer struct {
	ID      int `json:"id" db:"id"`
	MatchID int `json:"match_id" db:"match_id"`
	TeamID  int `json:"team_id" db:"team_id"`
	PlayerRef
}

// Replacement records a substitution. Replacer enters, Replaced leaves.
type Replacement struct {
	ID                 int       `json:"id" db:"id"`
	MatchID            int       `json:"match_id" db:"match_id"`
	TeamID             int       `json:"team_id" db:"team_id"`
	Replaced           PlayerRef `json:"replaced" db:"-"`
	Replacer           PlayerRef `json:"replacer" db:"-"`
	ReplacementMinutes *int      `json:"replacement_minutes,omitempty" db:"replacement_minutes"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// SetPoints is the score of one volleyball set.
type SetPoints struct {
	Number   int  `json:"number"`
	Home     int  `json:"home"`
	Visitor  int  `json:"visitor"`
	Finished bool `json:"finished"`
}

// MatchDetails is the aggregate read by the match details endpoint.
// For volleyball HomeScore and VisitorScore count won sets.
type MatchDetails struct {
	Match        *Match              `json:"match"`
	Home         *Team               `json:"home,omitempty"`
	Visitor      *Team               `json:"visitor,omitempty"`
	HomeScore    int                 `json:"home_score"`
	VisitorScore int                 `json:"visitor_score"`
	Sets         []SetPoints         `json:"sets,omitempty"`
	Goals        []Goal              `json:"goals"`
	Penalties    []Penalty           `json:"penalties"`
	Fouls        []Foul              `json:"fouls"`
	Lineup       []FirstStringPlayer `json:"lineup"`
	Replacements []Replacement       `json:"replacements"`
}
