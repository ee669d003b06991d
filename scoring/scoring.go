package scoring

import (
	"fmt"

	"github.com/Dosada05/championship-manager/models"
)

// AllSets makes PointsFor count goals of every set.
const AllSets = -1

// SetScore is the replayed score of one volleyball set.
type SetScore struct {
	Number   int  `json:"number"`
	Home     int  `json:"home"`
	Visitor  int  `json:"visitor"`
	Finished bool `json:"finished"`
	Winner   *int `json:"winner,omitempty"`
}

// Result is the state of a match replayed from its goal log.
type Result struct {
	HomeScore    int        `json:"home_score"`
	VisitorScore int        `json:"visitor_score"`
	Sets         []SetScore `json:"sets,omitempty"`
	HomeSets     int        `json:"home_sets"`
	VisitorSets  int        `json:"visitor_sets"`
	// Winner is set only when Decided; soccer results are never decided by goals alone.
	Winner  *int `json:"winner,omitempty"`
	Decided bool `json:"decided"`
}

// Settler applies the scoring rules of one sport.
type Settler interface {
	Sport() models.SportType
	// ValidateGoal checks a new goal against the goals already recorded for the match.
	ValidateGoal(match *models.Match, goals []models.Goal, goal *models.Goal) error
	// Settle replays the whole goal log. No state is carried between calls.
	Settle(match *models.Match, goals []models.Goal) Result
}

func ForSport(sport models.SportType) (Settler, error) {
	switch sport {
	case models.SportSoccer:
		return soccerSettler{}, nil
	case models.SportVolleyball:
		return volleyballSettler{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSport, sport)
	}
}

// PointsFor counts the goals credited to teamID against opponentID. Own goals go to the opponent.
func PointsFor(goals []models.Goal, teamID, opponentID, set int) int {
	points := 0
	for i := range goals {
		if set != AllSets && goals[i].Set != set {
			continue
		}
		if goals[i].CountsFor(teamID, opponentID) {
			points++
		}
	}
	return points
}
