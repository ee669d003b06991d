package scoring

import "github.com/Dosada05/championship-manager/models"

type soccerSettler struct{}

func (soccerSettler) Sport() models.SportType { return models.SportSoccer }

func (soccerSettler) ValidateGoal(_ *models.Match, _ []models.Goal, goal *models.Goal) error {
	if goal.Set != 0 {
		return ErrSetInvalid
	}
	return nil
}

func (soccerSettler) Settle(match *models.Match, goals []models.Goal) Result {
	return Result{
		HomeScore:    PointsFor(goals, match.HomeID, match.VisitorID, AllSets),
		VisitorScore: PointsFor(goals, match.VisitorID, match.HomeID, AllSets),
	}
}

// Outcome is what EndGame writes for a soccer match.
type Outcome struct {
	Winner    *int
	Tied      bool
	Penalties bool
}

// SoccerOutcome decides a soccer match at the final whistle. A draw stands only in league and
// group-stage matches; a drawn knockout match goes to penalties with no winner yet.
func SoccerOutcome(match *models.Match, result Result) Outcome {
	switch {
	case result.HomeScore > result.VisitorScore:
		winner := match.HomeID
		return Outcome{Winner: &winner}
	case result.VisitorScore > result.HomeScore:
		winner := match.VisitorID
		return Outcome{Winner: &winner}
	case match.IsGroupOrLeague():
		return Outcome{Tied: true}
	default:
		return Outcome{Penalties: true}
	}
}
