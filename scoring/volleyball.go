package scoring

import "github.com/Dosada05/championship-manager/models"

const (
	MaxSets       = 5
	SetsToWin     = 3
	setTarget     = 25
	tieBreakSet   = 5
	tieBreakScore = 15
	minSetMargin  = 2
)

// SetTarget returns the points needed to close set n.
func SetTarget(n int) int {
	if n == tieBreakSet {
		return tieBreakScore
	}
	return setTarget
}

// SetFinished reports whether a set ends at this score: the target is reached with a two point lead.
// Past 24-24 (14-14 in the tie-break) play continues until the lead is two.
func SetFinished(n, home, visitor int) bool {
	high, low := home, visitor
	if low > high {
		high, low = low, high
	}
	return high >= SetTarget(n) && high-low >= minSetMargin
}

type volleyballSettler struct{}

func (volleyballSettler) Sport() models.SportType { return models.SportVolleyball }

func (v volleyballSettler) ValidateGoal(match *models.Match, goals []models.Goal, goal *models.Goal) error {
	if goal.Set < 1 || goal.Set > MaxSets {
		return ErrSetInvalid
	}

	result := v.Settle(match, goals)
	if result.Decided {
		return ErrMatchDecided
	}
	if len(result.Sets) == 0 {
		if goal.Set != 1 {
			return ErrSetInvalid
		}
		return nil
	}

	last := result.Sets[len(result.Sets)-1]
	expected := last.Number
	if last.Finished {
		expected = last.Number + 1
	}
	if goal.Set != expected {
		return ErrSetInvalid
	}
	return nil
}

func (volleyballSettler) Settle(match *models.Match, goals []models.Goal) Result {
	var res Result

	lastSet := 0
	for i := range goals {
		if goals[i].Set > lastSet {
			lastSet = goals[i].Set
		}
	}
	if lastSet > MaxSets {
		lastSet = MaxSets
	}

	for n := 1; n <= lastSet; n++ {
		set := SetScore{
			Number:  n,
			Home:    PointsFor(goals, match.HomeID, match.VisitorID, n),
			Visitor: PointsFor(goals, match.VisitorID, match.HomeID, n),
		}
		res.HomeScore += set.Home
		res.VisitorScore += set.Visitor

		if SetFinished(n, set.Home, set.Visitor) {
			set.Finished = true
			winner := match.HomeID
			if set.Visitor > set.Home {
				winner = match.VisitorID
			}
			set.Winner = &winner
			if !res.Decided {
				if winner == match.HomeID {
					res.HomeSets++
				} else {
					res.VisitorSets++
				}
			}
		}
		res.Sets = append(res.Sets, set)

		if !res.Decided && (res.HomeSets == SetsToWin || res.VisitorSets == SetsToWin) {
			winner := match.HomeID
			if res.VisitorSets == SetsToWin {
				winner = match.VisitorID
			}
			res.Winner = &winner
			res.Decided = true
		}
	}
	return res
}
