package scoring

import "github.com/Dosada05/championship-manager/models"

const (
	regularRounds      = 5
	regularKicks       = 2 * regularRounds
	firstSuddenDeathAt = regularKicks + 2
)

// ValidateKick checks a new kick against the shootout so far. Teams alternate, and a player
// kicks again only after every one of the team's eligibleCount players has kicked in the
// current rotation.
func ValidateKick(history []models.Penalty, kick models.Penalty, eligibleCount int) error {
	if len(history) > 0 && history[len(history)-1].TeamID == kick.TeamID {
		return ErrPenaltyConsecutive
	}
	if eligibleCount <= 0 {
		return ErrNoEligibleKickers
	}

	teamKicks := make([]models.Penalty, 0, len(history))
	for _, p := range history {
		if p.TeamID == kick.TeamID {
			teamKicks = append(teamKicks, p)
		}
	}

	start := (len(teamKicks) / eligibleCount) * eligibleCount
	for _, p := range teamKicks[start:] {
		if p.PlayerRef.Same(kick.PlayerRef) {
			return ErrPenaltyRotation
		}
	}
	return nil
}

type shootoutTally struct {
	attempts  int
	converted int
	last      *models.Penalty
}

// DecideShootout returns the shootout winner, or nil while it is still open.
func DecideShootout(history []models.Penalty, homeID, visitorID int) *int {
	home, visitor := tally(history, homeID), tally(history, visitorID)
	total := len(history)

	if total <= regularKicks {
		homeLeft := max(0, regularRounds-home.attempts)
		visitorLeft := max(0, regularRounds-visitor.attempts)
		switch {
		case home.converted > visitor.converted+visitorLeft:
			return &homeID
		case visitor.converted > home.converted+homeLeft:
			return &visitorID
		}
		return nil
	}

	if total >= firstSuddenDeathAt && total%2 == 0 && home.last != nil && visitor.last != nil {
		switch {
		case home.last.IsConverted && !visitor.last.IsConverted:
			return &homeID
		case visitor.last.IsConverted && !home.last.IsConverted:
			return &visitorID
		}
	}
	return nil
}

func tally(history []models.Penalty, teamID int) shootoutTally {
	var t shootoutTally
	for i := range history {
		if history[i].TeamID != teamID {
			continue
		}
		t.attempts++
		if history[i].IsConverted {
			t.converted++
		}
		t.last = &history[i]
	}
	return t
}
