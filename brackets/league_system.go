package brackets

import (
	"context"

	"github.com/Dosada05/championship-manager/models"
)

const bye = -1

type pairing struct {
	home    int
	visitor int
}

// roundRobinSchedule builds a circle-method schedule: every team meets every other team once
// per leg and plays at most once per round. An odd field adds a bye slot. Return legs repeat
// the first leg with home and away swapped.
func roundRobinSchedule(teamIDs []int, doubleLegs bool) [][]pairing {
	slots := make([]int, len(teamIDs))
	copy(slots, teamIDs)
	if len(slots)%2 == 1 {
		slots = append(slots, bye)
	}

	n := len(slots)
	rounds := make([][]pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := make([]pairing, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := slots[i], slots[n-1-i]
			if a == bye || b == bye {
				continue
			}
			// alternate venues so nobody stays at home for the whole leg
			if (i == 0 && r%2 == 1) || (i > 0 && i%2 == 1) {
				a, b = b, a
			}
			round = append(round, pairing{home: a, visitor: b})
		}
		rounds = append(rounds, round)

		// rotate every slot but the first one step clockwise
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	if doubleLegs {
		firstLeg := len(rounds)
		for r := 0; r < firstLeg; r++ {
			back := make([]pairing, len(rounds[r]))
			for i, p := range rounds[r] {
				back[i] = pairing{home: p.visitor, visitor: p.home}
			}
			rounds = append(rounds, back)
		}
	}
	return rounds
}

type LeagueSystemGenerator struct{}

func NewLeagueSystemGenerator() BracketGenerator {
	return &LeagueSystemGenerator{}
}

func (g *LeagueSystemGenerator) GetName() string {
	return "LeagueSystem"
}

// GenerateBracket creates every league match, numbering rounds from 1.
func (g *LeagueSystemGenerator) GenerateBracket(_ context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	if len(params.TeamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}
	if err := checkUnique(params.TeamIDs); err != nil {
		return nil, err
	}

	doubleLegs := params.Championship != nil && params.Championship.Format == models.FormatLeagueSystem &&
		params.Championship.DoubleStartLeagueSystem

	matches := make([]*BracketMatch, 0)
	for r, round := range roundRobinSchedule(params.TeamIDs, doubleLegs) {
		for _, p := range round {
			matches = append(matches, &BracketMatch{HomeID: p.home, VisitorID: p.visitor, Round: intPtr(r + 1)})
		}
	}
	return matches, nil
}
