package brackets

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Dosada05/championship-manager/models"
)

// GroupSize is the number of teams per group.
const GroupSize = 4

// GroupCountForTeams validates a group-stage field and returns the number of groups. The group
// count must be a power of two so the two qualifiers per group fill a knockout bracket.
func GroupCountForTeams(n int) (int, error) {
	if n < GroupSize || n%GroupSize != 0 || !isPowerOfTwo(n/GroupSize) || n > maxKnockoutTeams {
		return 0, fmt.Errorf("%w: group stage needs 4, 8, 16, 32 or 64 teams, got %d", ErrInvalidTeamCount, n)
	}
	return n / GroupSize, nil
}

type GroupStageGenerator struct {
	rng *rand.Rand
}

func NewGroupStageGenerator(rng *rand.Rand) BracketGenerator {
	return &GroupStageGenerator{rng: rng}
}

func (g *GroupStageGenerator) GetName() string {
	return "GroupStage"
}

// GenerateBracket shuffles the field into groups of four and schedules a round robin inside
// each group. Group numbers start at 1.
func (g *GroupStageGenerator) GenerateBracket(_ context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	if err := checkUnique(params.TeamIDs); err != nil {
		return nil, err
	}
	groups, err := GroupCountForTeams(len(params.TeamIDs))
	if err != nil {
		return nil, err
	}

	shuffled := make([]int, len(params.TeamIDs))
	copy(shuffled, params.TeamIDs)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	doubleLegs := params.Championship != nil && params.Championship.DoubleMatchGroupStage

	matches := make([]*BracketMatch, 0)
	for group := 1; group <= groups; group++ {
		members := shuffled[(group-1)*GroupSize : group*GroupSize]
		for _, round := range roundRobinSchedule(members, doubleLegs) {
			for _, p := range round {
				matches = append(matches, &BracketMatch{
					HomeID:      p.home,
					VisitorID:   p.visitor,
					Phase:       phasePtr(models.PhaseGroupStage),
					GroupNumber: intPtr(group),
				})
			}
		}
	}
	return matches, nil
}
