package brackets

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Dosada05/championship-manager/models"
)

const maxKnockoutTeams = 64

// PhaseForTeamCount maps the number of teams entering a knockout to its first phase,
// halving from 64 (thirty-second of final) down to 2 (finals).
func PhaseForTeamCount(n int) (models.Phase, error) {
	if n < 2 || n > maxKnockoutTeams || !isPowerOfTwo(n) {
		return 0, fmt.Errorf("%w: knockout needs a power of two between 2 and %d teams, got %d",
			ErrInvalidTeamCount, maxKnockoutTeams, n)
	}
	phase := models.PhaseThirtySecondOfFinal
	for size := maxKnockoutTeams; size > n; size /= 2 {
		phase = phase.Next()
	}
	return phase, nil
}

type KnockoutGenerator struct {
	rng *rand.Rand
}

func NewKnockoutGenerator(rng *rand.Rand) BracketGenerator {
	return &KnockoutGenerator{rng: rng}
}

func (g *KnockoutGenerator) GetName() string {
	return "Knockout"
}

// GenerateBracket draws two distinct teams at a time until the pool is empty. Matches are
// returned in draw order, which is the order the next phase pairs winners in.
func (g *KnockoutGenerator) GenerateBracket(_ context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	if len(params.TeamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}
	if err := checkUnique(params.TeamIDs); err != nil {
		return nil, err
	}
	phase, err := PhaseForTeamCount(len(params.TeamIDs))
	if err != nil {
		return nil, err
	}

	pool := make([]int, len(params.TeamIDs))
	copy(pool, params.TeamIDs)

	matches := make([]*BracketMatch, 0, len(pool)/2)
	for len(pool) > 0 {
		home := g.draw(&pool)
		visitor := g.draw(&pool)
		matches = append(matches, &BracketMatch{HomeID: home, VisitorID: visitor, Phase: phasePtr(phase)})
	}
	return matches, nil
}

func (g *KnockoutGenerator) draw(pool *[]int) int {
	p := *pool
	i := g.rng.Intn(len(p))
	id := p[i]
	p[i] = p[len(p)-1]
	*pool = p[:len(p)-1]
	return id
}
