package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/Dosada05/championship-manager/models"
)

var (
	ErrNotEnoughTeams   = errors.New("not enough teams to generate bracket")
	ErrInvalidTeamCount = errors.New("team count does not fit the bracket format")
	ErrDuplicateTeam    = errors.New("team appears more than once")
	ErrUnknownFormat    = errors.New("unknown championship format")
)

type GenerateBracketParams struct {
	Championship *models.Championship
	TeamIDs      []int
}

// BracketMatch is a generated pairing that has not been persisted yet.
type BracketMatch struct {
	HomeID      int
	VisitorID   int
	Round       *int
	Phase       *models.Phase
	GroupNumber *int
}

// ToMatch builds the unresolved match row for the pairing.
func (b *BracketMatch) ToMatch(championshipID int) *models.Match {
	return &models.Match{
		ChampionshipID: championshipID,
		HomeID:         b.HomeID,
		VisitorID:      b.VisitorID,
		Round:          b.Round,
		Phase:          b.Phase,
		GroupNumber:    b.GroupNumber,
	}
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}

// ForFormat returns the generator of a championship format. rng drives every random draw.
func ForFormat(format models.Format, rng *rand.Rand) (BracketGenerator, error) {
	switch format {
	case models.FormatKnockout:
		return NewKnockoutGenerator(rng), nil
	case models.FormatLeagueSystem:
		return NewLeagueSystemGenerator(), nil
	case models.FormatGroupStage:
		return NewGroupStageGenerator(rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func checkUnique(teamIDs []int) error {
	seen := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func intPtr(v int) *int { return &v }

func phasePtr(p models.Phase) *models.Phase { return &p }
