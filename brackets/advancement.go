package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/championship-manager/models"
)

// ErrBracketIntegrity matches every IntegrityError.
var ErrBracketIntegrity = errors.New("bracket integrity violation")

// IntegrityError reports a phase whose state cannot produce a well-formed next phase.
type IntegrityError struct {
	ChampionshipID int
	Phase          models.Phase
	Reason         string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: championship %d, phase %s: %s", ErrBracketIntegrity, e.ChampionshipID, e.Phase, e.Reason)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrBracketIntegrity
}

// Pairing is a next-phase match built from resolved matches.
type Pairing struct {
	HomeID          int
	VisitorID       int
	PreviousMatchID *int
}

// PhaseResolved reports whether every match of a phase has a winner. Group-stage draws count as resolved.
func PhaseResolved(matches []*models.Match) bool {
	if len(matches) == 0 {
		return false
	}
	for _, m := range matches {
		if !m.IsResolved() {
			return false
		}
	}
	return true
}

// PairWinners pairs the winners of consecutive matches (0 with 1, 2 with 3, ...) in the order
// given, which must be insertion order. Each pairing points back at the first of its two source
// matches.
func PairWinners(championshipID int, phase models.Phase, matches []*models.Match) ([]Pairing, error) {
	if len(matches) == 0 {
		return nil, &IntegrityError{ChampionshipID: championshipID, Phase: phase, Reason: "phase has no matches"}
	}
	if len(matches)%2 != 0 {
		return nil, &IntegrityError{
			ChampionshipID: championshipID,
			Phase:          phase,
			Reason:         fmt.Sprintf("odd number of matches (%d) cannot be paired", len(matches)),
		}
	}

	pairings := make([]Pairing, 0, len(matches)/2)
	for i := 0; i < len(matches); i += 2 {
		first, second := matches[i], matches[i+1]
		for _, m := range []*models.Match{first, second} {
			if m.Winner == nil {
				return nil, &IntegrityError{
					ChampionshipID: championshipID,
					Phase:          phase,
					Reason:         fmt.Sprintf("match %d has no winner", m.ID),
				}
			}
		}
		previous := first.ID
		pairings = append(pairings, Pairing{HomeID: *first.Winner, VisitorID: *second.Winner, PreviousMatchID: &previous})
	}
	return pairings, nil
}

// GroupTable is a group's teams ranked best first.
type GroupTable struct {
	GroupNumber int
	TeamIDs     []int
}

// GroupQualifiers builds the first knockout phase out of the top two of each group. Groups are
// taken in pairs (A, B): A1 meets B2 and B1 meets A2. All "A1" matches come first so teams from
// the same group can only meet again in the final. A single group plays its final directly.
func GroupQualifiers(championshipID int, tables []GroupTable) ([]Pairing, error) {
	for _, t := range tables {
		if len(t.TeamIDs) < 2 {
			return nil, &IntegrityError{
				ChampionshipID: championshipID,
				Phase:          models.PhaseGroupStage,
				Reason:         fmt.Sprintf("group %d has fewer than two ranked teams", t.GroupNumber),
			}
		}
	}

	switch {
	case len(tables) == 1:
		return []Pairing{{HomeID: tables[0].TeamIDs[0], VisitorID: tables[0].TeamIDs[1]}}, nil
	case len(tables) == 0 || len(tables)%2 != 0:
		return nil, &IntegrityError{
			ChampionshipID: championshipID,
			Phase:          models.PhaseGroupStage,
			Reason:         fmt.Sprintf("cannot cross %d groups", len(tables)),
		}
	}

	firsts := make([]Pairing, 0, len(tables)/2)
	seconds := make([]Pairing, 0, len(tables)/2)
	for i := 0; i < len(tables); i += 2 {
		a, b := tables[i].TeamIDs, tables[i+1].TeamIDs
		firsts = append(firsts, Pairing{HomeID: a[0], VisitorID: b[1]})
		seconds = append(seconds, Pairing{HomeID: b[0], VisitorID: a[1]})
	}
	return append(firsts, seconds...), nil
}
