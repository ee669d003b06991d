package models

import "fmt"

// Phase is the ordered stage label of knockout and group-stage matches.
// Advancing a bracket moves to Phase+1.
type Phase int

const (
	PhaseGroupStage Phase = iota
	PhaseThirtySecondOfFinal
	PhaseSixteenthOfFinal
	PhaseEighthOfFinal
	PhaseQuarterFinals
	PhaseSemiFinals
	PhaseFinals
)

var phaseNames = map[Phase]string{
	PhaseGroupStage:          "group_stage",
	PhaseThirtySecondOfFinal: "thirty_second_of_final",
	PhaseSixteenthOfFinal:    "sixteenth_of_final",
	PhaseEighthOfFinal:       "eighth_of_final",
	PhaseQuarterFinals:       "quarter_finals",
	PhaseSemiFinals:          "semi_finals",
	PhaseFinals:              "finals",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) IsValid() bool {
	_, ok := phaseNames[p]
	return ok
}

// IsKnockout reports whether matches in this phase eliminate the loser.
func (p Phase) IsKnockout() bool {
	return p > PhaseGroupStage && p <= PhaseFinals
}

func (p Phase) Next() Phase {
	return p + 1
}

// TeamsInPhase returns how many teams play a knockout phase (64 for thirty-second of final, 2 for finals).
func (p Phase) TeamsInPhase() int {
	if !p.IsKnockout() {
		return 0
	}
	return 1 << uint(PhaseFinals-p+1)
}
