package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseOrdering(t *testing.T) {
	assert.Equal(t, PhaseFinals, PhaseSemiFinals.Next())
	assert.Equal(t, PhaseQuarterFinals, PhaseEighthOfFinal.Next())
	assert.Equal(t, "quarter_finals", PhaseQuarterFinals.String())
	assert.False(t, PhaseGroupStage.IsKnockout())
	assert.True(t, PhaseFinals.IsKnockout())
	assert.False(t, Phase(7).IsValid())
}

func TestTeamsInPhase(t *testing.T) {
	assert.Equal(t, 64, PhaseThirtySecondOfFinal.TeamsInPhase())
	assert.Equal(t, 8, PhaseQuarterFinals.TeamsInPhase())
	assert.Equal(t, 2, PhaseFinals.TeamsInPhase())
	assert.Equal(t, 0, PhaseGroupStage.TeamsInPhase())
}

func TestGoalCountsFor(t *testing.T) {
	g := Goal{TeamID: 1}
	assert.True(t, g.CountsFor(1, 2))
	assert.False(t, g.CountsFor(2, 1))

	own := Goal{TeamID: 1, OwnGoal: true}
	assert.False(t, own.CountsFor(1, 2))
	assert.True(t, own.CountsFor(2, 1))
}

func TestPlayerRef(t *testing.T) {
	a, b := 3, 3
	assert.True(t, PlayerRef{PlayerID: &a}.IsValid())
	assert.False(t, PlayerRef{PlayerID: &a, PlayerTempID: &b}.IsValid())
	assert.False(t, PlayerRef{}.IsValid())
	assert.True(t, PlayerRef{PlayerID: &a}.Same(PlayerRef{PlayerID: &b}))
	assert.False(t, PlayerRef{PlayerID: &a}.Same(PlayerRef{PlayerTempID: &b}))
}
