package scoring

import (
	"testing"

	"github.com/Dosada05/championship-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kick(teamID, playerID int, converted bool) models.Penalty {
	return models.Penalty{TeamID: teamID, PlayerRef: models.PlayerRef{PlayerID: intPtr(playerID)}, IsConverted: converted}
}

func TestValidateKickAlternatesTeams(t *testing.T) {
	history := []models.Penalty{kick(homeID, 11, true)}
	assert.ErrorIs(t, ValidateKick(history, kick(homeID, 12, true), 5), ErrPenaltyConsecutive)
	assert.NoError(t, ValidateKick(history, kick(visitorID, 21, true), 5))
	assert.ErrorIs(t, ValidateKick(nil, kick(homeID, 11, true), 0), ErrNoEligibleKickers)
}

func TestValidateKickRotation(t *testing.T) {
	// two eligible players per team: 11 and 12 for home
	var history []models.Penalty
	history = append(history, kick(homeID, 11, true), kick(visitorID, 21, true))

	assert.ErrorIs(t, ValidateKick(history, kick(homeID, 11, true), 2), ErrPenaltyRotation)
	assert.NoError(t, ValidateKick(history, kick(homeID, 12, true), 2))

	history = append(history, kick(homeID, 12, true), kick(visitorID, 22, true))
	// everyone kicked once: the rotation restarts
	assert.NoError(t, ValidateKick(history, kick(homeID, 11, true), 2))
	assert.NoError(t, ValidateKick(history, kick(homeID, 12, true), 2))

	history = append(history, kick(homeID, 12, false), kick(visitorID, 21, true))
	assert.ErrorIs(t, ValidateKick(history, kick(homeID, 12, true), 2), ErrPenaltyRotation)
	assert.NoError(t, ValidateKick(history, kick(homeID, 11, true), 2))
}

func TestValidateKickTempPlayersRotateSeparately(t *testing.T) {
	temp := models.Penalty{TeamID: homeID, PlayerRef: models.PlayerRef{PlayerTempID: intPtr(11)}}
	history := []models.Penalty{kick(homeID, 11, true), kick(visitorID, 21, true)}
	assert.NoError(t, ValidateKick(history, temp, 3))
}

func TestDecideShootoutEarly(t *testing.T) {
	var history []models.Penalty
	for round := 0; round < 3; round++ {
		history = append(history, kick(homeID, 11+round, true))
		if round < 2 {
			assert.Nil(t, DecideShootout(history, homeID, visitorID), "round %d", round)
		}
		history = append(history, kick(visitorID, 21+round, false))
		if round < 2 {
			assert.Nil(t, DecideShootout(history, homeID, visitorID), "round %d", round)
		}
	}

	// 3-0 after three rounds: the visitor can reach at most 2
	winner := DecideShootout(history, homeID, visitorID)
	require.NotNil(t, winner)
	assert.Equal(t, homeID, *winner)
}

func TestDecideShootoutBeforeOpponentKicks(t *testing.T) {
	var history []models.Penalty
	for round := 0; round < 4; round++ {
		history = append(history, kick(homeID, 11+round, false), kick(visitorID, 21+round, true))
	}
	// 0-4 after four rounds is already decided
	winner := DecideShootout(history, homeID, visitorID)
	require.NotNil(t, winner)
	assert.Equal(t, visitorID, *winner)
}

func TestDecideShootoutSuddenDeath(t *testing.T) {
	var history []models.Penalty
	for round := 0; round < 5; round++ {
		history = append(history, kick(homeID, 11+round, true), kick(visitorID, 21+round, true))
	}
	assert.Nil(t, DecideShootout(history, homeID, visitorID))

	history = append(history, kick(homeID, 16, true))
	assert.Nil(t, DecideShootout(history, homeID, visitorID))

	history = append(history, kick(visitorID, 26, true))
	assert.Nil(t, DecideShootout(history, homeID, visitorID))

	history = append(history, kick(homeID, 17, false), kick(visitorID, 27, true))
	winner := DecideShootout(history, homeID, visitorID)
	require.NotNil(t, winner)
	assert.Equal(t, visitorID, *winner)
}
