package services

import (
	"context"
	"slices"
	"testing"

	"github.com/Dosada05/championship-manager/brackets"
	"github.com/Dosada05/championship-manager/jobs"
	"github.com/Dosada05/championship-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knockoutChampionship(h *harness, sport models.SportType, teams int) *models.Championship {
	return h.db.addChampionship(&models.Championship{
		ID:           1,
		Name:         "Copa",
		TeamQuantity: teams,
		Format:       models.FormatKnockout,
		SportType:    sport,
		Status:       models.ChampionshipActive,
	})
}

func semiFinals(h *harness) {
	knockoutChampionship(h, models.SportSoccer, 4)
	for _, id := range []int{10, 11, 12, 13} {
		h.db.addTeam(id, models.SportSoccer)
	}
	h.db.register(1, 10, 11, 12, 13)
	h.db.addMatch(&models.Match{ID: 1, ChampionshipID: 1, HomeID: 10, VisitorID: 11, Phase: phasePtr(models.PhaseSemiFinals)})
	h.db.addMatch(&models.Match{ID: 2, ChampionshipID: 1, HomeID: 12, VisitorID: 13, Phase: phasePtr(models.PhaseSemiFinals)})
}

func TestEndGameAdvancesKnockout(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	semiFinals(h)
	svc := h.matchService()

	h.db.seedGoals(1, 11, 0, 2)
	h.db.seedGoals(1, 10, 0, 1)
	match, err := svc.EndGame(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, match.Winner)
	assert.Equal(t, 11, *match.Winner)
	assert.Empty(t, h.db.matchesOfPhase(1, models.PhaseFinals), "final waits for the other semi-final")

	h.db.seedGoals(2, 12, 0, 3)
	_, err = svc.EndGame(ctx, 2)
	require.NoError(t, err)

	finals := h.db.matchesOfPhase(1, models.PhaseFinals)
	require.Len(t, finals, 1)
	assert.Equal(t, 11, finals[0].HomeID)
	assert.Equal(t, 12, finals[0].VisitorID)
	require.NotNil(t, finals[0].PreviousMatchID)
	assert.Equal(t, 1, *finals[0].PreviousMatchID)
	assert.Contains(t, h.events.types(), brackets.EventPhaseAdvanced)

	_, err = svc.Walkover(ctx, finals[0].ID, 12)
	require.NoError(t, err)
	assert.Contains(t, h.events.types(), brackets.EventChampionDecided)
	assert.True(t, h.db.match(finals[0].ID).WO)

	// knockout results never touch standings
	assert.Empty(t, h.queue.payloads)
}

func TestAdvanceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	semiFinals(h)
	svc := h.matchService()

	_, err := svc.Walkover(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Walkover(ctx, 2, 13)
	require.NoError(t, err)
	require.Len(t, h.db.matchesOfPhase(1, models.PhaseFinals), 1)

	s := h.settlement()
	championship := h.db.championships[1]
	last := *h.db.match(2)
	effects := &settleEffects{championshipID: 1}
	require.NoError(t, s.advance(ctx, nil, championship, &last, effects))

	assert.Len(t, h.db.matchesOfPhase(1, models.PhaseFinals), 1)
	assert.Nil(t, effects.nextPhase)
	assert.Empty(t, effects.advanced)
}

func TestAdvanceReportsBracketIntegrity(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	semiFinals(h)
	// a stray third semi-final leaves an odd number of winners
	h.db.addTeam(14, models.SportSoccer)
	h.db.addTeam(15, models.SportSoccer)
	h.db.addMatch(&models.Match{ID: 3, ChampionshipID: 1, HomeID: 14, VisitorID: 15, Phase: phasePtr(models.PhaseSemiFinals), Winner: intPtr(14)})
	svc := h.matchService()

	_, err := svc.Walkover(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Walkover(ctx, 2, 12)
	require.ErrorIs(t, err, brackets.ErrBracketIntegrity)
	assert.Empty(t, h.db.matchesOfPhase(1, models.PhaseFinals))
}

func TestEndGameDrawnKnockoutGoesToPenalties(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	semiFinals(h)
	svc := h.matchService()

	h.db.seedGoals(1, 10, 0, 1)
	h.db.seedGoals(1, 11, 0, 1)
	match, err := svc.EndGame(ctx, 1)
	require.NoError(t, err)
	assert.True(t, match.Penalties)
	assert.Nil(t, match.Winner)
	assert.False(t, match.IsResolved())

	_, err = svc.EndGame(ctx, 1)
	assert.ErrorIs(t, err, ErrMatchNotFinished)
}

func TestEndGameLeagueDrawEnqueuesRecalculation(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.db.addChampionship(&models.Championship{ID: 2, Format: models.FormatLeagueSystem, SportType: models.SportSoccer, Status: models.ChampionshipActive, TeamQuantity: 2})
	h.db.addTeam(20, models.SportSoccer)
	h.db.addTeam(21, models.SportSoccer)
	h.db.addMatch(&models.Match{ID: 7, ChampionshipID: 2, HomeID: 20, VisitorID: 21, Round: intPtr(1)})

	match, err := h.matchService().EndGame(ctx, 7)
	require.NoError(t, err)
	assert.True(t, match.Tied)
	assert.Nil(t, match.Winner)

	require.Len(t, h.queue.payloads, 1)
	assert.Equal(t, jobs.RecalculateClassification{ChampionshipID: 2}, h.queue.payloads[0])
}

func TestEndGameVolleyballNeedsThreeSets(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	knockoutChampionship(h, models.SportVolleyball, 2)
	h.db.addTeam(10, models.SportVolleyball)
	h.db.addTeam(11, models.SportVolleyball)
	h.db.addMatch(&models.Match{ID: 1, ChampionshipID: 1, HomeID: 10, VisitorID: 11, Phase: phasePtr(models.PhaseFinals)})
	h.db.seedGoals(1, 10, 1, 25)

	_, err := h.matchService().EndGame(ctx, 1)
	assert.ErrorIs(t, err, ErrMatchNotFinished)
}

func TestSettlementRequiresActiveChampionship(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	semiFinals(h)
	h.db.championships[1].Status = models.ChampionshipInactive

	_, err := h.matchService().Walkover(ctx, 1, 10)
	assert.ErrorIs(t, err, ErrChampionshipNotActive)

	_, err = h.matchService().Walkover(ctx, 99, 10)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestWalkoverRejectsOutsider(t *testing.T) {
	h := newHarness()
	semiFinals(h)

	_, err := h.matchService().Walkover(context.Background(), 1, 12)
	assert.ErrorIs(t, err, ErrTeamNotInMatch)
	assert.Nil(t, h.db.match(1).Winner)
}

func TestGetDetailsReplaysScore(t *testing.T) {
	h := newHarness()
	semiFinals(h)
	h.db.seedGoals(1, 10, 0, 2)
	h.db.goals = append(h.db.goals, models.Goal{MatchID: 1, TeamID: 11, PlayerRef: models.PlayerRef{PlayerID: intPtr(111)}, OwnGoal: true})

	details, err := h.matchService().GetDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, details.HomeScore)
	assert.Equal(t, 0, details.VisitorScore)
	assert.Len(t, details.Goals, 3)
	require.NotNil(t, details.Home)
	assert.Equal(t, 10, details.Home.ID)
}

func TestGroupStageAdvancesToCrossedSemiFinals(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	registeredChampionship(h, models.FormatGroupStage, 8)

	groupMatches, err := h.bracketService().CreateGroupStage(ctx, 9)
	require.NoError(t, err)
	require.Len(t, groupMatches, 12)
	h.db.championships[9].Status = models.ChampionshipActive

	// the lower team id wins every group match, so each group ranks by ascending id
	members := make(map[int][]int)
	svc := h.matchService()
	for _, m := range groupMatches {
		require.NotNil(t, m.GroupNumber)
		g := *m.GroupNumber
		for _, id := range []int{m.HomeID, m.VisitorID} {
			if !slices.Contains(members[g], id) {
				members[g] = append(members[g], id)
			}
		}
		_, err := svc.Walkover(ctx, m.ID, min(m.HomeID, m.VisitorID))
		require.NoError(t, err)
	}
	require.Len(t, members, 2)
	a, b := members[1], members[2]
	slices.Sort(a)
	slices.Sort(b)

	semis := h.db.matchesOfPhase(9, models.PhaseSemiFinals)
	require.Len(t, semis, 2)
	assert.Equal(t, [2]int{a[0], b[1]}, [2]int{semis[0].HomeID, semis[0].VisitorID})
	assert.Equal(t, [2]int{b[0], a[1]}, [2]int{semis[1].HomeID, semis[1].VisitorID})
	for _, m := range semis {
		assert.Nil(t, m.PreviousMatchID)
		assert.Nil(t, m.Winner)
	}
	assert.Contains(t, h.events.types(), brackets.EventPhaseAdvanced)

	// advancing the resolved group stage again must not duplicate the semi-finals
	last := groupMatches[len(groupMatches)-1]
	stored, err := fakeMatches{h.db}.GetByID(ctx, nil, last.ID)
	require.NoError(t, err)
	effects := &settleEffects{championshipID: 9}
	require.NoError(t, h.settlement().advance(ctx, nil, h.db.championships[9], stored, effects))
	assert.Empty(t, effects.advanced)
	assert.Len(t, h.db.matchesOfPhase(9, models.PhaseSemiFinals), 2)

	for _, m := range semis {
		_, err := svc.Walkover(ctx, m.ID, m.HomeID)
		require.NoError(t, err)
	}
	finals := h.db.matchesOfPhase(9, models.PhaseFinals)
	require.Len(t, finals, 1)
	assert.Equal(t, a[0], finals[0].HomeID)
	assert.Equal(t, b[0], finals[0].VisitorID)
}
