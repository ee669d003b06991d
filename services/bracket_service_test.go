package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/Dosada05/championship-manager/brackets"
	"github.com/Dosada05/championship-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) bracketService() BracketService {
	return NewBracketService(h.tx, fakeChampionships{h.db}, fakeMatches{h.db}, fakeClassifications{h.db}, h.events, rand.New(rand.NewSource(7)), h.logger)
}

func registeredChampionship(h *harness, format models.Format, teams int) {
	h.db.addChampionship(&models.Championship{ID: 9, Format: format, SportType: models.SportSoccer, Status: models.ChampionshipCreated, TeamQuantity: teams})
	for i := 0; i < teams; i++ {
		id := 50 + i
		h.db.addTeam(id, models.SportSoccer)
		h.db.register(9, id)
	}
}

func TestCreateKnockout(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	registeredChampionship(h, models.FormatKnockout, 8)
	svc := h.bracketService()

	matches, err := svc.CreateKnockout(ctx, 9)
	require.NoError(t, err)
	require.Len(t, matches, 4)

	seen := make(map[int]bool)
	for _, m := range matches {
		require.NotNil(t, m.Phase)
		assert.Equal(t, models.PhaseQuarterFinals, *m.Phase)
		assert.NotZero(t, m.ID)
		assert.False(t, seen[m.HomeID] || seen[m.VisitorID], "team drawn twice")
		seen[m.HomeID], seen[m.VisitorID] = true, true
	}
	assert.Len(t, seen, 8)
	assert.Empty(t, h.db.classifications)
	assert.Equal(t, []string{brackets.EventBracketCreated}, h.events.types())

	_, err = svc.CreateKnockout(ctx, 9)
	assert.ErrorIs(t, err, ErrBracketAlreadyExists)
}

func TestCreateLeagueSystemSeedsTable(t *testing.T) {
	h := newHarness()
	registeredChampionship(h, models.FormatLeagueSystem, 4)

	matches, err := h.bracketService().CreateLeagueSystem(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, matches, 6)
	for _, m := range matches {
		assert.NotNil(t, m.Round)
		assert.Nil(t, m.Phase)
	}

	require.Len(t, h.db.classifications, 4)
	for i, row := range h.db.classifications {
		assert.Nil(t, row.GroupNumber)
		assert.Equal(t, i+1, row.Position)
		assert.Zero(t, row.Points)
	}
}

func TestCreateGroupStageSeedsGroups(t *testing.T) {
	h := newHarness()
	registeredChampionship(h, models.FormatGroupStage, 8)

	matches, err := h.bracketService().CreateGroupStage(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, matches, 12)

	perGroup := make(map[int]int)
	for _, row := range h.db.classifications {
		require.NotNil(t, row.GroupNumber)
		perGroup[*row.GroupNumber]++
		assert.LessOrEqual(t, row.Position, brackets.GroupSize)
	}
	assert.Equal(t, map[int]int{1: 4, 2: 4}, perGroup)
}

func TestCreateBracketRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("format mismatch", func(t *testing.T) {
		h := newHarness()
		registeredChampionship(h, models.FormatKnockout, 4)
		_, err := h.bracketService().CreateLeagueSystem(ctx, 9)
		assert.ErrorIs(t, err, ErrFormatMismatch)
	})

	t.Run("missing teams", func(t *testing.T) {
		h := newHarness()
		registeredChampionship(h, models.FormatKnockout, 4)
		h.db.championships[9].TeamQuantity = 8
		_, err := h.bracketService().CreateKnockout(ctx, 9)
		assert.ErrorIs(t, err, ErrTeamCountMismatch)
		assert.Empty(t, h.db.matches)
	})

	t.Run("canceled championship", func(t *testing.T) {
		h := newHarness()
		registeredChampionship(h, models.FormatKnockout, 4)
		h.db.championships[9].Status = models.ChampionshipCanceled
		_, err := h.bracketService().CreateKnockout(ctx, 9)
		assert.ErrorIs(t, err, ErrChampionshipInvalidStatus)
	})

	t.Run("unknown championship", func(t *testing.T) {
		h := newHarness()
		_, err := h.bracketService().CreateKnockout(ctx, 9)
		assert.ErrorIs(t, err, ErrChampionshipNotFound)
	})
}
