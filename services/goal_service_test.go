package services

import (
	"context"
	"testing"

	"github.com/Dosada05/championship-manager/brackets"
	"github.com/Dosada05/championship-manager/jobs"
	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   CreateGoalInput
		setup   func(h *harness)
		wantErr error
	}{
		{
			name:  "registered scorer",
			input: CreateGoalInput{MatchID: 1, TeamID: 10, PlayerID: intPtr(101), AssistingPlayerID: intPtr(102)},
		},
		{
			name:    "scorer and temp scorer",
			input:   CreateGoalInput{MatchID: 1, TeamID: 10, PlayerID: intPtr(101), PlayerTempID: intPtr(7)},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "no scorer",
			input:   CreateGoalInput{MatchID: 1, TeamID: 10},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "team outside the match",
			input:   CreateGoalInput{MatchID: 1, TeamID: 12, PlayerID: intPtr(121)},
			wantErr: ErrTeamNotInMatch,
		},
		{
			name:    "player of the opponent",
			input:   CreateGoalInput{MatchID: 1, TeamID: 10, PlayerID: intPtr(111)},
			wantErr: ErrPlayerNotOnTeam,
		},
		{
			name:    "set on a soccer goal",
			input:   CreateGoalInput{MatchID: 1, TeamID: 10, PlayerID: intPtr(101), Set: 2},
			wantErr: scoring.ErrSetInvalid,
		},
		{
			name:  "finished match",
			input: CreateGoalInput{MatchID: 1, TeamID: 10, PlayerID: intPtr(101)},
			setup: func(h *harness) {
				h.db.match(1).Winner = intPtr(10)
			},
			wantErr: ErrMatchFinished,
		},
		{
			name:  "shootout in progress",
			input: CreateGoalInput{MatchID: 1, TeamID: 10, PlayerID: intPtr(101)},
			setup: func(h *harness) {
				h.db.match(1).Penalties = true
			},
			wantErr: ErrMatchFinished,
		},
		{
			name:  "inactive championship",
			input: CreateGoalInput{MatchID: 1, TeamID: 10, PlayerID: intPtr(101)},
			setup: func(h *harness) {
				h.db.championships[1].Status = models.ChampionshipCreated
			},
			wantErr: ErrChampionshipNotActive,
		},
		{
			name:  "starter only once a lineup exists",
			input: CreateGoalInput{MatchID: 1, TeamID: 10, PlayerID: intPtr(103)},
			setup: func(h *harness) {
				h.db.lineup = append(h.db.lineup, models.FirstStringPlayer{MatchID: 1, TeamID: 10, PlayerRef: models.PlayerRef{PlayerID: intPtr(101)}})
			},
			wantErr: ErrPlayerNotOnTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			semiFinals(h)
			if tt.setup != nil {
				tt.setup(h)
			}

			goal, err := h.goalService().CreateGoal(ctx, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, h.db.goals)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, goal.ID)
			require.Len(t, h.db.goals, 1)
			assert.Equal(t, []string{brackets.EventMatchUpdated}, h.events.types())
		})
	}
}

func TestCreateGoalVolleyballDecidesMatch(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.db.addChampionship(&models.Championship{ID: 3, Format: models.FormatLeagueSystem, SportType: models.SportVolleyball, Status: models.ChampionshipActive, TeamQuantity: 2})
	h.db.addTeam(30, models.SportVolleyball)
	h.db.addTeam(31, models.SportVolleyball)
	h.db.register(3, 30, 31)
	h.db.addMatch(&models.Match{ID: 5, ChampionshipID: 3, HomeID: 30, VisitorID: 31, Round: intPtr(1)})

	h.db.seedGoals(5, 30, 1, 25)
	h.db.seedGoals(5, 31, 1, 20)
	h.db.seedGoals(5, 30, 2, 25)
	h.db.seedGoals(5, 30, 3, 24)
	h.db.seedGoals(5, 31, 3, 23)

	svc := h.goalService()

	_, err := svc.CreateGoal(ctx, CreateGoalInput{MatchID: 5, TeamID: 30, PlayerID: intPtr(301), Set: 4})
	require.ErrorIs(t, err, scoring.ErrSetInvalid, "set 3 is still open")

	_, err = svc.CreateGoal(ctx, CreateGoalInput{MatchID: 5, TeamID: 30, PlayerID: intPtr(301), Set: 3})
	require.NoError(t, err)

	match := h.db.match(5)
	require.NotNil(t, match.Winner)
	assert.Equal(t, 30, *match.Winner)
	assert.False(t, match.Penalties)
	require.Len(t, h.queue.payloads, 1)
	assert.Equal(t, jobs.RecalculateClassification{ChampionshipID: 3}, h.queue.payloads[0])

	_, err = svc.CreateGoal(ctx, CreateGoalInput{MatchID: 5, TeamID: 31, PlayerID: intPtr(311), Set: 4})
	assert.ErrorIs(t, err, ErrMatchFinished)
}

func TestListGoalsUnknownMatch(t *testing.T) {
	h := newHarness()
	_, err := h.goalService().ListByMatch(context.Background(), 42)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
