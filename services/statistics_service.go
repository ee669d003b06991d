package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/championship-manager/brackets"
	"github.com/Dosada05/championship-manager/jobs"
	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
	"golang.org/x/sync/errgroup"
)

type StatisticsService interface {
	GetClassifications(ctx context.Context, championshipID int) ([]models.ClassificationGroup, error)
	GetStrikers(ctx context.Context, championshipID int) ([]models.Striker, error)
	RecalculateClassification(ctx context.Context, championshipID int) error
	HandleRecalculateClassification(ctx context.Context, job jobs.RecalculateClassification) error
}

type statisticsService struct {
	tx              repositories.TxRunner
	championships   repositories.ChampionshipRepository
	matches         repositories.MatchRepository
	goals           repositories.GoalRepository
	classifications repositories.ClassificationRepository
	roster          repositories.RosterRepository
	events          EventPublisher
	logger          *slog.Logger
}

func NewStatisticsService(
	tx repositories.TxRunner,
	championships repositories.ChampionshipRepository,
	matches repositories.MatchRepository,
	goals repositories.GoalRepository,
	classifications repositories.ClassificationRepository,
	roster repositories.RosterRepository,
	events EventPublisher,
	logger *slog.Logger,
) StatisticsService {
	return &statisticsService{
		tx:              tx,
		championships:   championships,
		matches:         matches,
		goals:           goals,
		classifications: classifications,
		roster:          roster,
		events:          events,
		logger:          logger,
	}
}

// standingsData is everything the tables are computed from.
type standingsData struct {
	championship    *models.Championship
	classifications []*models.Classification
	matches         []*models.Match
	goalsByMatch    map[int][]models.Goal
	teams           map[int]models.Team
}

func (s *statisticsService) load(ctx context.Context, exec repositories.SQLExecutor, championshipID int) (*standingsData, error) {
	data := &standingsData{}
	g, gCtx := errgroup.WithContext(ctx)
	if exec != nil {
		// a transaction runs one statement at a time
		g.SetLimit(1)
	}

	g.Go(func() error {
		c, err := s.championships.GetByID(gCtx, exec, championshipID)
		if err != nil {
			return translateRepoError(err)
		}
		data.championship = c
		return nil
	})
	g.Go(func() error {
		rows, err := s.classifications.ListByChampionship(gCtx, exec, championshipID)
		data.classifications = rows
		return err
	})
	g.Go(func() error {
		matches, err := s.matches.ListByChampionship(gCtx, exec, championshipID)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if m.IsGroupOrLeague() {
				data.matches = append(data.matches, m)
			}
		}
		return nil
	})
	g.Go(func() error {
		goals, err := s.goals.ListByChampionship(gCtx, exec, championshipID)
		data.goalsByMatch = groupGoalsByMatch(goals)
		return err
	})
	g.Go(func() error {
		teams, err := s.championships.ListTeams(gCtx, exec, championshipID)
		if err != nil {
			return err
		}
		data.teams = make(map[int]models.Team, len(teams))
		for _, t := range teams {
			data.teams[t.ID] = t
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !data.championship.Format.HasStandings() {
		return nil, ErrStandingsUnsupportedFormat
	}
	return data, nil
}

// byGroup splits classification rows by group number. League rows share group 0.
func byGroup(rows []*models.Classification) map[int][]*models.Classification {
	groups := make(map[int][]*models.Classification)
	for _, row := range rows {
		key := 0
		if row.GroupNumber != nil {
			key = *row.GroupNumber
		}
		groups[key] = append(groups[key], row)
	}
	return groups
}

func matchesOfGroup(matches []*models.Match, group int) []*models.Match {
	out := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if group == 0 && m.Round != nil {
			out = append(out, m)
		} else if m.GroupNumber != nil && *m.GroupNumber == group {
			out = append(out, m)
		}
	}
	return out
}

// GetClassifications returns the stored tables enriched with statistics replayed from the match log.
// League championships have a single table with group number 0.
func (s *statisticsService) GetClassifications(ctx context.Context, championshipID int) ([]models.ClassificationGroup, error) {
	data, err := s.load(ctx, nil, championshipID)
	if err != nil {
		return nil, err
	}
	sport := data.championship.SportType

	grouped := byGroup(data.classifications)
	keys := make([]int, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	result := make([]models.ClassificationGroup, 0, len(keys))
	for _, group := range keys {
		rows := grouped[group]
		teamIDs := make([]int, len(rows))
		for i, row := range rows {
			teamIDs[i] = row.TeamID
		}
		stats := computeStats(sport, teamIDs, matchesOfGroup(data.matches, group), data.goalsByMatch)

		table := models.ClassificationGroup{GroupNumber: group, Rows: make([]models.ClassificationRow, 0, len(rows))}
		for _, row := range rows {
			st := stats[row.TeamID]
			entry := models.ClassificationRow{
				Classification: *row,
				Matches:        st.Matches,
				Wins:           st.Wins,
				Draws:          st.Draws,
				Losses:         st.Losses,
				LastMatches:    st.lastMatches(),
			}
			if team, ok := data.teams[row.TeamID]; ok {
				t := team
				entry.Team = &t
			}
			if sport == models.SportVolleyball {
				entry.SetsWon = intRef(st.SetsWon)
				entry.SetsLost = intRef(st.SetsLost)
				entry.PointsAgainst = intRef(st.PointsAgainst)
			} else {
				entry.ProGoals = intRef(st.GoalsFor)
				entry.GoalsAgainst = intRef(st.GoalsAgainst)
				entry.GoalDifference = intRef(st.GoalsFor - st.GoalsAgainst)
			}
			table.Rows = append(table.Rows, entry)
		}
		result = append(result, table)
	}
	return result, nil
}

// GetStrikers ranks scorers by goals. Own goals do not count.
func (s *statisticsService) GetStrikers(ctx context.Context, championshipID int) ([]models.Striker, error) {
	if _, err := s.championships.GetByID(ctx, nil, championshipID); err != nil {
		return nil, translateRepoError(err)
	}

	var goals []models.Goal
	var roster []models.RosterPlayer
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = s.goals.ListByChampionship(gCtx, nil, championshipID)
		return err
	})
	g.Go(func() error {
		var err error
		roster, err = s.roster.ListByChampionship(gCtx, championshipID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var strikers []models.Striker
	for _, goal := range goals {
		if goal.OwnGoal || !goal.PlayerRef.IsValid() {
			continue
		}
		found := false
		for i := range strikers {
			if strikers[i].PlayerRef.Same(goal.PlayerRef) {
				strikers[i].Goals++
				found = true
				break
			}
		}
		if found {
			continue
		}
		striker := models.Striker{PlayerRef: goal.PlayerRef, TeamID: goal.TeamID, Goals: 1}
		for _, p := range roster {
			if p.PlayerRef.Same(goal.PlayerRef) {
				striker.Name = p.Name
				break
			}
		}
		strikers = append(strikers, striker)
	}

	sort.SliceStable(strikers, func(i, j int) bool {
		if strikers[i].Goals != strikers[j].Goals {
			return strikers[i].Goals > strikers[j].Goals
		}
		return strikers[i].Name < strikers[j].Name
	})
	if strikers == nil {
		return []models.Striker{}, nil
	}
	return strikers, nil
}

// RecalculateClassification rewrites points and positions of every table from the match log.
func (s *statisticsService) RecalculateClassification(ctx context.Context, championshipID int) error {
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.championships.LockForUpdate(ctx, exec, championshipID); err != nil {
			return err
		}
		data, err := s.load(ctx, exec, championshipID)
		if err != nil {
			return err
		}
		sport := data.championship.SportType

		var updated []*models.Classification
		for group, rows := range byGroup(data.classifications) {
			teamIDs := make([]int, len(rows))
			byTeam := make(map[int]*models.Classification, len(rows))
			for i, row := range rows {
				teamIDs[i] = row.TeamID
				byTeam[row.TeamID] = row
			}
			stats := computeStats(sport, teamIDs, matchesOfGroup(data.matches, group), data.goalsByMatch)
			for pos, teamID := range rankTeams(sport, teamIDs, stats) {
				row := byTeam[teamID]
				row.Points = stats[teamID].Points
				row.Position = pos + 1
				updated = append(updated, row)
			}
		}
		return s.classifications.UpdatePointsAndPosition(ctx, exec, updated)
	})
	if err != nil {
		return fmt.Errorf("recalculate classification of championship %d: %w", championshipID, err)
	}

	s.events.Publish(championshipID, brackets.EventStandingsUpdated, map[string]int{"championship_id": championshipID})
	return nil
}

func (s *statisticsService) HandleRecalculateClassification(ctx context.Context, job jobs.RecalculateClassification) error {
	err := s.RecalculateClassification(ctx, job.ChampionshipID)
	if errors.Is(err, ErrChampionshipNotFound) || errors.Is(err, ErrStandingsUnsupportedFormat) {
		s.logger.Warn("skipping classification recalculation",
			slog.Int("championship_id", job.ChampionshipID),
			slog.Any("reason", err),
		)
		return nil
	}
	return err
}
