package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/championship-manager/brackets"
	"github.com/Dosada05/championship-manager/jobs"
	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
)

// settlement owns the locked read-decide-write sequence shared by goals, penalties, end game and
// walkovers: lock the championship, reload the match, write the outcome and advance the bracket,
// all in one transaction.
type settlement struct {
	tx            repositories.TxRunner
	championships repositories.ChampionshipRepository
	matches       repositories.MatchRepository
	goals         repositories.GoalRepository
	queue         JobEnqueuer
	events        EventPublisher
	logger        *slog.Logger
}

func newSettlement(
	tx repositories.TxRunner,
	championships repositories.ChampionshipRepository,
	matches repositories.MatchRepository,
	goals repositories.GoalRepository,
	queue JobEnqueuer,
	events EventPublisher,
	logger *slog.Logger,
) *settlement {
	return &settlement{
		tx:            tx,
		championships: championships,
		matches:       matches,
		goals:         goals,
		queue:         queue,
		events:        events,
		logger:        logger,
	}
}

// settleEffects collects what happened inside the transaction; side effects run after commit.
type settleEffects struct {
	championshipID int
	match          *models.Match
	resolved       bool
	recalculate    bool
	nextPhase      *models.Phase
	advanced       []*models.Match
	champion       *int
}

type lockedMatchFunc func(exec repositories.SQLExecutor, championship *models.Championship, match *models.Match, effects *settleEffects) error

// withLockedMatch runs fn inside a transaction holding the championship lock, with the match
// reloaded under that lock. Scoring events require an active championship.
func (s *settlement) withLockedMatch(ctx context.Context, matchID int, fn lockedMatchFunc) (*settleEffects, error) {
	current, err := s.matches.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	effects := &settleEffects{championshipID: current.ChampionshipID}
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.championships.LockForUpdate(ctx, exec, current.ChampionshipID); err != nil {
			return err
		}
		championship, err := s.championships.GetByID(ctx, exec, current.ChampionshipID)
		if err != nil {
			return translateRepoError(err)
		}
		if championship.Status != models.ChampionshipActive {
			return fmt.Errorf("%w: status is %s", ErrChampionshipNotActive, championship.Status)
		}
		match, err := s.matches.GetByID(ctx, exec, matchID)
		if err != nil {
			return translateRepoError(err)
		}
		effects.match = match
		return fn(exec, championship, match, effects)
	})
	if err != nil {
		if errors.Is(err, brackets.ErrBracketIntegrity) {
			s.logger.Error("bracket integrity violation",
				slog.Int("championship_id", current.ChampionshipID),
				slog.Int("match_id", matchID),
				slog.Any("error", err),
			)
		}
		return nil, err
	}

	s.afterCommit(ctx, effects)
	return effects, nil
}

// resolve writes the final outcome of a match and runs phase advancement.
func (s *settlement) resolve(ctx context.Context, exec repositories.SQLExecutor, championship *models.Championship,
	match *models.Match, result repositories.MatchResult, effects *settleEffects) error {

	if err := s.matches.SetResult(ctx, exec, match.ID, result); err != nil {
		return translateRepoError(err)
	}
	match.Winner = result.Winner
	match.Tied = result.Tied
	match.Penalties = result.Penalties
	match.WO = result.WO

	effects.match = match
	effects.resolved = true
	if championship.Format.HasStandings() && match.IsGroupOrLeague() {
		effects.recalculate = true
	}
	return s.advance(ctx, exec, championship, match, effects)
}

// markShootout flags a drawn knockout match for penalties without resolving it.
func (s *settlement) markShootout(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, effects *settleEffects) error {
	if err := s.matches.SetResult(ctx, exec, match.ID, repositories.MatchResult{Penalties: true}); err != nil {
		return translateRepoError(err)
	}
	match.Penalties = true
	effects.match = match
	return nil
}

// advance generates the next phase once every match of the resolved match's phase is decided.
// It is idempotent: a phase whose successor already exists is left alone, and the unique
// lineage index turns a duplicate insert into ErrMatchLineageConflict.
func (s *settlement) advance(ctx context.Context, exec repositories.SQLExecutor, championship *models.Championship,
	match *models.Match, effects *settleEffects) error {

	if match.Phase == nil {
		return nil
	}
	phase := *match.Phase
	if phase == models.PhaseFinals {
		if match.Winner != nil {
			effects.champion = match.Winner
		}
		return nil
	}

	phaseMatches, err := s.matches.ListByPhase(ctx, exec, championship.ID, phase)
	if err != nil {
		return err
	}
	if !brackets.PhaseResolved(phaseMatches) {
		return nil
	}

	var pairings []brackets.Pairing
	var next models.Phase
	if phase == models.PhaseGroupStage {
		tables, err := s.groupTables(ctx, exec, championship, phaseMatches)
		if err != nil {
			return err
		}
		if pairings, err = brackets.GroupQualifiers(championship.ID, tables); err != nil {
			return err
		}
		if next, err = brackets.PhaseForTeamCount(2 * len(pairings)); err != nil {
			return &brackets.IntegrityError{ChampionshipID: championship.ID, Phase: phase, Reason: err.Error()}
		}
	} else {
		if pairings, err = brackets.PairWinners(championship.ID, phase, phaseMatches); err != nil {
			return err
		}
		next = phase.Next()
	}

	existing, err := s.matches.ListByPhase(ctx, exec, championship.ID, next)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, p := range pairings {
		created := &models.Match{
			ChampionshipID:  championship.ID,
			HomeID:          p.HomeID,
			VisitorID:       p.VisitorID,
			Phase:           &next,
			PreviousMatchID: p.PreviousMatchID,
		}
		if err := s.matches.Create(ctx, exec, created); err != nil {
			if errors.Is(err, repositories.ErrMatchLineageConflict) {
				s.logger.Warn("next phase match already exists",
					slog.Int("championship_id", championship.ID),
					slog.Int("previous_match_id", *p.PreviousMatchID),
				)
				continue
			}
			return err
		}
		effects.advanced = append(effects.advanced, created)
	}
	effects.nextPhase = &next

	s.logger.Info("phase advanced",
		slog.Int("championship_id", championship.ID),
		slog.String("from", phase.String()),
		slog.String("to", next.String()),
		slog.Int("matches", len(effects.advanced)),
	)
	return nil
}

// groupTables ranks each group from its matches and goals.
func (s *settlement) groupTables(ctx context.Context, exec repositories.SQLExecutor, championship *models.Championship,
	groupMatches []*models.Match) ([]brackets.GroupTable, error) {

	goals, err := s.goals.ListByChampionship(ctx, exec, championship.ID)
	if err != nil {
		return nil, err
	}
	byMatch := groupGoalsByMatch(goals)

	members := groupMembers(groupMatches)
	tables := make([]brackets.GroupTable, 0, len(members))
	for _, group := range sortedKeys(members) {
		teamIDs := members[group]
		var matches []*models.Match
		for _, m := range groupMatches {
			if m.GroupNumber != nil && *m.GroupNumber == group {
				matches = append(matches, m)
			}
		}
		stats := computeStats(championship.SportType, teamIDs, matches, byMatch)
		tables = append(tables, brackets.GroupTable{
			GroupNumber: group,
			TeamIDs:     rankTeams(championship.SportType, teamIDs, stats),
		})
	}
	return tables, nil
}

func (s *settlement) afterCommit(ctx context.Context, effects *settleEffects) {
	if effects.match != nil {
		s.events.Publish(effects.championshipID, brackets.EventMatchUpdated, effects.match)
	}
	if effects.nextPhase != nil {
		s.events.Publish(effects.championshipID, brackets.EventPhaseAdvanced, map[string]interface{}{
			"phase":   effects.nextPhase.String(),
			"matches": effects.advanced,
		})
	}
	if effects.champion != nil {
		s.events.Publish(effects.championshipID, brackets.EventChampionDecided, map[string]int{
			"championship_id": effects.championshipID,
			"team_id":         *effects.champion,
		})
	}
	if effects.recalculate {
		if _, err := s.queue.Enqueue(ctx, jobs.RecalculateClassification{ChampionshipID: effects.championshipID}, 0); err != nil {
			// the table catches up on the next recalculation
			s.logger.Error("failed to enqueue classification recalculation",
				slog.Int("championship_id", effects.championshipID),
				slog.Any("error", err),
			)
		}
	}
}
