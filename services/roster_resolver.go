package services

import (
	"context"

	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
)

// rosterResolver answers which players may act for a team in a match.
type rosterResolver struct {
	roster  repositories.RosterRepository
	lineups repositories.LineupRepository
}

func (r *rosterResolver) fullRoster(ctx context.Context, exec repositories.SQLExecutor, teamID int) ([]models.RosterPlayer, error) {
	players, err := r.roster.ListPlayers(ctx, exec, teamID)
	if err != nil {
		return nil, err
	}
	temps, err := r.roster.ListTempPlayers(ctx, exec, teamID)
	if err != nil {
		return nil, err
	}
	return models.RosterFromPlayers(players, temps), nil
}

// eligible returns the team's starters plus everyone who came on as a replacement. Without a
// lineup for the match the whole roster is eligible.
func (r *rosterResolver) eligible(ctx context.Context, exec repositories.SQLExecutor, teamID, matchID int) ([]models.RosterPlayer, error) {
	roster, err := r.fullRoster(ctx, exec, teamID)
	if err != nil {
		return nil, err
	}

	lineup, err := r.lineups.ListFirstString(ctx, exec, matchID)
	if err != nil {
		return nil, err
	}
	refs := make([]models.PlayerRef, 0, len(lineup))
	for _, p := range lineup {
		if p.TeamID == teamID {
			refs = append(refs, p.PlayerRef)
		}
	}
	if len(refs) == 0 {
		return roster, nil
	}

	replacements, err := r.lineups.ListReplacements(ctx, exec, matchID)
	if err != nil {
		return nil, err
	}
	for _, rep := range replacements {
		if rep.TeamID == teamID {
			refs = append(refs, rep.Replacer)
		}
	}

	eligible := make([]models.RosterPlayer, 0, len(refs))
	for _, p := range roster {
		for _, ref := range refs {
			if p.PlayerRef.Same(ref) {
				eligible = append(eligible, p)
				break
			}
		}
	}
	return eligible, nil
}
