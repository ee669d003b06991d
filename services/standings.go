package services

import (
	"sort"

	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/scoring"
)

const lastMatchesCount = 3

// teamStats is the per-team aggregate replayed from resolved matches and their goals.
type teamStats struct {
	TeamID        int
	Points        int
	Matches       int
	Wins          int
	Draws         int
	Losses        int
	GoalsFor      int
	GoalsAgainst  int
	SetsWon       int
	SetsLost      int
	PointsAgainst int
	// resolved matches in match order, oldest first
	history []models.LastMatch
}

// balance is goal difference for soccer and set difference for volleyball.
func (s *teamStats) balance(sport models.SportType) int {
	if sport == models.SportVolleyball {
		return s.SetsWon - s.SetsLost
	}
	return s.GoalsFor - s.GoalsAgainst
}

// lastMatches returns up to three most recent matches, newest first.
func (s *teamStats) lastMatches() []models.LastMatch {
	out := make([]models.LastMatch, 0, lastMatchesCount)
	for i := len(s.history) - 1; i >= 0 && len(out) < lastMatchesCount; i-- {
		out = append(out, s.history[i])
	}
	return out
}

// matchPoints returns the table points a team earns from a resolved match.
// Soccer: 3 win, 1 draw. Volleyball: 3 for a 3-0 or 3-1 win, 2 for 3-2, 1 for a 2-3 loss.
func matchPoints(sport models.SportType, won, drawn bool, setsWon, setsLost int) int {
	switch {
	case drawn:
		return 1
	case sport == models.SportVolleyball && won:
		if setsLost >= 2 {
			return 2
		}
		return 3
	case sport == models.SportVolleyball:
		if setsWon >= 2 {
			return 1
		}
		return 0
	case won:
		return 3
	default:
		return 0
	}
}

// computeStats replays every resolved match. Matches must be in chronological (insertion) order.
func computeStats(sport models.SportType, teamIDs []int, matches []*models.Match, goalsByMatch map[int][]models.Goal) map[int]*teamStats {
	stats := make(map[int]*teamStats, len(teamIDs))
	for _, id := range teamIDs {
		stats[id] = &teamStats{TeamID: id}
	}

	settler, err := scoring.ForSport(sport)
	if err != nil {
		return stats
	}

	for _, m := range matches {
		if !m.IsResolved() {
			continue
		}
		result := settler.Settle(m, goalsByMatch[m.ID])
		apply := func(teamID, opponentID, scored, conceded, setsWon, setsLost int) {
			s, ok := stats[teamID]
			if !ok {
				return
			}
			s.Matches++
			s.GoalsFor += scored
			s.GoalsAgainst += conceded
			s.SetsWon += setsWon
			s.SetsLost += setsLost
			s.PointsAgainst += conceded

			won := m.Winner != nil && *m.Winner == teamID
			summary := models.LastMatch{MatchID: m.ID, OpponentID: opponentID, Scored: scored, Conceded: conceded}
			if sport == models.SportVolleyball {
				summary.Scored, summary.Conceded = setsWon, setsLost
			}
			switch {
			case m.Tied:
				s.Draws++
				summary.Result = models.ResultDraw
			case won:
				s.Wins++
				summary.Result = models.ResultWin
			default:
				s.Losses++
				summary.Result = models.ResultLoss
			}
			s.history = append(s.history, summary)
			s.Points += matchPoints(sport, won, m.Tied, setsWon, setsLost)
		}
		apply(m.HomeID, m.VisitorID, result.HomeScore, result.VisitorScore, result.HomeSets, result.VisitorSets)
		apply(m.VisitorID, m.HomeID, result.VisitorScore, result.HomeScore, result.VisitorSets, result.HomeSets)
	}
	return stats
}

// rankTeams orders teams by points, balance, scored points, then team id.
func rankTeams(sport models.SportType, teamIDs []int, stats map[int]*teamStats) []int {
	ranked := make([]int, len(teamIDs))
	copy(ranked, teamIDs)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := stats[ranked[i]], stats[ranked[j]]
		if a == nil || b == nil {
			return ranked[i] < ranked[j]
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.balance(sport) != b.balance(sport) {
			return a.balance(sport) > b.balance(sport)
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	return ranked
}

func groupGoalsByMatch(goals []models.Goal) map[int][]models.Goal {
	byMatch := make(map[int][]models.Goal)
	for _, g := range goals {
		byMatch[g.MatchID] = append(byMatch[g.MatchID], g)
	}
	return byMatch
}

// groupMembers returns the teams of each group, by group number, from group-stage matches.
func groupMembers(matches []*models.Match) map[int][]int {
	members := make(map[int][]int)
	seen := make(map[int]bool)
	for _, m := range matches {
		if m.GroupNumber == nil {
			continue
		}
		g := *m.GroupNumber
		for _, id := range []int{m.HomeID, m.VisitorID} {
			if !seen[id] {
				seen[id] = true
				members[g] = append(members[g], id)
			}
		}
	}
	return members
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
