package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/championship-manager/jobs"
	"github.com/Dosada05/championship-manager/models"
	"github.com/Dosada05/championship-manager/repositories"
	"github.com/google/uuid"
)

// memDB backs every fake repository of the services tests.
type memDB struct {
	mu sync.Mutex

	championships map[int]*models.Championship
	registrations map[int][]int
	teams         map[int]*models.Team
	players       map[int][]models.Player
	temps         map[int][]models.TempPlayer

	matches         []*models.Match
	goals           []models.Goal
	penalties       []models.Penalty
	fouls           []models.Foul
	lineup          []models.FirstStringPlayer
	replacements    []models.Replacement
	classifications []*models.Classification

	locks  int
	nextID int
}

func newMemDB() *memDB {
	return &memDB{
		championships: make(map[int]*models.Championship),
		registrations: make(map[int][]int),
		teams:         make(map[int]*models.Team),
		players:       make(map[int][]models.Player),
		temps:         make(map[int][]models.TempPlayer),
		nextID:        1000,
	}
}

func (db *memDB) id() int {
	db.nextID++
	return db.nextID
}

func (db *memDB) addChampionship(c *models.Championship) *models.Championship {
	db.championships[c.ID] = c
	return c
}

// addTeam creates a team with five registered players numbered teamID*10+1..5.
func (db *memDB) addTeam(id int, sport models.SportType) {
	db.teams[id] = &models.Team{ID: id, Name: "team", SportType: sport}
	for i := 1; i <= 5; i++ {
		db.players[id] = append(db.players[id], models.Player{ID: id*10 + i, TeamID: id, Name: "player"})
	}
}

func (db *memDB) register(championshipID int, teamIDs ...int) {
	db.registrations[championshipID] = append(db.registrations[championshipID], teamIDs...)
}

func (db *memDB) addMatch(m *models.Match) *models.Match {
	db.matches = append(db.matches, m)
	return m
}

func (db *memDB) match(id int) *models.Match {
	for _, m := range db.matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (db *memDB) matchesOfPhase(championshipID int, phase models.Phase) []*models.Match {
	var out []*models.Match
	for _, m := range db.matches {
		if m.ChampionshipID == championshipID && m.Phase != nil && *m.Phase == phase {
			out = append(out, m)
		}
	}
	return out
}

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

type fakeChampionships struct{ db *memDB }

func (f fakeChampionships) Create(_ context.Context, _ repositories.SQLExecutor, c *models.Championship) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.championships {
		if existing.OrganizerID == c.OrganizerID && existing.Name == c.Name {
			return repositories.ErrChampionshipNameConflict
		}
	}
	c.ID = f.db.id()
	copied := *c
	f.db.championships[c.ID] = &copied
	return nil
}

func (f fakeChampionships) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Championship, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.championships[id]
	if !ok || c.Deleted {
		return nil, repositories.ErrChampionshipNotFound
	}
	copied := *c
	return &copied, nil
}

func (f fakeChampionships) ListByOrganizer(_ context.Context, organizerID int) ([]models.Championship, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Championship
	for _, c := range f.db.championships {
		if c.OrganizerID == organizerID && !c.Deleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f fakeChampionships) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.ChampionshipStatus) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.championships[id]
	if !ok {
		return repositories.ErrChampionshipNotFound
	}
	c.Status = status
	return nil
}

func (f fakeChampionships) SoftDelete(_ context.Context, id int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.championships[id]
	if !ok || c.Deleted {
		return repositories.ErrChampionshipNotFound
	}
	c.Deleted = true
	return nil
}

func (f fakeChampionships) LockForUpdate(_ context.Context, _ repositories.SQLExecutor, _ int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.locks++
	return nil
}

func (f fakeChampionships) AddTeam(_ context.Context, _ repositories.SQLExecutor, championshipID, teamID int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, id := range f.db.registrations[championshipID] {
		if id == teamID {
			return repositories.ErrChampionshipTeamExists
		}
	}
	f.db.registrations[championshipID] = append(f.db.registrations[championshipID], teamID)
	return nil
}

func (f fakeChampionships) ListTeams(_ context.Context, _ repositories.SQLExecutor, championshipID int) ([]models.Team, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Team
	for _, id := range f.db.registrations[championshipID] {
		if t, ok := f.db.teams[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f fakeChampionships) CountTeams(_ context.Context, _ repositories.SQLExecutor, championshipID int) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return len(f.db.registrations[championshipID]), nil
}

type fakeTeams struct{ db *memDB }

func (f fakeTeams) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (f fakeTeams) UpdateEmblemKey(_ context.Context, teamID int, emblemKey *string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.EmblemKey = emblemKey
	return nil
}

type fakeMatches struct{ db *memDB }

func (f fakeMatches) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if match.PreviousMatchID != nil {
		for _, m := range f.db.matches {
			if m.PreviousMatchID != nil && *m.PreviousMatchID == *match.PreviousMatchID {
				return repositories.ErrMatchLineageConflict
			}
		}
	}
	match.ID = f.db.id()
	copied := *match
	f.db.matches = append(f.db.matches, &copied)
	return nil
}

func (f fakeMatches) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	m := f.db.match(id)
	if m == nil {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (f fakeMatches) ListByChampionship(_ context.Context, _ repositories.SQLExecutor, championshipID int) ([]*models.Match, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []*models.Match
	for _, m := range f.db.matches {
		if m.ChampionshipID == championshipID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f fakeMatches) ListByPhase(_ context.Context, _ repositories.SQLExecutor, championshipID int, phase models.Phase) ([]*models.Match, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []*models.Match
	for _, m := range f.db.matchesOfPhase(championshipID, phase) {
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (f fakeMatches) CountByChampionship(_ context.Context, _ repositories.SQLExecutor, championshipID int) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for _, m := range f.db.matches {
		if m.ChampionshipID == championshipID {
			n++
		}
	}
	return n, nil
}

func (f fakeMatches) SetResult(_ context.Context, _ repositories.SQLExecutor, id int, result repositories.MatchResult) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	m := f.db.match(id)
	if m == nil {
		return repositories.ErrMatchNotFound
	}
	m.Winner = result.Winner
	m.Tied = result.Tied
	m.Penalties = result.Penalties
	m.WO = result.WO
	return nil
}

func (f fakeMatches) UpdateDetails(_ context.Context, match *models.Match) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	m := f.db.match(match.ID)
	if m == nil {
		return repositories.ErrMatchNotFound
	}
	m.Date, m.Local, m.Arbitrator = match.Date, match.Local, match.Arbitrator
	m.UniformHome, m.UniformAway, m.Prorrogation = match.UniformHome, match.UniformAway, match.Prorrogation
	return nil
}

type fakeGoals struct{ db *memDB }

func (f fakeGoals) Create(_ context.Context, _ repositories.SQLExecutor, goal *models.Goal) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	goal.ID = f.db.id()
	goal.CreatedAt = time.Now()
	f.db.goals = append(f.db.goals, *goal)
	return nil
}

func (f fakeGoals) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]models.Goal, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Goal
	for _, g := range f.db.goals {
		if g.MatchID == matchID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f fakeGoals) ListByChampionship(_ context.Context, _ repositories.SQLExecutor, championshipID int) ([]models.Goal, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Goal
	for _, g := range f.db.goals {
		if m := f.db.match(g.MatchID); m != nil && m.ChampionshipID == championshipID {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakePenalties struct{ db *memDB }

func (f fakePenalties) Create(_ context.Context, _ repositories.SQLExecutor, penalty *models.Penalty) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	penalty.ID = f.db.id()
	f.db.penalties = append(f.db.penalties, *penalty)
	return nil
}

func (f fakePenalties) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]models.Penalty, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Penalty
	for _, p := range f.db.penalties {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeFouls struct{ db *memDB }

func (f fakeFouls) Create(_ context.Context, _ repositories.SQLExecutor, foul *models.Foul) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	foul.ID = f.db.id()
	f.db.fouls = append(f.db.fouls, *foul)
	return nil
}

func (f fakeFouls) ListByMatch(_ context.Context, matchID int) ([]models.Foul, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Foul
	for _, foul := range f.db.fouls {
		if foul.MatchID == matchID {
			out = append(out, foul)
		}
	}
	return out, nil
}

type fakeRoster struct{ db *memDB }

func (f fakeRoster) ListPlayers(_ context.Context, _ repositories.SQLExecutor, teamID int) ([]models.Player, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return append([]models.Player(nil), f.db.players[teamID]...), nil
}

func (f fakeRoster) ListTempPlayers(_ context.Context, _ repositories.SQLExecutor, teamID int) ([]models.TempPlayer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return append([]models.TempPlayer(nil), f.db.temps[teamID]...), nil
}

func (f fakeRoster) ListByChampionship(_ context.Context, championshipID int) ([]models.RosterPlayer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.RosterPlayer
	for _, teamID := range f.db.registrations[championshipID] {
		out = append(out, models.RosterFromPlayers(f.db.players[teamID], f.db.temps[teamID])...)
	}
	return out, nil
}

type fakeLineups struct{ db *memDB }

func (f fakeLineups) CreateFirstString(_ context.Context, _ repositories.SQLExecutor, player *models.FirstStringPlayer) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, p := range f.db.lineup {
		if p.MatchID == player.MatchID && p.PlayerRef.Same(player.PlayerRef) {
			return repositories.ErrLineupPlayerExists
		}
	}
	player.ID = f.db.id()
	f.db.lineup = append(f.db.lineup, *player)
	return nil
}

func (f fakeLineups) ListFirstString(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]models.FirstStringPlayer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.FirstStringPlayer
	for _, p := range f.db.lineup {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakeLineups) CreateReplacement(_ context.Context, _ repositories.SQLExecutor, replacement *models.Replacement) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	replacement.ID = f.db.id()
	f.db.replacements = append(f.db.replacements, *replacement)
	return nil
}

func (f fakeLineups) ListReplacements(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]models.Replacement, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Replacement
	for _, r := range f.db.replacements {
		if r.MatchID == matchID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeClassifications struct{ db *memDB }

func (f fakeClassifications) BatchCreate(_ context.Context, _ repositories.SQLExecutor, rows []*models.Classification) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range rows {
		r.ID = f.db.id()
		copied := *r
		f.db.classifications = append(f.db.classifications, &copied)
	}
	return nil
}

func (f fakeClassifications) ListByChampionship(_ context.Context, _ repositories.SQLExecutor, championshipID int) ([]*models.Classification, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []*models.Classification
	for _, r := range f.db.classifications {
		if r.ChampionshipID == championshipID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f fakeClassifications) UpdatePointsAndPosition(_ context.Context, _ repositories.SQLExecutor, rows []*models.Classification) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, row := range rows {
		for _, stored := range f.db.classifications {
			if stored.ChampionshipID == row.ChampionshipID && stored.TeamID == row.TeamID {
				stored.Points = row.Points
				stored.Position = row.Position
			}
		}
	}
	return nil
}

type fakeQueue struct {
	mu       sync.Mutex
	payloads []jobs.Payload
	delays   []time.Duration
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, payload jobs.Payload, delay time.Duration) (uuid.UUID, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return uuid.Nil, q.err
	}
	q.payloads = append(q.payloads, payload)
	q.delays = append(q.delays, delay)
	return uuid.New(), nil
}

type publishedEvent struct {
	championshipID int
	eventType      string
	payload        interface{}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (e *fakeEvents) Publish(championshipID int, eventType string, payload interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, publishedEvent{championshipID: championshipID, eventType: eventType, payload: payload})
}

func (e *fakeEvents) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.eventType)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// harness wires every service to one memDB.
type harness struct {
	db     *memDB
	tx     *fakeTx
	queue  *fakeQueue
	events *fakeEvents
	logger *slog.Logger
}

func newHarness() *harness {
	return &harness{db: newMemDB(), tx: &fakeTx{}, queue: &fakeQueue{}, events: &fakeEvents{}, logger: discardLogger()}
}

func (h *harness) settlement() *settlement {
	return newSettlement(h.tx, fakeChampionships{h.db}, fakeMatches{h.db}, fakeGoals{h.db}, h.queue, h.events, h.logger)
}

func (h *harness) matchService() MatchService {
	return NewMatchService(h.tx, fakeChampionships{h.db}, fakeMatches{h.db}, fakeGoals{h.db}, fakeTeams{h.db},
		fakePenalties{h.db}, fakeFouls{h.db}, fakeLineups{h.db}, h.queue, h.events, h.logger)
}

func (h *harness) goalService() GoalService {
	return NewGoalService(h.tx, fakeChampionships{h.db}, fakeMatches{h.db}, fakeGoals{h.db}, fakeRoster{h.db},
		fakeLineups{h.db}, h.queue, h.events, h.logger)
}

func (h *harness) penaltyService() PenaltyService {
	return NewPenaltyService(h.tx, fakeChampionships{h.db}, fakeMatches{h.db}, fakeGoals{h.db}, fakePenalties{h.db},
		fakeRoster{h.db}, fakeLineups{h.db}, h.queue, h.events, h.logger)
}

func (h *harness) lineupService() LineupService {
	return NewLineupService(h.tx, fakeChampionships{h.db}, fakeMatches{h.db}, fakeRoster{h.db}, fakeLineups{h.db})
}

func (h *harness) foulService() FoulService {
	return NewFoulService(h.tx, fakeChampionships{h.db}, fakeMatches{h.db}, fakeFouls{h.db}, fakeRoster{h.db}, fakeLineups{h.db})
}

func (h *harness) statisticsService() StatisticsService {
	return NewStatisticsService(h.tx, fakeChampionships{h.db}, fakeMatches{h.db}, fakeGoals{h.db},
		fakeClassifications{h.db}, fakeRoster{h.db}, h.events, h.logger)
}

func intPtr(v int) *int { return &v }

func phasePtr(p models.Phase) *models.Phase { return &p }

// seedGoals appends n goals by teamID in the given set, scored by the team's first player.
func (db *memDB) seedGoals(matchID, teamID, set, n int) {
	for i := 0; i < n; i++ {
		db.goals = append(db.goals, models.Goal{
			ID:        db.id(),
			MatchID:   matchID,
			TeamID:    teamID,
			PlayerRef: models.PlayerRef{PlayerID: intPtr(teamID*10 + 1)},
			Set:       set,
		})
	}
}
