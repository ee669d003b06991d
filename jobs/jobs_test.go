package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/championship-manager/models"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingHandler struct {
	mu       sync.Mutex
	statuses []ChangeChampionshipStatus
	recalcs  []RecalculateClassification
	failures int
	done     chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{done: make(chan struct{}, 16)}
}

func (h *recordingHandler) HandleChangeChampionshipStatus(_ context.Context, job ChangeChampionshipStatus) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, job)
	h.done <- struct{}{}
	return nil
}

func (h *recordingHandler) HandleRecalculateClassification(_ context.Context, job RecalculateClassification) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failures > 0 {
		h.failures--
		return errors.New("database busy")
	}
	h.recalcs = append(h.recalcs, job)
	h.done <- struct{}{}
	return nil
}

func TestEnvelopeRoundTrip(t *testing.T) {
	id := uuid.New()
	env, err := NewEnvelope(id, ChangeChampionshipStatus{ChampionshipID: 4, Status: models.ChampionshipActive}, time.Unix(100, 0))
	require.NoError(t, err)
	assert.Equal(t, KindChangeChampionshipStatus, env.Kind)

	payload, err := env.Decode()
	require.NoError(t, err)
	assert.Equal(t, ChangeChampionshipStatus{ChampionshipID: 4, Status: models.ChampionshipActive}, payload)
}

func TestEnvelopeDecodeRejectsUnknown(t *testing.T) {
	_, err := Envelope{Kind: "send_email", Payload: []byte(`{}`)}.Decode()
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Envelope{Kind: KindChangeChampionshipStatus, Payload: []byte(`{"championship_id":1,"status":"paused"}`)}.Decode()
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestMemoryStorePopDueOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{time.Hour, 0, time.Minute} {
		env, err := NewEnvelope(uuid.New(), RecalculateClassification{ChampionshipID: i}, base.Add(offset))
		require.NoError(t, err)
		require.NoError(t, store.Push(ctx, env))
	}

	due, err := store.PopDue(ctx, base.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.True(t, due[0].RunAt.Equal(base))
	assert.True(t, due[1].RunAt.Equal(base.Add(time.Minute)))
	assert.Equal(t, 1, store.Len())
}

func TestRunnerRunsDelayedJobWhenDue(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore()
	handler := newRecordingHandler()
	queue := NewQueue(store, clock, discardLogger())
	runner := NewRunner(store, &Dispatcher{Status: handler, Classification: handler}, clock, RunnerConfig{}, discardLogger())

	_, err := queue.Enqueue(ctx, ChangeChampionshipStatus{ChampionshipID: 9, Status: models.ChampionshipInactive}, 48*time.Hour)
	require.NoError(t, err)

	n, err := runner.RunDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.Advance(48 * time.Hour)
	n, err = runner.RunDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, handler.statuses, 1)
	assert.Equal(t, models.ChampionshipInactive, handler.statuses[0].Status)
}

func TestRunnerRetriesFailedJob(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore()
	handler := newRecordingHandler()
	handler.failures = 1
	queue := NewQueue(store, clock, discardLogger())
	runner := NewRunner(store, &Dispatcher{Classification: handler}, clock, RunnerConfig{}, discardLogger())

	_, err := queue.Enqueue(ctx, RecalculateClassification{ChampionshipID: 2}, 0)
	require.NoError(t, err)

	n, err := runner.RunDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, store.Len())

	clock.Advance(retryBackoff)
	n, err = runner.RunDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, handler.recalcs, 1)
	assert.Zero(t, store.Len())
}

func TestRunnerDropsJobWithoutHandler(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore()
	runner := NewRunner(store, &Dispatcher{}, clock, RunnerConfig{}, discardLogger())

	_, err := NewQueue(store, clock, discardLogger()).Enqueue(ctx, RecalculateClassification{ChampionshipID: 2}, 0)
	require.NoError(t, err)

	n, err := runner.RunDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, store.Len())
}

func TestRunnerPollsOnTicker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	store := NewMemoryStore()
	handler := newRecordingHandler()
	runner := NewRunner(store, &Dispatcher{Classification: handler}, clock, RunnerConfig{PollInterval: time.Second}, discardLogger())

	_, err := NewQueue(store, clock, discardLogger()).Enqueue(ctx, RecalculateClassification{ChampionshipID: 5}, 0)
	require.NoError(t, err)

	go runner.Run(ctx)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Second)

	select {
	case <-handler.done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed")
	}
	assert.Equal(t, 5, handler.recalcs[0].ChampionshipID)
}

// partialStore hands out jobs it already claimed together with a claim failure.
type partialStore struct {
	*MemoryStore
	claimed []Envelope
	err     error
}

func (s *partialStore) PopDue(_ context.Context, _ time.Time, _ int) ([]Envelope, error) {
	claimed := s.claimed
	s.claimed = nil
	return claimed, s.err
}

func TestRunnerExecutesClaimedJobsWhenClaimFails(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	handler := newRecordingHandler()

	env, err := NewEnvelope(uuid.New(), RecalculateClassification{ChampionshipID: 8}, clock.Now())
	require.NoError(t, err)
	claimErr := errors.New("claim job: connection reset")
	store := &partialStore{MemoryStore: NewMemoryStore(), claimed: []Envelope{env}, err: claimErr}
	runner := NewRunner(store, &Dispatcher{Classification: handler}, clock, RunnerConfig{}, discardLogger())

	n, err := runner.RunDue(ctx)
	assert.ErrorIs(t, err, claimErr)
	assert.Equal(t, 1, n)
	require.Len(t, handler.recalcs, 1)
	assert.Equal(t, 8, handler.recalcs[0].ChampionshipID)
}
