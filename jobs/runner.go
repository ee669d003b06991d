package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	defaultBatchSize = 50
	maxAttempts      = 3
	retryBackoff     = 30 * time.Second
)

type StatusHandler interface {
	HandleChangeChampionshipStatus(ctx context.Context, job ChangeChampionshipStatus) error
}

type ClassificationHandler interface {
	HandleRecalculateClassification(ctx context.Context, job RecalculateClassification) error
}

// Dispatcher routes a payload to the handler of its kind.
type Dispatcher struct {
	Status         StatusHandler
	Classification ClassificationHandler
}

func (d *Dispatcher) Dispatch(ctx context.Context, payload Payload) error {
	switch job := payload.(type) {
	case ChangeChampionshipStatus:
		if d.Status == nil {
			return fmt.Errorf("%w: no handler for %s", ErrUnknownKind, job.Kind())
		}
		return d.Status.HandleChangeChampionshipStatus(ctx, job)
	case RecalculateClassification:
		if d.Classification == nil {
			return fmt.Errorf("%w: no handler for %s", ErrUnknownKind, job.Kind())
		}
		return d.Classification.HandleRecalculateClassification(ctx, job)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownKind, payload)
	}
}

type RunnerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// Runner polls the store and executes due jobs. A failed job is pushed back with a delay
// until it has been attempted maxAttempts times.
type Runner struct {
	store      Store
	dispatcher *Dispatcher
	clock      clockwork.Clock
	cfg        RunnerConfig
	logger     *slog.Logger
}

func NewRunner(store Store, dispatcher *Dispatcher, clock clockwork.Clock, cfg RunnerConfig, logger *slog.Logger) *Runner {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Runner{store: store, dispatcher: dispatcher, clock: clock, cfg: cfg, logger: logger}
}

// Run polls until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	r.logger.Info("job runner started", slog.Duration("poll_interval", r.cfg.PollInterval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("job runner stopped")
			return
		case <-ticker.Chan():
			if _, err := r.RunDue(ctx); err != nil {
				r.logger.Error("job polling failed", slog.Any("error", err))
			}
		}
	}
}

// RunDue executes every job due now and returns how many succeeded. Jobs the store already
// claimed are executed even when PopDue also reports an error; that error is returned afterwards.
func (r *Runner) RunDue(ctx context.Context) (int, error) {
	due, popErr := r.store.PopDue(ctx, r.clock.Now(), r.cfg.BatchSize)

	done := 0
	for _, env := range due {
		if err := r.execute(ctx, env); err != nil {
			r.retry(ctx, env, err)
			continue
		}
		done++
	}
	return done, popErr
}

func (r *Runner) execute(ctx context.Context, env Envelope) error {
	payload, err := env.Decode()
	if err != nil {
		return err
	}
	start := r.clock.Now()
	if err := r.dispatcher.Dispatch(ctx, payload); err != nil {
		return err
	}
	r.logger.Info("job completed",
		slog.String("job_id", env.ID.String()),
		slog.String("kind", string(env.Kind)),
		slog.Duration("duration", r.clock.Since(start)),
	)
	return nil
}

func (r *Runner) retry(ctx context.Context, env Envelope, cause error) {
	env.Attempts++
	attrs := []any{
		slog.String("job_id", env.ID.String()),
		slog.String("kind", string(env.Kind)),
		slog.Int("attempts", env.Attempts),
		slog.Any("error", cause),
	}
	if errors.Is(cause, ErrUnknownKind) || errors.Is(cause, ErrInvalidPayload) || env.Attempts >= maxAttempts {
		r.logger.Error("job failed permanently", attrs...)
		return
	}

	r.logger.Warn("job failed, retrying", attrs...)
	env.RunAt = r.clock.Now().Add(retryBackoff * time.Duration(env.Attempts))
	if err := r.store.Push(ctx, env); err != nil {
		r.logger.Error("failed to requeue job", slog.String("job_id", env.ID.String()), slog.Any("error", err))
	}
}
