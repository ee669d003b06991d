package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Queue schedules jobs. Enqueue returns once the job is stored; it never waits for the job to run.
type Queue struct {
	store  Store
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewQueue(store Store, clock clockwork.Clock, logger *slog.Logger) *Queue {
	return &Queue{store: store, clock: clock, logger: logger}
}

// Enqueue stores payload to run after delay. A non-positive delay makes it due immediately.
func (q *Queue) Enqueue(ctx context.Context, payload Payload, delay time.Duration) (uuid.UUID, error) {
	if delay < 0 {
		delay = 0
	}
	id := uuid.New()
	env, err := NewEnvelope(id, payload, q.clock.Now().Add(delay))
	if err != nil {
		return uuid.Nil, err
	}
	if err := q.store.Push(ctx, env); err != nil {
		return uuid.Nil, fmt.Errorf("enqueue %s: %w", payload.Kind(), err)
	}

	q.logger.Debug("job enqueued",
		slog.String("job_id", id.String()),
		slog.String("kind", string(payload.Kind())),
		slog.Time("run_at", env.RunAt),
	)
	return id, nil
}
