package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/hanbutik/backend-butik/internal/cart"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/events"
)

// Task types handled by cmd/worker.
const (
	TaskEventDeliver   = "event:deliver"
	TaskAbandonedSweep = "cart:abandoned_sweep"
)

type eventDeliverPayload struct {
	EventID string `json:"eventId"`
}

// Enqueuer publishes background tasks on the asynq queue. It implements
// events.DeliveryScheduler so emitted events reach the worker.
type Enqueuer struct {
	Client   *asynq.Client
	Queue    string
	MaxRetry int
}

// Schedule enqueues a delivery task for the persisted event. Re-emitting the
// same event is harmless because the task id is derived from the event id.
func (e Enqueuer) Schedule(ctx context.Context, event dbgen.DomainEvent) error {
	if e.Client == nil {
		return nil
	}
	payload, err := json.Marshal(eventDeliverPayload{EventID: cart.UUIDString(event.ID)})
	if err != nil {
		return fmt.Errorf("notify: encode delivery task: %w", err)
	}
	opts := e.options()
	opts = append(opts, asynq.TaskID("event:"+cart.UUIDString(event.ID)))
	_, err = e.Client.EnqueueContext(ctx, asynq.NewTask(TaskEventDeliver, payload), opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// EnqueueSweep requests an immediate abandoned-cart sweep.
func (e Enqueuer) EnqueueSweep(ctx context.Context) error {
	if e.Client == nil {
		return errors.New("notify: task client not configured")
	}
	_, err := e.Client.EnqueueContext(ctx, asynq.NewTask(TaskAbandonedSweep, nil), e.options()...)
	return err
}

func (e Enqueuer) options() []asynq.Option {
	maxRetry := e.MaxRetry
	if maxRetry <= 0 {
		maxRetry = 5
	}
	opts := []asynq.Option{asynq.MaxRetry(maxRetry)}
	if e.Queue != "" {
		opts = append(opts, asynq.Queue(e.Queue))
	}
	return opts
}

// EventSource loads persisted events for delivery.
type EventSource interface {
	GetDomainEvent(ctx context.Context, id pgtype.UUID) (dbgen.DomainEvent, error)
}

// DeliveryWorker fans a persisted event out to its notifiers. It runs inside
// cmd/worker so email latency and failures stay off the request path.
type DeliveryWorker struct {
	Q         EventSource
	Notifiers []events.Notifier
	Logger    *zerolog.Logger
}

// HandleEventDeliver processes one event:deliver task.
func (w DeliveryWorker) HandleEventDeliver(ctx context.Context, t *asynq.Task) error {
	var payload eventDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("notify: decode delivery task: %v: %w", err, asynq.SkipRetry)
	}
	id, err := cart.ToUUID(payload.EventID)
	if err != nil {
		return fmt.Errorf("notify: bad event id %q: %w", payload.EventID, asynq.SkipRetry)
	}
	event, err := w.Q.GetDomainEvent(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("notify: event %s not found: %w", payload.EventID, asynq.SkipRetry)
		}
		return fmt.Errorf("notify: load event: %w", err)
	}
	var joined error
	for _, notifier := range w.Notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, event); err != nil {
			if w.Logger != nil {
				w.Logger.Error().Err(err).Str("topic", event.Topic).Msg("notifier failed")
			}
			joined = errors.Join(joined, err)
		}
	}
	return joined
}
