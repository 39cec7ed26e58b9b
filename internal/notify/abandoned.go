package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/hanbutik/backend-butik/internal/cart"
	"github.com/hanbutik/backend-butik/internal/common"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/events"
	"github.com/hanbutik/backend-butik/internal/lock"
	"github.com/hanbutik/backend-butik/internal/obs"
)

// CartSource lists abandoned carts and records that a reminder went out.
type CartSource interface {
	ListAbandonedCarts(ctx context.Context, touchedBefore pgtype.Timestamptz) ([]dbgen.ListAbandonedCartsRow, error)
	MarkCartEmailSent(ctx context.Context, id pgtype.UUID) error
}

// Sweeper emails customers who left items in an active cart. A Redis lock
// keeps overlapping sweeps from double sending.
type Sweeper struct {
	Q       CartSource
	Mail    common.EmailSender
	Events  *events.Bus
	Locker  lock.Locker
	Window  time.Duration
	LockTTL time.Duration
	Logger  *zerolog.Logger
	Now     func() time.Time
}

const sweepLockKey = "lock:cart_sweep"

// Sweep sends one reminder per abandoned cart and returns how many were
// sent. When another sweep holds the lock it returns without doing work.
func (s Sweeper) Sweep(ctx context.Context) (int, error) {
	if s.Q == nil || s.Mail == nil {
		return 0, errors.New("notify: sweeper not configured")
	}
	sent := 0
	err := s.Locker.TryWithLock(ctx, sweepLockKey, s.lockTTL(), func(ctx context.Context) error {
		cutoff := s.now().Add(-s.window())
		carts, err := s.Q.ListAbandonedCarts(ctx, pgtype.Timestamptz{Time: cutoff, Valid: true})
		if err != nil {
			return fmt.Errorf("notify: list abandoned carts: %w", err)
		}
		for _, row := range carts {
			if err := s.remind(ctx, row); err != nil {
				if obs.AbandonedCartEmailsTotal != nil {
					obs.AbandonedCartEmailsTotal.WithLabelValues("error").Inc()
				}
				if s.Logger != nil {
					s.Logger.Error().Err(err).Str("cartId", cart.UUIDString(row.CartID)).Msg("abandoned cart reminder failed")
				}
				continue
			}
			if obs.AbandonedCartEmailsTotal != nil {
				obs.AbandonedCartEmailsTotal.WithLabelValues("ok").Inc()
			}
			sent++
		}
		return nil
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		return 0, nil
	}
	return sent, err
}

func (s Sweeper) remind(ctx context.Context, row dbgen.ListAbandonedCartsRow) error {
	subject := "You left items in your cart"
	body := fmt.Sprintf("Hi %s,\n\nYou still have %d item(s) waiting in your cart.", row.Name, row.ItemCount)
	if err := s.Mail.Send(row.Email, subject, body); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	if err := s.Q.MarkCartEmailSent(ctx, row.CartID); err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicCartAbandoned, row.CartID, map[string]any{
			"cartId":    cart.UUIDString(row.CartID),
			"userId":    cart.UUIDString(row.UserID),
			"email":     row.Email,
			"itemCount": row.ItemCount,
		})
	}
	return nil
}

// HandleSweepTask adapts Sweep to an asynq handler.
func (s Sweeper) HandleSweepTask(ctx context.Context, _ *asynq.Task) error {
	sent, err := s.Sweep(ctx)
	if err != nil {
		return err
	}
	if s.Logger != nil && sent > 0 {
		s.Logger.Info().Int("sent", sent).Msg("abandoned cart sweep complete")
	}
	return nil
}

func (s Sweeper) window() time.Duration {
	if s.Window > 0 {
		return s.Window
	}
	return 24 * time.Hour
}

func (s Sweeper) lockTTL() time.Duration {
	if s.LockTTL > 0 {
		return s.LockTTL
	}
	return time.Minute
}

func (s Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
