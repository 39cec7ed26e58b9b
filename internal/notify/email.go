package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hanbutik/backend-butik/internal/cart"
	"github.com/hanbutik/backend-butik/internal/common"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/events"
)

// UserLookup resolves event recipients that only carry a user id.
type UserLookup interface {
	GetUserByID(ctx context.Context, id pgtype.UUID) (dbgen.User, error)
}

// EmailNotifier sends transactional emails for selected topics.
type EmailNotifier struct {
	Mail         common.EmailSender
	Users        UserLookup
	Enabled      bool
	TopicToggles map[string]bool
}

// Notify implements the events.Notifier interface.
func (n EmailNotifier) Notify(ctx context.Context, event dbgen.DomainEvent) error {
	if !n.Enabled || n.Mail == nil {
		return nil
	}
	if n.TopicToggles != nil {
		if enabled, ok := n.TopicToggles[event.Topic]; ok && !enabled {
			return nil
		}
	}
	payload := map[string]any{}
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("email notify: decode payload: %w", err)
		}
	}
	to := n.recipient(ctx, payload)
	if to == "" {
		return nil
	}
	subject := subjectFor(event.Topic)
	body := bodyFor(event.Topic, payload, event.OccurredAt.Time)
	return n.Mail.Send(to, subject, body)
}

// recipient prefers an email carried in the payload and falls back to
// resolving the payload's userId against the users table.
func (n EmailNotifier) recipient(ctx context.Context, payload map[string]any) string {
	if val, ok := payload["email"].(string); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	if n.Users == nil {
		return ""
	}
	raw, ok := payload["userId"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return ""
	}
	uid, err := cart.ToUUID(raw)
	if err != nil {
		return ""
	}
	user, err := n.Users.GetUserByID(ctx, uid)
	if err != nil {
		return ""
	}
	return user.Email
}

func subjectFor(topic string) string {
	switch topic {
	case events.TopicNegotiationRequested:
		return "We received your discount request"
	case events.TopicNegotiationCounterOffered:
		return "You have a counter offer"
	case events.TopicNegotiationAccepted:
		return "Counter offer accepted"
	case events.TopicNegotiationRejected:
		return "Counter offer declined"
	case events.TopicNegotiationApproved:
		return "Your discount was approved"
	case events.TopicNegotiationDeclined:
		return "Your discount request was declined"
	case events.TopicOrderSettled:
		return "Order confirmed"
	case events.TopicCartAbandoned:
		return "You left items in your cart"
	default:
		return fmt.Sprintf("Notification %s", topic)
	}
}

func bodyFor(topic string, payload map[string]any, occurred time.Time) string {
	summary := fmt.Sprintf("Event %s occurred at %s.", topic, occurred.Format(time.RFC3339))
	if orderID, ok := payload["orderId"].(string); ok && orderID != "" {
		summary += fmt.Sprintf("\nOrder: %s", orderID)
	}
	if total, ok := payload["total"].(float64); ok {
		summary += fmt.Sprintf("\nTotal: %d", int64(total))
	}
	if note, ok := payload["note"].(string); ok && note != "" {
		summary += "\n" + note
	}
	return summary
}
