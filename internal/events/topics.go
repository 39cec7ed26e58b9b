package events

// Topic constants for domain events emitted by the platform.
const (
	TopicNegotiationRequested      = "negotiation.requested"
	TopicNegotiationCounterOffered = "negotiation.counter_offered"
	TopicNegotiationAccepted       = "negotiation.accepted"
	TopicNegotiationRejected       = "negotiation.customer_rejected"
	TopicNegotiationApproved       = "negotiation.admin_approved"
	TopicNegotiationDeclined       = "negotiation.admin_rejected"
	TopicOrderSettled              = "order.settled"
	TopicCartAbandoned             = "cart.abandoned"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicNegotiationRequested,
		TopicNegotiationCounterOffered,
		TopicNegotiationAccepted,
		TopicNegotiationRejected,
		TopicNegotiationApproved,
		TopicNegotiationDeclined,
		TopicOrderSettled,
		TopicCartAbandoned,
	}
}
