package service

// Event names pushed to the admin live feed.
const (
	EventOrderCreated    = "order.created"
	EventOrderUpdated    = "order.updated"
	EventOrderDeleted    = "order.deleted"
	EventFeedbackCreated = "feedback.created"
	EventFeedbackUpdated = "feedback.updated"
	EventShipmentCreated = "shipment.created"
)

// EventPublisher broadcasts admin-facing events. Publishing never blocks.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
