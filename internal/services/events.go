package services

// EventPublisher publishes storefront events to the message broker. A nil
// publisher disables eventing; services log and carry on when publishing
// fails, since the order itself is already durable.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}
