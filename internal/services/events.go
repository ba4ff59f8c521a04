package services

import (
	"encoding/json"
	"log"
)

// Routing keys of the domain events published after successful writes.
const (
	EventUserRegistered = "user.registered"
	EventUserDeleted    = "user.deleted"
	EventTaskCreated    = "task.created"
	EventTaskUpdated    = "task.updated"
	EventTaskDeleted    = "task.deleted"
)

// EventPublisher sends a message to a broker exchange.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Events publishes domain events. The zero value publishes nothing.
type Events struct {
	publisher EventPublisher
	exchange  string
}

// NewEvents creates Events publishing to exchange. publisher may be nil.
func NewEvents(publisher EventPublisher, exchange string) Events {
	return Events{publisher: publisher, exchange: exchange}
}

func (e Events) emit(routingKey string, payload map[string]interface{}) {
	if e.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := e.publisher.Publish(e.exchange, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
