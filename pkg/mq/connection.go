package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange all catapult events flow through.
// Routing keys are dotted event names, e.g. "tasks.scraped".
const Exchange = "catapult.events"

// NewConnection dials RabbitMQ.
func NewConnection(url string) (*amqp091.Connection, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// declareExchange makes the topic exchange idempotently; both publisher
// and consumer call it so startup order does not matter.
func declareExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	)
}
