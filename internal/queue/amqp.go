package queue

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// AMQPQueue publishes jobs to RabbitMQ. Consumption happens in the worker
// binary, which talks to the broker directly.
type AMQPQueue struct {
	URL string
}

func NewAMQPQueue(url string) *AMQPQueue {
	return &AMQPQueue{URL: url}
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	conn, err := amqp.Dial(q.URL)
	if err != nil {
		return fmt.Errorf("connect to queue: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open queue channel: %w", err)
	}
	defer ch.Close()

	declared, err := ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	return ch.Publish(
		"",
		declared.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	return fmt.Errorf("amqp consumption runs in the worker binary, not in-process")
}

var _ Queue = (*AMQPQueue)(nil)
