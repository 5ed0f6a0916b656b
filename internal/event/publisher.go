package event

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Routing keys for the exam lifecycle, published on a topic exchange.
const (
	SessionCreated    = "exam.session.created"
	AnswerSubmitted   = "exam.answer.submitted"
	SessionCompleted  = "exam.session.completed"
	SessionAbandoned  = "exam.session.abandoned"
	StatsUpdated      = "exam.stats.updated"
	QuestionsImported = "exam.bank.imported"
)

type Event struct {
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Publisher fans exam events out to RabbitMQ. It is optional wiring: when
// the broker is not configured the service runs without one and callers hold
// a nil *Publisher, which Publish tolerates.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends one event, routed by its type. Failures are logged and
// returned but never interrupt the request that triggered them.
func (p *Publisher) Publish(eventType string, payload interface{}) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(Event{Type: eventType, Payload: payload, OccurredAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	err = p.channel.Publish(
		p.exchange,
		eventType, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Printf("[EVENT] publish %s failed: %v", eventType, err)
	}
	return err
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
