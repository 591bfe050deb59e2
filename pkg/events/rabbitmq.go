package events

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"
)

// RabbitMQPublisher implements the Publisher interface using RabbitMQ.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewRabbitMQPublisherConfig contains options for creating a new RabbitMQPublisher.
type NewRabbitMQPublisherConfig struct {
	URL       string
	QueueName string
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the durable case
// event queue.
func NewRabbitMQPublisher(cfg NewRabbitMQPublisherConfig) (Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ: %v", err)
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("Failed to open a channel: %v", err)
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		cfg.QueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	); err != nil {
		log.Printf("Failed to declare queue %s: %v", cfg.QueueName, err)
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Println("Successfully connected to RabbitMQ and declared case event queue")
	return &RabbitMQPublisher{conn: conn, channel: ch, queue: cfg.QueueName}, nil
}

// Publish sends one case event as persistent JSON.
func (p *RabbitMQPublisher) Publish(event CaseEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.channel.Publish(
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		log.Printf("Failed to publish case event %s: %v", event.Type, err)
	}
	return err
}

// Close shuts down the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
