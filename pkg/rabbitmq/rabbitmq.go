package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inventory/internal/models"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// DefaultQueue is used when Config.Queue is empty.
const DefaultQueue = "product_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueue(ch, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("RabbitMQ client connected", zap.String("queue", queue))

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queue,
		log:     log,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends a persistent JSON message to the event queue through the default exchange.
func (c *Client) Publish(body []byte, headers amqp.Table) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	err := c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Headers:      headers,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishProductEvent publishes event as JSON, tagging the message with the event type.
func (c *Client) PublishProductEvent(event models.ProductEvent) error {
	body, headers, err := EncodeProductEvent(event)
	if err != nil {
		return err
	}
	if err := c.Publish(body, headers); err != nil {
		return err
	}
	c.log.Debug("product event sent", zap.String("type", string(event.Type)), zap.Uint("product_id", event.ProductID))
	return nil
}

// ConsumeProductEvents decodes each delivery and hands it to handler in a
// background goroutine. Deliveries are acked when handler returns nil and
// rejected without requeue otherwise, so a poison message is not redelivered forever.
func (c *Client) ConsumeProductEvents(handler func(models.ProductEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			err := DecodeProductEvent(msg.Body, handler)
			if err != nil {
				c.log.Warn("product event rejected", zap.Uint64("tag", msg.DeliveryTag), zap.Error(err))
				if nackErr := msg.Nack(false, false); nackErr != nil {
					c.log.Error("failed to nack message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(nackErr))
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.log.Error("failed to ack message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(ackErr))
			}
		}
		c.log.Info("product event consumer stopped")
	}()

	return nil
}

// EncodeProductEvent returns the message body and headers for event.
func EncodeProductEvent(event models.ProductEvent) ([]byte, amqp.Table, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal product event: %w", err)
	}
	return body, amqp.Table{"event_type": string(event.Type)}, nil
}

// DecodeProductEvent unmarshals body and passes the event to handler.
func DecodeProductEvent(body []byte, handler func(models.ProductEvent) error) error {
	var event models.ProductEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal product event: %w", err)
	}
	if event.Type == "" {
		return fmt.Errorf("product event %q has no type", event.ID)
	}
	return handler(event)
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", name, err)
	}
	return nil
}
