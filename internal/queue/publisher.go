package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// dialTimeout bounds how long a signup can wait on an unreachable broker.
const dialTimeout = 3 * time.Second

// Publisher publishes domain events to RabbitMQ.  Each call dials the
// broker, declares the queue and publishes one persistent message; errors
// are returned so the caller can log and carry on.
type Publisher struct {
    URL string
}

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// PublishUserRegistered publishes ev to the "user.registered" queue.
func (p *Publisher) PublishUserRegistered(ctx context.Context, ev UserRegisteredEvent) error {
    return p.publish(ctx, UserRegisteredQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(dialTimeout),
    })
    if err != nil {
        return fmt.Errorf("rabbitmq dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("rabbitmq channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        queueName, // name
        true,      // durable
        false,     // autoDelete
        false,     // exclusive
        false,     // noWait
        nil,       // args
    ); err != nil {
        return fmt.Errorf("rabbitmq queue declare: %w", err)
    }

    body, err := json.Marshal(event)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    return nil
}
