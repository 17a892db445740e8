package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/workspace-booking/internal/model"
)

// DefaultPublishTimeout bounds a publish when none is configured.
const DefaultPublishTimeout = 5 * time.Second

// Publisher sends booking.confirmed events.  Each call dials, publishes
// once and closes; failures are logged and returned so the booking service
// can surface them as a warning without retrying.
type Publisher struct {
    url     string
    queue   string
    timeout time.Duration
}

// NewPublisher returns a publisher for the given broker URL and queue.
// timeout caps the dial, handshake and publish of one event.
func NewPublisher(url, queue string, timeout time.Duration) *Publisher {
    if queue == "" {
        queue = DefaultQueue
    }
    if timeout <= 0 {
        timeout = DefaultPublishTimeout
    }
    return &Publisher{url: url, queue: queue, timeout: timeout}
}

// BookingConfirmed publishes the event for b as a persistent message.  It
// gives up at the configured timeout or ctx's deadline, whichever is first.
func (p *Publisher) BookingConfirmed(ctx context.Context, b model.Booking) error {
    ctx, cancel := context.WithTimeout(ctx, p.timeout)
    defer cancel()
    deadline, _ := ctx.Deadline()

    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(time.Until(deadline)),
    })
    if err != nil {
        log.Error().Err(err).Msg("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Error().Err(err).Msg("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        p.queue, // name
        true,    // durable
        false,   // autoDelete
        false,   // exclusive
        false,   // noWait
        nil,     // args
    ); err != nil {
        log.Error().Err(err).Str("queue", p.queue).Msg("rabbitmq: queue declare failed")
        return err
    }

    now := time.Now().UTC()
    body, err := json.Marshal(NewBookingConfirmedEvent(b, now))
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    b.ID,
        Timestamp:    now,
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",      // default exchange
        p.queue, // routing key = queue name
        false,   // mandatory
        false,   // immediate
        pub,
    ); err != nil {
        log.Error().Err(err).Str("booking_id", b.ID).Msg("rabbitmq: publish failed")
        return err
    }
    log.Debug().Str("booking_id", b.ID).Str("queue", p.queue).Msg("booking.confirmed published")
    return nil
}
