package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"
)

// AuditConsumer listens to the user.registered queue and appends one line
// per event to an audit log file.
type AuditConsumer struct {
    URL     string
    LogPath string
    Log     *logrus.Logger
}

func NewAuditConsumer(url, logPath string, log *logrus.Logger) *AuditConsumer {
    if logPath == "" {
        logPath = filepath.Join("logs", "auth.log")
    }
    return &AuditConsumer{URL: url, LogPath: logPath, Log: log}
}

// Run connects to the broker and consumes until ctx is cancelled.  Broken
// connections are re-dialled with exponential backoff capped at 30s.
func (a *AuditConsumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(a.URL)
        if err != nil {
            a.Log.WithError(err).Warnf("audit-consumer: dial failed; retrying in %s", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = a.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        a.Log.WithError(err).Warn("audit-consumer: consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (a *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        a.Log.WithError(err).Warn("audit-consumer: set QoS failed")
    }
    if _, err := ch.QueueDeclare(UserRegisteredQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(UserRegisteredQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := a.handle(d.Body); err != nil {
                a.Log.WithError(err).Error("audit-consumer: handle message failed")
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (a *AuditConsumer) handle(body []byte) error {
    if err := os.MkdirAll(filepath.Dir(a.LogPath), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(a.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    return WriteAuditLine(f, body)
}

// WriteAuditLine decodes a UserRegisteredEvent from body and writes it to w
// as a single line.
func WriteAuditLine(w io.Writer, body []byte) error {
    var ev UserRegisteredEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.UserID == "" {
        return errors.New("event without user_id")
    }
    line := fmt.Sprintf("[%s] User registered | user_id=%s | email=%q | role=%s\n",
        ev.RegisteredAt, ev.UserID, ev.Email, ev.Role)
    if _, err := io.WriteString(w, line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
