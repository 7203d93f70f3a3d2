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
	"github.com/rs/zerolog"
)

// StartActivityConsumer connects to RabbitMQ, declares the activity queue and
// appends each message to <logDir>/activity.log.  It reconnects with
// exponential backoff and returns only when ctx is cancelled.  Messages that
// cannot be handled are rejected without requeue to avoid tight loops.
func StartActivityConsumer(ctx context.Context, url, logDir string, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "activity-consumer").Logger()
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logDir, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn().Err(err).Msg("consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
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

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string, logger zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn().Err(err).Msg("set QoS failed")
	}
	if _, err := ch.QueueDeclare(ActivityQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, ActivityQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(logDir, d.Body); err != nil {
			logger.Error().Err(err).Msg("handle message failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(logDir string, body []byte) error {
	var a EventActivity
	if err := json.Unmarshal(body, &a); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, "activity.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return writeActivity(f, a)
}

func writeActivity(w io.Writer, a EventActivity) error {
	line := fmt.Sprintf("[%s] Event %s | event_id=%s | owner=%s | title=%q\n",
		a.At.UTC().Format(time.RFC3339), a.Action, a.EventID, a.Owner, a.Title)
	if _, err := io.WriteString(w, line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
