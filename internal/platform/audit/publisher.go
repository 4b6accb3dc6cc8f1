// Package audit publishes fetch events to Kafka.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"stocks_bot/internal/feature/prices/domain/entity"
	"stocks_bot/internal/feature/prices/usecase"
)

// DefaultTopic is used when Config.Topic is empty.
const DefaultTopic = "stocks-bot.fetch-events"

// Config holds the Kafka connection settings.
type Config struct {
	Brokers      string        `yaml:"brokers" envconfig:"KAFKA_BROKERS"` // comma separated host:port list
	Topic        string        `yaml:"topic" envconfig:"KAFKA_TOPIC"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"KAFKA_WRITE_TIMEOUT"`
}

// Enabled reports whether any broker is configured.
func (c Config) Enabled() bool {
	return len(c.BrokerList()) > 0
}

// BrokerList splits Brokers and drops empty entries.
func (c Config) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// messageWriter is the subset of *kafka.Writer used by Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var (
	_ usecase.EventPublisher = (*Publisher)(nil)
	_ usecase.EventPublisher = Noop{}
)

// Publisher handles publishing fetch events to Kafka.
type Publisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewPublisher creates a Kafka publisher for cfg.
func NewPublisher(cfg Config) *Publisher {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.BrokerList()...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		// 送信はバックグラウンドで行い、リクエスト処理をブローカーの遅延で止めない
		Async:                  true,
		Completion:             logCompletion,
	}
	return &Publisher{writer: writer, timeout: timeout}
}

// logCompletion reports failed asynchronous writes.
func logCompletion(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	slog.Warn("failed to write audit events to kafka", "count", len(msgs), "error", err)
}

// Publish writes ev keyed by ticker so events of one ticker stay ordered.
// With the default writer the call only enqueues the message; delivery errors are logged.
func (p *Publisher) Publish(ctx context.Context, ev entity.FetchEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(ev.Ticker),
		Value: data,
		Time:  ev.At,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

// Close flushes and closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Noop discards events. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, entity.FetchEvent) error { return nil }
