package di

import (
	"log/slog"

	pricesusecase "stocks_bot/internal/feature/prices/usecase"
	"stocks_bot/internal/platform/audit"
)

// NewEventPublisher returns a Kafka publisher when brokers are configured and a no-op otherwise.
// The returned close function is always safe to call.
func NewEventPublisher(cfg audit.Config) (pricesusecase.EventPublisher, func() error) {
	if !cfg.Enabled() {
		slog.Info("kafka not configured, fetch events are discarded")
		return audit.Noop{}, func() error { return nil }
	}
	p := audit.NewPublisher(cfg)
	slog.Info("publishing fetch events to kafka", "brokers", cfg.BrokerList(), "topic", cfg.Topic)
	return p, p.Close
}
