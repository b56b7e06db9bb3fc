package config

import (
	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/events"
	"github.com/akeren/resfi-api/pkg/utils"
)

type EventsConfig struct {
	URL   string
	Queue string
}

func NewEventsConfig() *EventsConfig {
	return &EventsConfig{
		URL:   sanitizeEnv(utils.GetEnvTrimmed("AMQP_URL")),
		Queue: utils.GetEnvTrimmedOrDefault("AMQP_QUEUE", events.DefaultQueue),
	}
}

func (ec *EventsConfig) IsConfigured() bool {
	return ec.URL != ""
}

// NewPublisherOrNil never fails startup; signups are still stored without a broker.
func (ec *EventsConfig) NewPublisherOrNil(logger *log.Logger) *events.AMQPPublisher {
	if !ec.IsConfigured() {
		logger.Info("Event broker is not configured; signup events disabled")
		return nil
	}

	publisher, err := events.NewAMQPPublisher(ec.URL, ec.Queue)
	if err != nil {
		logger.Warn("Proceeding without event broker", "error", err)
		return nil
	}

	logger.Info("Event broker connected", "queue", ec.Queue)
	return publisher
}

func ClosePublisher(publisher events.Publisher, logger *log.Logger) {
	if publisher == nil {
		return
	}

	if err := publisher.Close(); err != nil {
		logger.Error("Failed to close event publisher", "error", err)
		return
	}

	logger.Info("Event publisher closed")
}
