package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/storage/mq"
)

// Service consumes the events this application publishes. Price-drop
// notification fan-out (push, WhatsApp links) lives elsewhere; this consumer
// records the drop for operators.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger,
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(
		TopicPriceDropped,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev model.PriceDroppedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal price dropped event: %w", err)
			}

			if err := s.handlePriceDroppedEvent(ctx, ev); err != nil {
				return fmt.Errorf("handle price dropped event: %w", err)
			}

			return nil
		},
	); err != nil {
		return nil, fmt.Errorf("register price dropped event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}
