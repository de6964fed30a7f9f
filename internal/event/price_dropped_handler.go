package event

import (
	"context"
	"log/slog"

	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/pricing"
)

const TopicPriceDropped = "price.dropped"

func (s *Service) handlePriceDroppedEvent(ctx context.Context, ev model.PriceDroppedEvent) error {
	s.logger.InfoContext(ctx, "variant price dropped",
		slog.String("variant_key", ev.VariantKey),
		slog.String("model", ev.Model),
		slog.String("supplier", ev.SupplierName),
		slog.Float64("old_price", pricing.CentsToFloat(ev.OldPriceCents)),
		slog.Float64("new_price", pricing.CentsToFloat(ev.NewPriceCents)),
	)
	return nil
}
