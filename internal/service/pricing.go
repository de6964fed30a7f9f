package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lojatech/precifica/internal/apperr"
	"github.com/lojatech/precifica/internal/catalog"
	"github.com/lojatech/precifica/internal/event"
	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/pricing"
	"github.com/lojatech/precifica/internal/repository"
	"github.com/lojatech/precifica/internal/storage/db"
	"github.com/lojatech/precifica/pkg/outbox"
	"github.com/lojatech/precifica/pkg/ptr"
)

// ListProductsResult is one fully annotated pass over the feed.
type ListProductsResult struct {
	Products []model.Product
	Total    int
}

// CalculateResult is a batch margin calculation over caller-supplied rows.
type CalculateResult struct {
	Products []model.Product
	Summary  pricing.Summary
}

type PricingService interface {
	ListProducts(ctx context.Context, date string) (ListProductsResult, error)
	Calculate(ctx context.Context, products []model.Product) (CalculateResult, error)
}

type pricingService struct {
	db            db.DB
	feed          catalog.Client
	marginRepo    repository.MarginRuleRepository
	snapshotRepo  repository.SnapshotRepository
	outboxMsgRepo repository.OutboxMsgRepository
	logger        *slog.Logger
}

func NewPricingService(
	db db.DB,
	feed catalog.Client,
	marginRepo repository.MarginRuleRepository,
	snapshotRepo repository.SnapshotRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	logger *slog.Logger,
) PricingService {
	return &pricingService{
		db:            db,
		feed:          feed,
		marginRepo:    marginRepo,
		snapshotRepo:  snapshotRepo,
		outboxMsgRepo: outboxMsgRepo,
		logger:        logger.With(slog.String("service", "pricing")),
	}
}

// ListProducts runs the full pipeline: fetch the feed, partition rows into
// variants, mark lowest prices, apply the margin configuration, and record
// price drops against the stored per-variant snapshots. The margin config is
// read once so the whole pass sees a consistent snapshot.
func (s *pricingService) ListProducts(ctx context.Context, date string) (ListProductsResult, error) {
	products, err := s.feed.FetchProducts(ctx, date)
	if err != nil {
		return ListProductsResult{}, apperr.FeedUnavailableErr.WrapParent(err)
	}

	groups := pricing.GroupByVariant(products)
	pricing.MarkLowest(groups)

	if err := s.recordPriceDrops(ctx, groups); err != nil {
		// Drop detection is a side channel; a failed pass must not take the
		// listing down with it.
		s.logger.ErrorContext(ctx, "error recording price drops", slog.Any("error", err))
	}

	cfg, err := s.marginRepo.GetMarginConfig(ctx)
	if err != nil {
		return ListProductsResult{}, fmt.Errorf("margin repository get config: %w", err)
	}

	annotated, _ := pricing.CalculatePrices(pricing.Flatten(groups), cfg)

	return ListProductsResult{
		Products: annotated,
		Total:    len(annotated),
	}, nil
}

// Calculate annotates caller-supplied rows with the current margin
// configuration and lowest-price marks within the submitted set.
func (s *pricingService) Calculate(ctx context.Context, products []model.Product) (CalculateResult, error) {
	cfg, err := s.marginRepo.GetMarginConfig(ctx)
	if err != nil {
		return CalculateResult{}, fmt.Errorf("margin repository get config: %w", err)
	}

	groups := pricing.GroupByVariant(products)
	pricing.MarkLowest(groups)

	annotated, summary := pricing.CalculatePrices(pricing.Flatten(groups), cfg)

	return CalculateResult{
		Products: annotated,
		Summary:  summary,
	}, nil
}

// recordPriceDrops compares each variant's current lowest price against the
// stored snapshot and, inside one transaction, enqueues a price-drop event
// for every variant now strictly cheaper, then advances the snapshots.
func (s *pricingService) recordPriceDrops(ctx context.Context, groups []pricing.Group) error {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		if pricing.LowestPriceCents(g) > 0 {
			keys = append(keys, string(g.Key))
		}
	}
	if len(keys) == 0 {
		return nil
	}

	now := time.Now()

	return s.db.WithTx(ctx, func(tx db.DB) error {
		snapshots, err := s.snapshotRepo.WithDB(tx).GetSnapshots(ctx, keys)
		if err != nil {
			return fmt.Errorf("snapshot repository get: %w", err)
		}

		updates := make([]repository.VariantSnapshot, 0, len(groups))
		for _, g := range groups {
			lowest := pricing.LowestPriceCents(g)
			if lowest <= 0 {
				continue
			}

			cheapest := cheapestMember(g, lowest)
			prev, known := snapshots[string(g.Key)]

			if known && lowest < prev.LowestPriceCents {
				if err := s.enqueuePriceDrop(ctx, tx, g, prev, cheapest, lowest, now); err != nil {
					return err
				}
			}

			if !known || lowest != prev.LowestPriceCents {
				updates = append(updates, repository.VariantSnapshot{
					VariantKey:       string(g.Key),
					LowestPriceCents: lowest,
					SupplierName:     cheapest.SupplierName,
					ObservedAt:       now,
				})
			}
		}

		if err := s.snapshotRepo.WithDB(tx).UpsertSnapshots(ctx, updates); err != nil {
			return fmt.Errorf("snapshot repository upsert: %w", err)
		}

		return nil
	})
}

func (s *pricingService) enqueuePriceDrop(
	ctx context.Context,
	tx db.DB,
	g pricing.Group,
	prev repository.VariantSnapshot,
	cheapest model.Product,
	lowest int64,
	now time.Time,
) error {
	ev := model.PriceDroppedEvent{
		VariantKey:    string(g.Key),
		Model:         cheapest.Model,
		Storage:       cheapest.Storage,
		Color:         cheapest.Color,
		OldPriceCents: prev.LowestPriceCents,
		NewPriceCents: lowest,
		SupplierName:  cheapest.SupplierName,
		ObservedAt:    now,
	}

	evBytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal price dropped event: %w", err)
	}

	if err := s.outboxMsgRepo.
		WithDB(tx).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        event.TopicPriceDropped,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      evBytes,
			PartitionKey: ptr.New(string(g.Key)),
		}); err != nil {
		return fmt.Errorf("outbox msg repository create: %w", err)
	}

	return nil
}

// cheapestMember returns the first group member whose price equals the
// group minimum; ties resolve to input order.
func cheapestMember(g pricing.Group, lowest int64) model.Product {
	for _, p := range g.Products {
		if p.PriceCents == lowest {
			return p
		}
	}
	return g.Products[0]
}
