package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lojatech/precifica/internal/storage/db"
)

// VariantSnapshot is the last recorded lowest price for one variant key.
type VariantSnapshot struct {
	VariantKey       string
	LowestPriceCents int64
	SupplierName     string
	ObservedAt       time.Time
}

type SnapshotRepository interface {
	WithDB(db db.DB) SnapshotRepository
	GetSnapshots(ctx context.Context, variantKeys []string) (map[string]VariantSnapshot, error)
	UpsertSnapshots(ctx context.Context, snapshots []VariantSnapshot) error
}

type snapshotRepository struct {
	db db.DB
}

func NewSnapshotRepository(db db.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r snapshotRepository) WithDB(db db.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r snapshotRepository) GetSnapshots(ctx context.Context, variantKeys []string) (map[string]VariantSnapshot, error) {
	if len(variantKeys) == 0 {
		return map[string]VariantSnapshot{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT variant_key, lowest_price_cents, supplier_name, observed_at
		FROM variant_price_snapshots
		WHERE variant_key = ANY(@keys::text[]);
	`, pgx.NamedArgs{
		"keys": variantKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("list variant snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[string]VariantSnapshot, len(variantKeys))
	for rows.Next() {
		var s VariantSnapshot
		if err := rows.Scan(&s.VariantKey, &s.LowestPriceCents, &s.SupplierName, &s.ObservedAt); err != nil {
			return nil, fmt.Errorf("scan variant snapshot: %w", err)
		}
		snapshots[s.VariantKey] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant snapshots: %w", err)
	}

	return snapshots, nil
}

func (r snapshotRepository) UpsertSnapshots(ctx context.Context, snapshots []VariantSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	keys := make([]string, 0, len(snapshots))
	prices := make([]int64, 0, len(snapshots))
	suppliers := make([]string, 0, len(snapshots))
	observed := make([]time.Time, 0, len(snapshots))
	for _, s := range snapshots {
		keys = append(keys, s.VariantKey)
		prices = append(prices, s.LowestPriceCents)
		suppliers = append(suppliers, s.SupplierName)
		observed = append(observed, s.ObservedAt)
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO variant_price_snapshots (variant_key, lowest_price_cents, supplier_name, observed_at)
		SELECT UNNEST(@keys::text[]),
			UNNEST(@prices::bigint[]),
			UNNEST(@suppliers::text[]),
			UNNEST(@observed::timestamptz[])
		ON CONFLICT (variant_key) DO UPDATE
		SET lowest_price_cents = EXCLUDED.lowest_price_cents,
		    supplier_name      = EXCLUDED.supplier_name,
		    observed_at        = EXCLUDED.observed_at;
	`, pgx.NamedArgs{
		"keys":      keys,
		"prices":    prices,
		"suppliers": suppliers,
		"observed":  observed,
	})
	if err != nil {
		return fmt.Errorf("upsert variant snapshots: %w", err)
	}

	return nil
}
