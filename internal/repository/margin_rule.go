package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/pricing"
	"github.com/lojatech/precifica/internal/storage/db"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("repository: not found")

type UpsertMarginRuleParams struct {
	Scope      model.MarginScope
	Key        string
	Percentage float64
}

type MarginRuleRepository interface {
	WithDB(db db.DB) MarginRuleRepository
	UpsertMarginRule(ctx context.Context, params UpsertMarginRuleParams) (model.MarginRule, error)
	DeleteMarginRule(ctx context.Context, scope model.MarginScope, key string) error
	GetMarginConfig(ctx context.Context) (model.MarginConfig, error)
}

type marginRuleRepository struct {
	db db.DB
}

func NewMarginRuleRepository(db db.DB) MarginRuleRepository {
	return &marginRuleRepository{db: db}
}

func (r marginRuleRepository) WithDB(db db.DB) MarginRuleRepository {
	return &marginRuleRepository{db: db}
}

func (r marginRuleRepository) UpsertMarginRule(ctx context.Context, params UpsertMarginRuleParams) (model.MarginRule, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.MarginRule{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	row := r.db.QueryRow(ctx, `
		INSERT INTO margin_rules (id, scope, key, margin_percentage, created_at, updated_at)
		VALUES (@id, @scope, @key, @percentage, @now, @now)
		ON CONFLICT (scope, key) DO UPDATE
		SET margin_percentage = EXCLUDED.margin_percentage,
		    updated_at        = EXCLUDED.updated_at
		RETURNING id, scope, key, margin_percentage, created_at, updated_at;
	`, pgx.NamedArgs{
		"id":         id,
		"scope":      string(params.Scope),
		"key":        params.Key,
		"percentage": params.Percentage,
		"now":        now,
	})

	rule, err := scanMarginRule(row)
	if err != nil {
		return model.MarginRule{}, fmt.Errorf("upsert margin rule: %w", err)
	}

	return rule, nil
}

func (r marginRuleRepository) DeleteMarginRule(ctx context.Context, scope model.MarginScope, key string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM margin_rules
		WHERE scope = @scope AND key = @key;
	`, pgx.NamedArgs{
		"scope": string(scope),
		"key":   key,
	})
	if err != nil {
		return fmt.Errorf("delete margin rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r marginRuleRepository) GetMarginConfig(ctx context.Context) (model.MarginConfig, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, scope, key, margin_percentage, created_at, updated_at
		FROM margin_rules
		ORDER BY scope, key;
	`)
	if err != nil {
		return model.MarginConfig{}, fmt.Errorf("list margin rules: %w", err)
	}
	defer rows.Close()

	cfg := model.EmptyMarginConfig()
	for rows.Next() {
		rule, err := scanMarginRule(rows)
		if err != nil {
			return model.MarginConfig{}, fmt.Errorf("scan margin rule: %w", err)
		}

		switch rule.Scope {
		case model.MarginScopeGlobal:
			r := rule
			cfg.Global = &r
		case model.MarginScopeCategory:
			cfg.ByCategory[pricing.FoldCategory(rule.Key)] = rule
		case model.MarginScopeProduct:
			cfg.ByProduct[rule.Key] = rule
		}
	}
	if err := rows.Err(); err != nil {
		return model.MarginConfig{}, fmt.Errorf("iterate margin rules: %w", err)
	}

	return cfg, nil
}

func scanMarginRule(row pgx.Row) (model.MarginRule, error) {
	var (
		rule  model.MarginRule
		scope string
	)
	if err := row.Scan(&rule.ID, &scope, &rule.Key, &rule.Percentage, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return model.MarginRule{}, err
	}
	rule.Scope = model.MarginScope(scope)
	return rule, nil
}
