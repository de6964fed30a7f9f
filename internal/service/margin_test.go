package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojatech/precifica/internal/apperr"
	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/repository"
	"github.com/lojatech/precifica/internal/service"
	"github.com/lojatech/precifica/internal/storage/db"
	"github.com/lojatech/precifica/pkg/ptr"
)

type fakeMarginRuleRepo struct {
	config model.MarginConfig

	upserted *repository.UpsertMarginRuleParams
	deleted  *struct {
		scope model.MarginScope
		key   string
	}
	deleteErr error
}

func (f *fakeMarginRuleRepo) WithDB(_ db.DB) repository.MarginRuleRepository { return f }

func (f *fakeMarginRuleRepo) UpsertMarginRule(_ context.Context, params repository.UpsertMarginRuleParams) (model.MarginRule, error) {
	f.upserted = &params
	return model.MarginRule{
		Scope:      params.Scope,
		Key:        params.Key,
		Percentage: params.Percentage,
	}, nil
}

func (f *fakeMarginRuleRepo) DeleteMarginRule(_ context.Context, scope model.MarginScope, key string) error {
	f.deleted = &struct {
		scope model.MarginScope
		key   string
	}{scope, key}
	return f.deleteErr
}

func (f *fakeMarginRuleRepo) GetMarginConfig(_ context.Context) (model.MarginConfig, error) {
	return f.config, nil
}

func TestMarginServiceUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Should store a global rule with an empty key", func(t *testing.T) {
		repo := &fakeMarginRuleRepo{}
		svc := service.NewMarginService(repo)

		rule, err := svc.Upsert(ctx, service.UpsertMarginParams{
			Type:             model.MarginScopeGlobal,
			MarginPercentage: 15,
		})

		require.NoError(t, err)
		assert.Equal(t, model.MarginScopeGlobal, rule.Scope)
		assert.Empty(t, rule.Key)
		require.NotNil(t, repo.upserted)
		assert.Equal(t, 15.0, repo.upserted.Percentage)
	})

	t.Run("Should fold the category name into the key", func(t *testing.T) {
		repo := &fakeMarginRuleRepo{}
		svc := service.NewMarginService(repo)

		rule, err := svc.Upsert(ctx, service.UpsertMarginParams{
			Type:             model.MarginScopeCategory,
			MarginPercentage: 20,
			CategoryName:     ptr.New(" iPhone "),
		})

		require.NoError(t, err)
		assert.Equal(t, "iphone", rule.Key)
	})

	t.Run("Should trim the product id", func(t *testing.T) {
		repo := &fakeMarginRuleRepo{}
		svc := service.NewMarginService(repo)

		rule, err := svc.Upsert(ctx, service.UpsertMarginParams{
			Type:             model.MarginScopeProduct,
			MarginPercentage: 10,
			ProductID:        ptr.New(" sku-1 "),
		})

		require.NoError(t, err)
		assert.Equal(t, "sku-1", rule.Key)
	})

	t.Run("Should reject out-of-range percentages without writing", func(t *testing.T) {
		for _, pct := range []float64{-0.01, 1000.01, math.NaN(), math.Inf(1)} {
			repo := &fakeMarginRuleRepo{}
			svc := service.NewMarginService(repo)

			_, err := svc.Upsert(ctx, service.UpsertMarginParams{
				Type:             model.MarginScopeGlobal,
				MarginPercentage: pct,
			})

			assert.ErrorIs(t, err, apperr.MarginOutOfRangeErr)
			assert.Nil(t, repo.upserted)
		}
	})

	t.Run("Should accept the range boundaries", func(t *testing.T) {
		repo := &fakeMarginRuleRepo{}
		svc := service.NewMarginService(repo)

		for _, pct := range []float64{0, 1000} {
			_, err := svc.Upsert(ctx, service.UpsertMarginParams{
				Type:             model.MarginScopeGlobal,
				MarginPercentage: pct,
			})
			assert.NoError(t, err)
		}
	})

	t.Run("Should reject a category rule without a name", func(t *testing.T) {
		svc := service.NewMarginService(&fakeMarginRuleRepo{})

		_, err := svc.Upsert(ctx, service.UpsertMarginParams{
			Type:             model.MarginScopeCategory,
			MarginPercentage: 20,
			CategoryName:     ptr.New("  "),
		})

		assert.ErrorIs(t, err, apperr.MissingRuleKeyErr)
	})

	t.Run("Should reject a product rule without an id", func(t *testing.T) {
		svc := service.NewMarginService(&fakeMarginRuleRepo{})

		_, err := svc.Upsert(ctx, service.UpsertMarginParams{
			Type:             model.MarginScopeProduct,
			MarginPercentage: 20,
		})

		assert.ErrorIs(t, err, apperr.MissingRuleKeyErr)
	})

	t.Run("Should reject an unknown scope", func(t *testing.T) {
		svc := service.NewMarginService(&fakeMarginRuleRepo{})

		_, err := svc.Upsert(ctx, service.UpsertMarginParams{
			Type:             model.MarginScope("percent"),
			MarginPercentage: 20,
		})

		assert.ErrorIs(t, err, apperr.UnknownMarginScopeErr)
	})
}

func TestMarginServiceRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete by folded key", func(t *testing.T) {
		repo := &fakeMarginRuleRepo{}
		svc := service.NewMarginService(repo)

		err := svc.Remove(ctx, service.RemoveMarginParams{
			Type:         model.MarginScopeCategory,
			CategoryName: ptr.New("IPHONE"),
		})

		require.NoError(t, err)
		require.NotNil(t, repo.deleted)
		assert.Equal(t, "iphone", repo.deleted.key)
	})

	t.Run("Should map a missing rule to the not-found error", func(t *testing.T) {
		repo := &fakeMarginRuleRepo{deleteErr: repository.ErrNotFound}
		svc := service.NewMarginService(repo)

		err := svc.Remove(ctx, service.RemoveMarginParams{Type: model.MarginScopeGlobal})

		assert.ErrorIs(t, err, apperr.MarginRuleNotFoundErr)
	})
}
