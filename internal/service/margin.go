package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lojatech/precifica/internal/apperr"
	"github.com/lojatech/precifica/internal/model"
	"github.com/lojatech/precifica/internal/pricing"
	"github.com/lojatech/precifica/internal/repository"
)

// UpsertMarginParams is the validated payload of a margin write. Exactly one
// discriminator field is meaningful per type: CategoryName for category
// rules, ProductID for product rules, neither for the global rule.
type UpsertMarginParams struct {
	Type             model.MarginScope
	MarginPercentage float64
	CategoryName     *string
	ProductID        *string
}

// RemoveMarginParams identifies one stored rule.
type RemoveMarginParams struct {
	Type         model.MarginScope
	CategoryName *string
	ProductID    *string
}

type MarginService interface {
	GetConfig(ctx context.Context) (model.MarginConfig, error)
	Upsert(ctx context.Context, params UpsertMarginParams) (model.MarginRule, error)
	Remove(ctx context.Context, params RemoveMarginParams) error
}

type marginService struct {
	marginRepo repository.MarginRuleRepository
}

func NewMarginService(marginRepo repository.MarginRuleRepository) MarginService {
	return &marginService{marginRepo: marginRepo}
}

func (s *marginService) GetConfig(ctx context.Context) (model.MarginConfig, error) {
	cfg, err := s.marginRepo.GetMarginConfig(ctx)
	if err != nil {
		return model.MarginConfig{}, fmt.Errorf("margin repository get config: %w", err)
	}
	return cfg, nil
}

// Upsert validates strictly and writes one rule. Violations never clamp; the
// write is rejected and existing rules stay untouched.
func (s *marginService) Upsert(ctx context.Context, params UpsertMarginParams) (model.MarginRule, error) {
	if err := validatePercentage(params.MarginPercentage); err != nil {
		return model.MarginRule{}, err
	}

	key, err := ruleKey(params.Type, params.CategoryName, params.ProductID)
	if err != nil {
		return model.MarginRule{}, err
	}

	rule, err := s.marginRepo.UpsertMarginRule(ctx, repository.UpsertMarginRuleParams{
		Scope:      params.Type,
		Key:        key,
		Percentage: params.MarginPercentage,
	})
	if err != nil {
		return model.MarginRule{}, fmt.Errorf("margin repository upsert: %w", err)
	}

	return rule, nil
}

func (s *marginService) Remove(ctx context.Context, params RemoveMarginParams) error {
	key, err := ruleKey(params.Type, params.CategoryName, params.ProductID)
	if err != nil {
		return err
	}

	if err := s.marginRepo.DeleteMarginRule(ctx, params.Type, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.MarginRuleNotFoundErr
		}
		return fmt.Errorf("margin repository delete: %w", err)
	}

	return nil
}

func validatePercentage(pct float64) error {
	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 || pct > 1000 {
		return apperr.MarginOutOfRangeErr
	}
	return nil
}

// ruleKey resolves the storage key for a rule: empty for global, the folded
// category name for category rules, the trimmed product id for product
// rules. A missing discriminator for its type is a validation error.
func ruleKey(scope model.MarginScope, categoryName, productID *string) (string, error) {
	switch scope {
	case model.MarginScopeGlobal:
		return "", nil
	case model.MarginScopeCategory:
		if categoryName == nil || strings.TrimSpace(*categoryName) == "" {
			return "", apperr.MissingRuleKeyErr
		}
		return pricing.FoldCategory(*categoryName), nil
	case model.MarginScopeProduct:
		if productID == nil || strings.TrimSpace(*productID) == "" {
			return "", apperr.MissingRuleKeyErr
		}
		return strings.TrimSpace(*productID), nil
	default:
		return "", apperr.UnknownMarginScopeErr
	}
}
