package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/infrastructure/metrics"
)

// ShoppingService runs the full request pipeline:
// free text -> intent -> group-size override -> catalog matches -> priced selections.
type ShoppingService struct {
	extractor *IntentExtractor
	matcher   *CatalogMatcher
	logger    *zap.Logger
}

// NewShoppingService creates a new shopping service with dependencies
func NewShoppingService(extractor *IntentExtractor, matcher *CatalogMatcher, logger *zap.Logger) *ShoppingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShoppingService{
		extractor: extractor,
		matcher:   matcher,
		logger:    logger.Named("shopping"),
	}
}

// Plan resolves one free-text request. Extraction and catalog failures are
// absorbed; only an empty query is rejected.
func (s *ShoppingService) Plan(ctx context.Context, text string) (*domain.ShoppingPlan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	start := time.Now()
	defer func() {
		metrics.PlanDuration.Observe(time.Since(start).Seconds())
	}()

	intent := s.extractor.Extract(ctx, text)
	intent = ApplyGroupSize(intent, text)

	s.logger.Info("extracted intent",
		zap.Strings("items", intent.Items),
		zap.Int("budget", intent.Budget),
		zap.String("location", intent.Location),
		zap.Int("quantity", intent.Quantity),
	)

	report := s.matcher.Match(ctx, intent)
	selections, total := Derive(report.Products(), intent.Quantity)

	plan := &domain.ShoppingPlan{
		Query:           text,
		Intent:          intent,
		Selections:      selections,
		TotalCost:       total,
		KeywordFailures: report.Failures(),
	}

	result := "matched"
	if plan.NoResults() {
		result = "empty"
	}
	metrics.PlansServed.WithLabelValues(result).Inc()

	s.logger.Info("shopping plan ready",
		zap.Int("selections", len(selections)),
		zap.Int("totalCost", total),
		zap.Int("failedKeywords", len(plan.KeywordFailures)),
	)

	return plan, nil
}
