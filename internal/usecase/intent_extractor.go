package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/infrastructure/metrics"
)

const intentPromptTemplate = `
You are a smart shopping assistant. Convert the user's request into structured shopping data.

Format: items=[item1, item2]; budget=amount; quantity=number; location=location

Examples:
1. Input: I need rice and oil for 2 people under 500
   → items=[rice, oil]; budget=500; quantity=2; location=any

2. Input: I want a healthy salad under 500
   → items=[lettuce, cucumber, tomato, olive oil]; budget=500; quantity=1; location=any

3. Input: Get me detergent and mop from Aisle 2
   → items=[detergent, mop]; budget=1000; quantity=1; location=Aisle 2

Now convert this:
Input: %s
→
`

// groupSizePattern finds an explicit head count such as "12 kids" or "4 guests"
var groupSizePattern = regexp.MustCompile(`(\d+)\s*(kids|people|persons|students|guests)`)

// ExtractorConfig holds configuration for the intent extractor
type ExtractorConfig struct {
	Timeout time.Duration
}

// IntentExtractor turns free text into a ShoppingIntent through a text-generation model
type IntentExtractor struct {
	generator domain.TextGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewIntentExtractor creates a new intent extractor
func NewIntentExtractor(generator domain.TextGenerator, config ExtractorConfig, logger *zap.Logger) *IntentExtractor {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IntentExtractor{
		generator: generator,
		timeout:   timeout,
		logger:    logger.Named("extractor"),
	}
}

// BuildIntentPrompt embeds the user's text in the few-shot prompt
func BuildIntentPrompt(text string) string {
	return fmt.Sprintf(intentPromptTemplate, text)
}

// Extract never fails: any generation or parse error yields domain.DefaultIntent.
func (e *IntentExtractor) Extract(ctx context.Context, text string) domain.ShoppingIntent {
	intent, err := e.TryExtract(ctx, text)
	if err != nil {
		metrics.ExtractionFallbacks.Inc()
		e.logger.Warn("intent extraction failed, using defaults", zap.Error(err))
		return domain.DefaultIntent()
	}
	return intent
}

// TryExtract is Extract with the failure reported instead of masked.
func (e *IntentExtractor) TryExtract(ctx context.Context, text string) (domain.ShoppingIntent, error) {
	if e.generator == nil {
		return domain.ShoppingIntent{}, fmt.Errorf("%w: no text generator configured", domain.ErrGenerationFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	output, err := e.generator.Generate(ctx, BuildIntentPrompt(text))
	if err != nil {
		return domain.ShoppingIntent{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	e.logger.Debug("model output", zap.String("output", output))

	result := ParseIntent(output)
	if !result.OK() {
		return domain.ShoppingIntent{}, result.Err
	}
	return result.Intent, nil
}

// ApplyGroupSize overrides a quantity of 1 with an explicit head count
// found in the raw text. The model tends to under-report group size.
// Counts above domain.MaxQuantity are ignored.
func ApplyGroupSize(intent domain.ShoppingIntent, text string) domain.ShoppingIntent {
	if intent.Quantity != 1 {
		return intent
	}

	match := groupSizePattern.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return intent
	}

	n, err := strconv.Atoi(match[1])
	if err != nil || n < 1 || n > domain.MaxQuantity {
		return intent
	}

	intent.Quantity = n
	return intent
}
