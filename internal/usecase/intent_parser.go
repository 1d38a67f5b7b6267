package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/smartshop/backend/internal/domain"
)

// Named parse failures. Any of them makes the extractor fall back to the default intent.
var (
	ErrEmptyOutput     = errors.New("model output is empty")
	ErrMalformedNumber = errors.New("model output has a non-numeric budget or quantity")
	ErrOutOfRange      = errors.New("model output has an out-of-range budget or quantity")
)

// Keys of the key=value micro-format
const (
	keyItems    = "items"
	keyBudget   = "budget"
	keyQuantity = "quantity"
	keyLocation = "location"
)

// ParseResult is the tagged outcome of parsing model output.
// Exactly one of Intent or Err is meaningful: Err == nil means success.
type ParseResult struct {
	Intent domain.ShoppingIntent
	Err    error
}

// OK reports whether parsing produced an intent
func (r ParseResult) OK() bool {
	return r.Err == nil
}

// ParseIntent parses "items=[a, b]; budget=500; quantity=2; location=any".
// Missing or unknown keys fall back per field; a bad number fails the whole parse.
func ParseIntent(output string) ParseResult {
	body := stripOutputDecoration(output)
	if body == "" {
		return ParseResult{Err: ErrEmptyOutput}
	}

	fields := scanFields(body)
	intent := domain.DefaultIntent()

	if raw, ok := fields[keyItems]; ok {
		intent.Items = splitItems(raw)
	}

	if raw, ok := fields[keyLocation]; ok && raw != "" {
		intent.Location = raw
	}

	if raw, ok := fields[keyBudget]; ok {
		budget, err := parseInt(keyBudget, raw)
		if err != nil {
			return ParseResult{Err: err}
		}
		if budget < 0 {
			return ParseResult{Err: fmt.Errorf("%w: budget=%d", ErrOutOfRange, budget)}
		}
		intent.Budget = budget
	}

	if raw, ok := fields[keyQuantity]; ok {
		quantity, err := parseInt(keyQuantity, raw)
		if err != nil {
			return ParseResult{Err: err}
		}
		if quantity < 1 || quantity > domain.MaxQuantity {
			return ParseResult{Err: fmt.Errorf("%w: quantity=%d", ErrOutOfRange, quantity)}
		}
		intent.Quantity = quantity
	}

	return ParseResult{Intent: intent}
}

// stripOutputDecoration removes code fences and the leading arrow the
// few-shot examples teach the model to echo.
func stripOutputDecoration(output string) string {
	s := strings.TrimSpace(output)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	for _, arrow := range []string{"→", "->"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, arrow))
	}
	return s
}

// scanFields splits on ';' and then on the first '=' of each segment.
// Segments without '=' are skipped; later duplicates win.
func scanFields(body string) map[string]string {
	fields := make(map[string]string)
	for _, segment := range strings.Split(body, ";") {
		key, value, found := strings.Cut(segment, "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		fields[key] = strings.Trim(strings.TrimSpace(value), "[]")
	}
	return fields
}

func splitItems(raw string) []string {
	items := []string{}
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseInt(key, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformedNumber, key, raw)
	}
	return n, nil
}
