package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/infrastructure/metrics"
)

// DefaultBaseURL is the public Gemini REST endpoint
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Options configures the Gemini client
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	// MaxOutputTokens caps the response; 0 leaves it to the model.
	// On 2.5 models thinking tokens count against it.
	MaxOutputTokens int
	MaxRetries      int
	// RequestsPerMinute caps outbound calls; 0 disables limiting.
	RequestsPerMinute int
}

// Client implements domain.TextGenerator against the Gemini generateContent API
type Client struct {
	httpClient  *http.Client
	opts        Options
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	backoff     func(attempt int) time.Duration
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// NewClient creates a new Gemini API client
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), opts.RequestsPerMinute)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		opts:        opts,
		rateLimiter: limiter,
		logger:      logger.Named("gemini"),
		backoff:     exponentialBackoff,
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Generate sends the prompt and returns the first candidate's text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.opts.APIKey == "" {
		return "", fmt.Errorf("%w: missing API key", domain.ErrGenerationFailed)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.opts.Temperature,
			MaxOutputTokens: c.opts.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.opts.BaseURL, c.opts.Model)

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.backoff(attempt - 1)):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, ctx.Err())
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		text, retryable, err := c.doGenerate(ctx, endpoint, body)
		if err == nil {
			metrics.GenerationRequests.WithLabelValues("ok").Inc()
			return text, nil
		}

		metrics.GenerationRequests.WithLabelValues("error").Inc()
		c.logger.Warn("generate request failed", zap.Int("attempt", attempt), zap.Error(err))
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}

	return "", lastErr
}

// doGenerate performs one HTTP round trip. The bool reports whether a retry may help.
func (c *Client) doGenerate(ctx context.Context, endpoint string, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.opts.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", false, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
		}
		return "", true, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: read body: %v", domain.ErrGenerationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, fmt.Errorf("%w: status %d, body: %s", domain.ErrGenerationFailed, resp.StatusCode, string(raw))
	}

	var result generateResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", false, fmt.Errorf("%w: decode response: %v", domain.ErrGenerationFailed, err)
	}

	if len(result.Candidates) == 0 {
		return "", false, domain.ErrEmptyGeneration
	}
	if len(result.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("%w: finish reason %s", domain.ErrEmptyGeneration, result.Candidates[0].FinishReason)
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", false, domain.ErrEmptyGeneration
	}

	return text, false, nil
}
