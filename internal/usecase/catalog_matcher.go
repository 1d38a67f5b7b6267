package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/infrastructure/metrics"
)

// Catalog lookup constants
const (
	fallbackKeyword = "rice"
	minPrice        = 50
	maxPrice        = 300
	unknownField    = "Unknown"
	unnamedProduct  = "Unnamed"
)

// PriceFunc returns a price for one matched catalog entry
type PriceFunc func() int

// RandomPrice draws uniformly from [50, 300]; the catalog carries no prices.
func RandomPrice() int {
	return minPrice + rand.Intn(maxPrice-minPrice+1)
}

// MatcherConfig holds configuration for the catalog matcher
type MatcherConfig struct {
	// Concurrency bounds parallel keyword queries. 1 runs them sequentially.
	Concurrency int
	Price       PriceFunc
}

// KeywordOutcome is the result of querying the catalog for one keyword
type KeywordOutcome struct {
	Keyword  string
	Products []domain.ProductRecord
	Err      error
}

// Failed reports whether the keyword query errored
func (o KeywordOutcome) Failed() bool {
	return o.Err != nil
}

// MatchReport holds one outcome per keyword, in keyword order
type MatchReport struct {
	Outcomes []KeywordOutcome
}

// Products flattens matches in keyword order, then catalog order
func (r *MatchReport) Products() []domain.ProductRecord {
	products := []domain.ProductRecord{}
	for _, outcome := range r.Outcomes {
		products = append(products, outcome.Products...)
	}
	return products
}

// Failures lists keywords whose queries errored
func (r *MatchReport) Failures() []domain.KeywordFailure {
	var failures []domain.KeywordFailure
	for _, outcome := range r.Outcomes {
		if outcome.Failed() {
			failures = append(failures, domain.KeywordFailure{
				Keyword: outcome.Keyword,
				Error:   outcome.Err.Error(),
			})
		}
	}
	return failures
}

// CatalogMatcher resolves intent keywords into priced product records
type CatalogMatcher struct {
	store       domain.CatalogStore
	concurrency int
	price       PriceFunc
	logger      *zap.Logger
}

// NewCatalogMatcher creates a new catalog matcher
func NewCatalogMatcher(store domain.CatalogStore, config MatcherConfig, logger *zap.Logger) *CatalogMatcher {
	concurrency := config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	price := config.Price
	if price == nil {
		price = RandomPrice
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CatalogMatcher{
		store:       store,
		concurrency: concurrency,
		price:       price,
		logger:      logger.Named("matcher"),
	}
}

// Match queries the catalog once per keyword. A failing keyword yields no
// products and never aborts the others. Budget is not used for filtering.
func (m *CatalogMatcher) Match(ctx context.Context, intent domain.ShoppingIntent) *MatchReport {
	keywords := intent.Items
	if len(keywords) == 0 {
		m.logger.Info("no items extracted, using fallback keyword", zap.String("keyword", fallbackKeyword))
		keywords = []string{fallbackKeyword}
	}

	location := ""
	if !intent.WantsAnyLocation() {
		location = strings.TrimSpace(intent.Location)
	}

	outcomes := make([]KeywordOutcome, len(keywords))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for idx, keyword := range keywords {
		idx, keyword := idx, keyword
		g.Go(func() error {
			outcomes[idx] = m.matchKeyword(gCtx, keyword, location)
			// Failures are carried in the outcome so siblings keep running.
			return nil
		})
	}
	_ = g.Wait()

	report := &MatchReport{Outcomes: outcomes}
	if len(report.Products()) == 0 {
		m.logger.Info("no items matched at all", zap.Strings("keywords", keywords))
	}
	return report
}

func (m *CatalogMatcher) matchKeyword(ctx context.Context, keyword, location string) KeywordOutcome {
	query := domain.CatalogQuery{NamePattern: keyword, LocationPattern: location}
	m.logger.Debug("querying catalog",
		zap.String("keyword", keyword),
		zap.String("location", location),
	)

	entries, err := m.find(ctx, query)
	if err != nil {
		metrics.KeywordQueries.WithLabelValues("error").Inc()
		m.logger.Warn("catalog query failed", zap.String("keyword", keyword), zap.Error(err))
		return KeywordOutcome{Keyword: keyword, Err: err}
	}

	products := make([]domain.ProductRecord, 0, len(entries))
	for _, entry := range entries {
		products = append(products, m.toProductRecord(entry))
	}

	metrics.KeywordQueries.WithLabelValues("ok").Inc()
	m.logger.Debug("keyword matched", zap.String("keyword", keyword), zap.Int("count", len(products)))
	return KeywordOutcome{Keyword: keyword, Products: products}
}

// find shields the matcher from a panicking store so one keyword cannot take down the rest.
func (m *CatalogMatcher) find(ctx context.Context, query domain.CatalogQuery) (entries []domain.CatalogEntry, err error) {
	if m.store == nil {
		return nil, fmt.Errorf("%w: no catalog store configured", domain.ErrCatalogQueryFailed)
	}
	defer func() {
		if r := recover(); r != nil {
			entries = nil
			err = fmt.Errorf("%w: panic: %v", domain.ErrCatalogQueryFailed, r)
		}
	}()
	return m.store.Find(ctx, query)
}

func (m *CatalogMatcher) toProductRecord(entry domain.CatalogEntry) domain.ProductRecord {
	return domain.ProductRecord{
		Name:              orDefault(entry.ProductName, unnamedProduct),
		ProductID:         entry.ProductID,
		QuantityAvailable: entry.Qty,
		Location:          orDefault(entry.Location, unknownField),
		Rack:              orDefault(entry.Rack, unknownField),
		Floor:             orDefault(entry.Floor, unknownField),
		Price:             m.price(),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
