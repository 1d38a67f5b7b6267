package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/smartshop/backend/internal/domain"
)

// MockTextGenerator is a mock implementation of domain.TextGenerator
type MockTextGenerator struct {
	output  string
	err     error
	prompts []string
	mu      sync.Mutex
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

// MockCatalogStore is a mock implementation of domain.CatalogStore.
// Entries match on case-insensitive substring, like the real stores.
type MockCatalogStore struct {
	entries []domain.CatalogEntry
	// failOn makes queries for these name patterns error
	failOn  map[string]error
	queries []domain.CatalogQuery
	mu      sync.Mutex
}

func NewMockCatalogStore(entries ...domain.CatalogEntry) *MockCatalogStore {
	return &MockCatalogStore{entries: entries, failOn: make(map[string]error)}
}

func (m *MockCatalogStore) Find(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogEntry, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if err, ok := m.failOn[query.NamePattern]; ok {
		return nil, err
	}

	var matches []domain.CatalogEntry
	for _, entry := range m.entries {
		if !strings.Contains(strings.ToLower(entry.ProductName), strings.ToLower(query.NamePattern)) {
			continue
		}
		if query.HasLocationFilter() &&
			!strings.Contains(strings.ToLower(entry.Location), strings.ToLower(query.LocationPattern)) {
			continue
		}
		matches = append(matches, entry)
	}
	return matches, nil
}

func (m *MockCatalogStore) Queries() []domain.CatalogQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CatalogQuery(nil), m.queries...)
}

// MockStoreLayout is a mock implementation of domain.StoreLayout
type MockStoreLayout map[string]domain.Point

func (m MockStoreLayout) Position(aisle string) (domain.Point, bool) {
	p, ok := m[aisle]
	return p, ok
}

// MockColorRepository is a mock implementation of domain.AisleColorRepository
type MockColorRepository struct {
	colors []domain.AisleColor
	err    error
}

func (m *MockColorRepository) ColorFor(ctx context.Context, aisle string) (domain.AisleColor, error) {
	if m.err != nil {
		return domain.AisleColor{}, m.err
	}
	for _, c := range m.colors {
		if c.Aisle == aisle {
			return c, nil
		}
	}
	c := domain.AisleColor{Aisle: aisle, R: 100, G: 100, B: 100, A: 180}
	m.colors = append(m.colors, c)
	return c, nil
}

func (m *MockColorRepository) All(ctx context.Context) ([]domain.AisleColor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.AisleColor{}, m.colors...), nil
}

func fixedPrice(p int) PriceFunc {
	return func() int { return p }
}
