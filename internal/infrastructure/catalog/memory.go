package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/smartshop/backend/internal/domain"
)

// MemoryStore serves a fixed product list, typically loaded from a JSON file.
// It is read-only after construction and safe for concurrent use.
type MemoryStore struct {
	entries []domain.CatalogEntry
}

// NewMemoryStore creates a store over the given entries
func NewMemoryStore(entries []domain.CatalogEntry) *MemoryStore {
	copied := make([]domain.CatalogEntry, len(entries))
	copy(copied, entries)
	return &MemoryStore{entries: copied}
}

// LoadMemoryStore reads a JSON array of catalog entries
func LoadMemoryStore(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var entries []domain.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}
	return NewMemoryStore(entries), nil
}

// Find returns entries whose name, and location when filtered, contain the patterns case-insensitively
func (s *MemoryStore) Find(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogQueryFailed, err)
	}

	name := strings.ToLower(query.NamePattern)
	location := strings.ToLower(query.LocationPattern)

	var matches []domain.CatalogEntry
	for _, entry := range s.entries {
		if !strings.Contains(strings.ToLower(entry.ProductName), name) {
			continue
		}
		if query.HasLocationFilter() && !strings.Contains(strings.ToLower(entry.Location), location) {
			continue
		}
		matches = append(matches, entry)
	}
	return matches, nil
}
