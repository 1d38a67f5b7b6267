package domain

import "context"

// TextGenerator defines the interface for the external text-generation model
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CatalogStore defines the read-only interface to the product catalog
type CatalogStore interface {
	Find(ctx context.Context, query CatalogQuery) ([]CatalogEntry, error)
}

// AisleColorRepository assigns and remembers one color per aisle.
// Assignments are append-only for the lifetime of the backing store.
type AisleColorRepository interface {
	ColorFor(ctx context.Context, aisle string) (AisleColor, error)
	All(ctx context.Context) ([]AisleColor, error)
}

// StoreLayout resolves aisle identifiers to map coordinates
type StoreLayout interface {
	Position(aisle string) (Point, bool)
}
