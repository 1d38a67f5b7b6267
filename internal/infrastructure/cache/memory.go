package cache

import (
	"context"
	"math/rand"
	"sync"

	"github.com/smartshop/backend/internal/domain"
)

// Channel bounds for generated aisle colors
const (
	minChannel  = 50
	maxChannel  = 200
	markerAlpha = 180
)

// ColorFunc generates a color for an aisle seen for the first time
type ColorFunc func(aisle string) domain.AisleColor

// RandomColor picks each RGB channel uniformly from [50, 200] with a fixed alpha
func RandomColor(aisle string) domain.AisleColor {
	channel := func() uint8 {
		return uint8(minChannel + rand.Intn(maxChannel-minChannel+1))
	}
	return domain.AisleColor{Aisle: aisle, R: channel(), G: channel(), B: channel(), A: markerAlpha}
}

// MemoryColorCache is a thread-safe, append-only aisle color cache
type MemoryColorCache struct {
	data     map[string]domain.AisleColor
	order    []string
	generate ColorFunc
	mutex    sync.RWMutex
}

// NewMemoryColorCache creates an empty color cache. A nil generator uses RandomColor.
func NewMemoryColorCache(generate ColorFunc) *MemoryColorCache {
	if generate == nil {
		generate = RandomColor
	}
	return &MemoryColorCache{
		data:     make(map[string]domain.AisleColor),
		generate: generate,
	}
}

// ColorFor returns the aisle's color, assigning one on first sight
func (c *MemoryColorCache) ColorFor(ctx context.Context, aisle string) (domain.AisleColor, error) {
	c.mutex.RLock()
	color, exists := c.data[aisle]
	c.mutex.RUnlock()
	if exists {
		return color, nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Another request may have assigned it between the locks.
	if color, exists := c.data[aisle]; exists {
		return color, nil
	}

	color = c.generate(aisle)
	color.Aisle = aisle
	c.data[aisle] = color
	c.order = append(c.order, aisle)
	return color, nil
}

// All returns every assigned color in first-seen order
func (c *MemoryColorCache) All(ctx context.Context) ([]domain.AisleColor, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	colors := make([]domain.AisleColor, 0, len(c.order))
	for _, aisle := range c.order {
		colors = append(colors, c.data[aisle])
	}
	return colors, nil
}
