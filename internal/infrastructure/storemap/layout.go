package storemap

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain"
)

// Layout maps aisle identifiers to pixel positions on the store map image
type Layout struct {
	positions map[string]domain.Point
}

// NewLayout creates a layout from known positions
func NewLayout(positions map[string]domain.Point) *Layout {
	copied := make(map[string]domain.Point, len(positions))
	for aisle, p := range positions {
		copied[aisle] = p
	}
	return &Layout{positions: copied}
}

// Load reads aisle_coords.json: {"Aisle 1": [120, 340], ...}.
// Entries that are not a pair of numbers are skipped with a warning.
func Load(path string, logger *zap.Logger) (*Layout, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aisle coordinates: %w", err)
	}

	var raw map[string][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode aisle coordinates: %w", err)
	}

	positions := make(map[string]domain.Point, len(raw))
	for aisle, coords := range raw {
		if len(coords) != 2 {
			logger.Warn("invalid coordinates for aisle", zap.String("aisle", aisle), zap.Float64s("coords", coords))
			continue
		}
		positions[aisle] = domain.Point{X: int(coords[0]), Y: int(coords[1])}
	}

	return &Layout{positions: positions}, nil
}

// Position returns the aisle's map position, if known
func (l *Layout) Position(aisle string) (domain.Point, bool) {
	p, ok := l.positions[aisle]
	return p, ok
}

// Len returns the number of aisles with coordinates
func (l *Layout) Len() int {
	return len(l.positions)
}
