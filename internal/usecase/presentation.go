package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain"
)

// Marker is one product pin on the store map
type Marker struct {
	ProductName string       `json:"productName"`
	Aisle       string       `json:"aisle"`
	Position    domain.Point `json:"position"`
	Color       string       `json:"color,omitempty"`
}

// LegendEntry lists the products of a plan that sit in one colored aisle
type LegendEntry struct {
	Aisle    string   `json:"aisle"`
	Color    string   `json:"color"`
	Products []string `json:"products"`
}

// PlanView is everything the map, legend, PDF and QR renderers need
type PlanView struct {
	Markers []Marker       `json:"markers"`
	Route   []domain.Point `json:"route,omitempty"`
	Legend  []LegendEntry  `json:"legend"`
	Summary Summary        `json:"summary"`
}

// Summary is the plain-text form of a plan
type Summary struct {
	Header   []string `json:"header"`
	Products []string `json:"products"`
	QRText   string   `json:"qrText"`
}

// PresentationService builds render-ready data from a plan.
// It only reads the plan; nothing flows back into the pipeline.
type PresentationService struct {
	layout domain.StoreLayout
	colors domain.AisleColorRepository
	logger *zap.Logger
}

// NewPresentationService creates a new presentation service
func NewPresentationService(layout domain.StoreLayout, colors domain.AisleColorRepository, logger *zap.Logger) *PresentationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresentationService{
		layout: layout,
		colors: colors,
		logger: logger.Named("presentation"),
	}
}

// Render builds markers, route, legend and summary for a plan
func (p *PresentationService) Render(ctx context.Context, plan *domain.ShoppingPlan) *PlanView {
	view := &PlanView{
		Markers: []Marker{},
		Legend:  []LegendEntry{},
		Summary: BuildSummary(plan),
	}

	var route []domain.Point
	for _, selection := range plan.Selections {
		aisle := selection.Location
		pos, ok := p.position(aisle)
		if !ok {
			continue
		}
		route = append(route, pos)

		marker := Marker{ProductName: selection.Name, Aisle: aisle, Position: pos}
		if color, err := p.colorFor(ctx, aisle); err == nil {
			marker.Color = color.Hex()
		} else {
			p.logger.Warn("aisle color unavailable", zap.String("aisle", aisle), zap.Error(err))
		}
		view.Markers = append(view.Markers, marker)
	}

	// A route needs at least two stops.
	if len(route) >= 2 {
		view.Route = route
	}

	view.Legend = p.legend(ctx, plan)
	return view
}

// Legend returns every aisle color assigned so far in this process
func (p *PresentationService) Legend(ctx context.Context) ([]domain.AisleColor, error) {
	if p.colors == nil {
		return []domain.AisleColor{}, nil
	}
	return p.colors.All(ctx)
}

func (p *PresentationService) legend(ctx context.Context, plan *domain.ShoppingPlan) []LegendEntry {
	colors, err := p.Legend(ctx)
	if err != nil {
		p.logger.Warn("aisle legend unavailable", zap.Error(err))
		return []LegendEntry{}
	}

	byAisle := make(map[string][]string)
	for _, selection := range plan.Selections {
		byAisle[selection.Location] = append(byAisle[selection.Location], selection.Name)
	}

	entries := make([]LegendEntry, 0, len(colors))
	for _, color := range colors {
		products := byAisle[color.Aisle]
		if products == nil {
			products = []string{}
		}
		entries = append(entries, LegendEntry{
			Aisle:    color.Aisle,
			Color:    color.Hex(),
			Products: products,
		})
	}
	return entries
}

func (p *PresentationService) position(aisle string) (domain.Point, bool) {
	if p.layout == nil {
		return domain.Point{}, false
	}
	return p.layout.Position(aisle)
}

func (p *PresentationService) colorFor(ctx context.Context, aisle string) (domain.AisleColor, error) {
	if p.colors == nil {
		return domain.AisleColor{}, domain.ErrCacheUnavailable
	}
	return p.colors.ColorFor(ctx, aisle)
}

// BuildSummary renders the header and per-product lines of the downloadable summary
func BuildSummary(plan *domain.ShoppingPlan) Summary {
	items := strings.Join(plan.Intent.Items, ", ")
	if items == "" {
		items = "Not found"
	}

	summary := Summary{
		Header: []string{
			fmt.Sprintf("Items: %s", items),
			fmt.Sprintf("Budget: ₹%d", plan.Intent.Budget),
			fmt.Sprintf("Aisle Preference: %s", plan.Intent.Location),
			fmt.Sprintf("Quantity: %d", plan.Intent.Quantity),
			fmt.Sprintf("Total Estimated Cost: ₹%d", plan.TotalCost),
		},
		Products: make([]string, 0, len(plan.Selections)),
	}

	qrLines := make([]string, 0, len(plan.Selections))
	for _, s := range plan.Selections {
		summary.Products = append(summary.Products, fmt.Sprintf(
			"%s | Product ID: %s | Aisle: %s | Rack: %s | Floor: %s | Quantity: %d | Cost: ₹%d",
			s.Name, s.ProductID, s.Location, s.Rack, s.Floor, s.FinalQty, s.FinalCost,
		))
		qrLines = append(qrLines, fmt.Sprintf("%s (₹%d) - Aisle: %s, Rack: %s", s.Name, s.FinalCost, s.Location, s.Rack))
	}
	summary.QRText = strings.Join(qrLines, "\n")

	return summary
}
