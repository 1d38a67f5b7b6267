package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/backend/internal/domain"
)

func samplePlan() *domain.ShoppingPlan {
	selections, total := Derive([]domain.ProductRecord{
		{Name: "Orange Juice", ProductID: "J1", Location: "Aisle 5", Rack: "R1", Floor: "Ground", Price: 100},
		{Name: "Vanilla Cake", ProductID: "C1", Location: "Aisle 6", Rack: "R2", Floor: "Ground", Price: 100},
		{Name: "Paper Plates", ProductID: "X1", Location: "Unknown", Rack: "Unknown", Floor: "Unknown", Price: 60},
	}, 4)
	return &domain.ShoppingPlan{
		Query:      "party for 4 guests",
		Intent:     domain.ShoppingIntent{Items: []string{"juice", "cake", "plates"}, Budget: 800, Location: "any", Quantity: 4},
		Selections: selections,
		TotalCost:  total,
	}
}

func TestPresentationService_Render(t *testing.T) {
	layout := MockStoreLayout{
		"Aisle 5": {X: 120, Y: 340},
		"Aisle 6": {X: 220, Y: 340},
	}

	t.Run("markers route and legend", func(t *testing.T) {
		colors := &MockColorRepository{colors: []domain.AisleColor{
			{Aisle: "Aisle 1", R: 50, G: 60, B: 70, A: 180},
		}}
		service := NewPresentationService(layout, colors, nil)

		view := service.Render(context.Background(), samplePlan())

		require.Len(t, view.Markers, 2)
		assert.Equal(t, "Orange Juice", view.Markers[0].ProductName)
		assert.Equal(t, domain.Point{X: 120, Y: 340}, view.Markers[0].Position)
		assert.Equal(t, "#646464", view.Markers[0].Color)
		assert.Equal(t, []domain.Point{{X: 120, Y: 340}, {X: 220, Y: 340}}, view.Route)

		// Legend covers every cached aisle, including ones without products.
		require.Len(t, view.Legend, 3)
		assert.Equal(t, "Aisle 1", view.Legend[0].Aisle)
		assert.Empty(t, view.Legend[0].Products)
		assert.NotNil(t, view.Legend[0].Products)
		assert.Equal(t, "#323c46", view.Legend[0].Color)
		assert.Equal(t, []string{"Orange Juice"}, view.Legend[1].Products)
		assert.Equal(t, []string{"Vanilla Cake"}, view.Legend[2].Products)
	})

	t.Run("single stop has no route", func(t *testing.T) {
		plan := samplePlan()
		plan.Selections = plan.Selections[:1]
		service := NewPresentationService(layout, &MockColorRepository{}, nil)

		view := service.Render(context.Background(), plan)

		assert.Len(t, view.Markers, 1)
		assert.Nil(t, view.Route)
	})

	t.Run("color repository failure keeps markers", func(t *testing.T) {
		service := NewPresentationService(layout, &MockColorRepository{err: errors.New("redis down")}, nil)

		view := service.Render(context.Background(), samplePlan())

		require.Len(t, view.Markers, 2)
		assert.Empty(t, view.Markers[0].Color)
		assert.Empty(t, view.Legend)
	})

	t.Run("nil layout and colors", func(t *testing.T) {
		service := NewPresentationService(nil, nil, nil)

		view := service.Render(context.Background(), samplePlan())

		assert.Empty(t, view.Markers)
		assert.Empty(t, view.Legend)
		assert.Len(t, view.Summary.Products, 3)
	})
}

func TestPresentationService_Legend(t *testing.T) {
	colors := &MockColorRepository{}
	service := NewPresentationService(nil, colors, nil)

	_, err := colors.ColorFor(context.Background(), "Aisle 3")
	require.NoError(t, err)

	legend, err := service.Legend(context.Background())

	require.NoError(t, err)
	require.Len(t, legend, 1)
	assert.Equal(t, "Aisle 3", legend[0].Aisle)
}

func TestBuildSummary(t *testing.T) {
	plan := samplePlan()

	summary := BuildSummary(plan)

	assert.Equal(t, []string{
		"Items: juice, cake, plates",
		"Budget: ₹800",
		"Aisle Preference: any",
		"Quantity: 4",
		"Total Estimated Cost: ₹620",
	}, summary.Header)
	require.Len(t, summary.Products, 3)
	assert.Equal(t,
		"Orange Juice | Product ID: J1 | Aisle: Aisle 5 | Rack: R1 | Floor: Ground | Quantity: 4 | Cost: ₹400",
		summary.Products[0])
	assert.Equal(t,
		"Orange Juice (₹400) - Aisle: Aisle 5, Rack: R1\n"+
			"Vanilla Cake (₹100) - Aisle: Aisle 6, Rack: R2\n"+
			"Paper Plates (₹120) - Aisle: Unknown, Rack: Unknown",
		summary.QRText)
}

func TestBuildSummary_NoItems(t *testing.T) {
	plan := &domain.ShoppingPlan{Intent: domain.DefaultIntent()}

	summary := BuildSummary(plan)

	assert.Equal(t, "Items: Not found", summary.Header[0])
	assert.Empty(t, summary.Products)
	assert.Empty(t, summary.QRText)
}
