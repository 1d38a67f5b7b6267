package usecase

import (
	"strings"

	"github.com/smartshop/backend/internal/domain"
)

// defaultUnitPrice applies when a product arrives without a usable price
const defaultUnitPrice = 100

// perPersonTerms are bought once per requested head
var perPersonTerms = []string{"balloon", "snack", "drink", "juice"}

// singleUnitTerms are bought exactly once regardless of group size
var singleUnitTerms = []string{"cake"}

// FinalQuantity applies the category heuristic. First matching rule wins.
// requested is clamped to [1, domain.MaxQuantity].
func FinalQuantity(productName string, requested int) int {
	requested = min(max(requested, 1), domain.MaxQuantity)

	name := strings.ToLower(productName)
	switch {
	case containsAny(name, perPersonTerms):
		return requested
	case containsAny(name, singleUnitTerms):
		return 1
	default:
		return max(1, requested/2)
	}
}

// Derive prices every product and accumulates the total in iteration order.
func Derive(products []domain.ProductRecord, quantity int) ([]domain.Selection, int) {
	selections := make([]domain.Selection, 0, len(products))
	total := 0

	for _, product := range products {
		if product.Price <= 0 {
			product.Price = defaultUnitPrice
		}

		qty := FinalQuantity(product.Name, quantity)
		cost := qty * product.Price
		total += cost

		selections = append(selections, domain.Selection{
			ProductRecord: product,
			FinalQty:      qty,
			FinalCost:     cost,
		})
	}

	return selections, total
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
