package domain

// CatalogEntry is a raw record as stored in the product catalog
type CatalogEntry struct {
	ProductName string `json:"product_name" bson:"product_name"`
	ProductID   string `json:"product_id" bson:"product_id"`
	Qty         int    `json:"qty" bson:"qty"`
	Location    string `json:"location" bson:"location"`
	Rack        string `json:"rack" bson:"rack"`
	Floor       string `json:"floor" bson:"floor"`
}

// CatalogQuery describes one case-insensitive substring lookup.
// An empty LocationPattern means no location filter.
type CatalogQuery struct {
	NamePattern     string
	LocationPattern string
}

// HasLocationFilter reports whether the query restricts by aisle
func (q CatalogQuery) HasLocationFilter() bool {
	return q.LocationPattern != ""
}

// ProductRecord is a catalog match with a price synthesized at match time
type ProductRecord struct {
	Name              string `json:"name"`
	ProductID         string `json:"productId"`
	QuantityAvailable int    `json:"quantityAvailable"`
	Location          string `json:"location"`
	Rack              string `json:"rack"`
	Floor             string `json:"floor"`
	Price             int    `json:"price"`
}

// Selection is a ProductRecord with the derived quantity and cost
type Selection struct {
	ProductRecord
	FinalQty  int `json:"finalQty"`
	FinalCost int `json:"finalCost"`
}

// KeywordFailure records a keyword whose catalog query failed
type KeywordFailure struct {
	Keyword string `json:"keyword"`
	Error   string `json:"error"`
}

// ShoppingPlan is the outcome of the resolution pipeline for one request
type ShoppingPlan struct {
	Query           string           `json:"query"`
	Intent          ShoppingIntent   `json:"intent"`
	Selections      []Selection      `json:"selections"`
	TotalCost       int              `json:"totalCost"`
	KeywordFailures []KeywordFailure `json:"keywordFailures,omitempty"`
}

// NoResults reports whether every keyword came back empty
func (p *ShoppingPlan) NoResults() bool {
	return len(p.Selections) == 0
}
