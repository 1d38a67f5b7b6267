package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartshop/backend/internal/domain"
)

// fakeCollection returns canned documents and records the last filter
type fakeCollection struct {
	docs       []interface{}
	err        error
	lastFilter interface{}
}

func (f *fakeCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func TestBuildFilter(t *testing.T) {
	t.Run("name only when no location", func(t *testing.T) {
		filter := BuildFilter(domain.CatalogQuery{NamePattern: "juice"})

		assert.Equal(t, primitive.Regex{Pattern: "juice", Options: "i"}, filter["product_name"])
		_, hasLocation := filter["location"]
		assert.False(t, hasLocation)
	})

	t.Run("adds location regex", func(t *testing.T) {
		filter := BuildFilter(domain.CatalogQuery{NamePattern: "mop", LocationPattern: "Aisle 2"})

		assert.Equal(t, primitive.Regex{Pattern: "Aisle 2", Options: "i"}, filter["location"])
	})

	t.Run("quotes regex metacharacters", func(t *testing.T) {
		filter := BuildFilter(domain.CatalogQuery{NamePattern: "c++ (large)"})

		assert.Equal(t, primitive.Regex{Pattern: `c\+\+ \(large\)`, Options: "i"}, filter["product_name"])
	})
}

func TestMongoStore_Find(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes documents in natural order", func(t *testing.T) {
		coll := &fakeCollection{docs: []interface{}{
			bson.D{
				{Key: "product_name", Value: "Orange Juice"},
				{Key: "product_id", Value: "P2"},
				{Key: "qty", Value: 12},
				{Key: "location", Value: "Aisle 2"},
				{Key: "rack", Value: 3},
				{Key: "floor", Value: "1"},
			},
			bson.D{
				{Key: "product_name", Value: "Apple Juice"},
				{Key: "qty", Value: int64(4)},
			},
		}}
		store := NewMongoStore(coll)

		entries, err := store.Find(ctx, domain.CatalogQuery{NamePattern: "juice"})
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, domain.CatalogEntry{
			ProductName: "Orange Juice",
			ProductID:   "P2",
			Qty:         12,
			Location:    "Aisle 2",
			Rack:        "3",
			Floor:       "1",
		}, entries[0])
		assert.Equal(t, "Apple Juice", entries[1].ProductName)
		assert.Equal(t, 4, entries[1].Qty)
		assert.Empty(t, entries[1].Location)
	})

	t.Run("wraps query errors", func(t *testing.T) {
		store := NewMongoStore(&fakeCollection{err: errors.New("connection reset")})

		_, err := store.Find(ctx, domain.CatalogQuery{NamePattern: "rice"})
		assert.ErrorIs(t, err, domain.ErrCatalogQueryFailed)
	})

	t.Run("passes the built filter", func(t *testing.T) {
		coll := &fakeCollection{}
		store := NewMongoStore(coll)

		_, err := store.Find(ctx, domain.CatalogQuery{NamePattern: "rice", LocationPattern: "Aisle 1"})
		require.NoError(t, err)
		assert.Equal(t, BuildFilter(domain.CatalogQuery{NamePattern: "rice", LocationPattern: "Aisle 1"}), coll.lastFilter)
	})
}

func TestFieldCoercion(t *testing.T) {
	assert.Equal(t, "", stringField(nil))
	assert.Equal(t, "7", stringField(int32(7)))
	assert.Equal(t, "2.5", stringField(2.5))
	assert.Equal(t, 3, intField("3"))
	assert.Equal(t, 0, intField("three"))
	assert.Equal(t, 9, intField(float64(9)))
}
