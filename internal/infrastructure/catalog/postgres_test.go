package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/backend/internal/domain"
)

var productColumns = []string{"product_name", "product_id", "qty", "location", "rack", "floor"}

func TestNewPostgresStore(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store, err := NewPostgresStore(db, "")
	require.NoError(t, err)
	assert.Equal(t, "products", store.table)

	_, err = NewPostgresStore(db, "products; DROP TABLE users")
	assert.Error(t, err)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%rice%", LikePattern("rice"))
	assert.Equal(t, `%50\% off%`, LikePattern("50% off"))
	assert.Equal(t, `%a\_b%`, LikePattern("a_b"))
}

func TestPostgresStore_Find(t *testing.T) {
	ctx := context.Background()

	t.Run("name filter only", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(productColumns).
			AddRow("Basmati Rice", "P1", 10, "Aisle 1", "R1", "1").
			AddRow("Rice Flour", "P3", nil, nil, nil, nil)

		mock.ExpectQuery(`SELECT product_name, product_id, qty, location, rack, floor FROM products WHERE product_name ILIKE $1 ORDER BY id`).
			WithArgs("%rice%").
			WillReturnRows(rows)

		store, _ := NewPostgresStore(db, "products")
		entries, err := store.Find(ctx, domain.CatalogQuery{NamePattern: "rice"})

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Basmati Rice", entries[0].ProductName)
		assert.Equal(t, 10, entries[0].Qty)
		assert.Equal(t, "Rice Flour", entries[1].ProductName)
		assert.Empty(t, entries[1].Location)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("adds location filter", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT product_name, product_id, qty, location, rack, floor FROM products WHERE product_name ILIKE $1 AND location ILIKE $2 ORDER BY id`).
			WithArgs("%mop%", "%Aisle 2%").
			WillReturnRows(sqlmock.NewRows(productColumns))

		store, _ := NewPostgresStore(db, "products")
		entries, err := store.Find(ctx, domain.CatalogQuery{NamePattern: "mop", LocationPattern: "Aisle 2"})

		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("connection refused"))

		store, _ := NewPostgresStore(db, "products")
		_, err = store.Find(ctx, domain.CatalogQuery{NamePattern: "rice"})

		assert.ErrorIs(t, err, domain.ErrCatalogQueryFailed)
	})
}
