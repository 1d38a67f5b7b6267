package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/lib/pq"

	"github.com/smartshop/backend/internal/domain"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// likeEscaper escapes LIKE wildcards so patterns match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresStore queries a products table with ILIKE substring filters
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgresStore creates a store over the given products table
func NewPostgresStore(db *sql.DB, table string) (*PostgresStore, error) {
	if table == "" {
		table = "products"
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid catalog table name: %q", table)
	}
	return &PostgresStore{db: db, table: table}, nil
}

// OpenPostgres opens and pings a PostgreSQL connection pool
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// LikePattern wraps s for a literal, case-insensitive substring match
func LikePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// BuildQuery returns the SQL and arguments for a catalog query
func (s *PostgresStore) BuildQuery(query domain.CatalogQuery) (string, []interface{}) {
	stmt := fmt.Sprintf(
		`SELECT product_name, product_id, qty, location, rack, floor FROM %s WHERE product_name ILIKE $1`,
		s.table,
	)
	args := []interface{}{LikePattern(query.NamePattern)}

	if query.HasLocationFilter() {
		stmt += ` AND location ILIKE $2`
		args = append(args, LikePattern(query.LocationPattern))
	}
	return stmt + ` ORDER BY id`, args
}

// Find runs the query and scans rows in table order
func (s *PostgresStore) Find(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogEntry, error) {
	stmt, args := s.BuildQuery(query)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogQueryFailed, err)
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var (
			entry                           domain.CatalogEntry
			name, id, location, rack, floor sql.NullString
			qty                             sql.NullInt64
		)
		if err := rows.Scan(&name, &id, &qty, &location, &rack, &floor); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", domain.ErrCatalogQueryFailed, err)
		}
		entry.ProductName = name.String
		entry.ProductID = id.String
		entry.Qty = int(qty.Int64)
		entry.Location = location.String
		entry.Rack = rack.String
		entry.Floor = floor.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", domain.ErrCatalogQueryFailed, err)
	}
	return entries, nil
}
