package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartshop/backend/internal/domain"
)

// finder is the subset of *mongo.Collection the store needs
type finder interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// MongoStore queries a products collection with case-insensitive regex filters
type MongoStore struct {
	collection finder
}

// NewMongoStore creates a store over a products collection
func NewMongoStore(collection finder) *MongoStore {
	return &MongoStore{collection: collection}
}

// ConnectMongo connects to uri and returns the client and the named collection
func ConnectMongo(ctx context.Context, uri, database, collection string) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(database).Collection(collection), nil
}

// BuildFilter builds the Mongo filter for a catalog query.
// Patterns are quoted so they match as literal substrings.
func BuildFilter(query domain.CatalogQuery) bson.M {
	filter := bson.M{
		"product_name": primitive.Regex{Pattern: regexp.QuoteMeta(query.NamePattern), Options: "i"},
	}
	if query.HasLocationFilter() {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(query.LocationPattern), Options: "i"}
	}
	return filter
}

// Find runs the query and decodes every matching document in natural order
func (s *MongoStore) Find(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogEntry, error) {
	cursor, err := s.collection.Find(ctx, BuildFilter(query))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogQueryFailed, err)
	}
	defer cursor.Close(ctx)

	var entries []domain.CatalogEntry
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", domain.ErrCatalogQueryFailed, err)
		}
		entries = append(entries, entryFromDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor: %v", domain.ErrCatalogQueryFailed, err)
	}
	return entries, nil
}

// entryFromDocument tolerates loosely typed documents: rack and floor are
// stored as numbers in some imports and as strings in others.
func entryFromDocument(doc bson.M) domain.CatalogEntry {
	return domain.CatalogEntry{
		ProductName: stringField(doc["product_name"]),
		ProductID:   stringField(doc["product_id"]),
		Qty:         intField(doc["qty"]),
		Location:    stringField(doc["location"]),
		Rack:        stringField(doc["rack"]),
		Floor:       stringField(doc["floor"]),
	}
}

func stringField(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case primitive.ObjectID:
		return val.Hex()
	default:
		return fmt.Sprint(val)
	}
}

func intField(v interface{}) int {
	switch val := v.(type) {
	case int32:
		return int(val)
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
