package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/scanner"
)

// MongoScanner scans MongoDB collections. Documents are walked
// recursively; only string leaves are scanned, addressed with
// dot-notation paths and [i] for array elements.
type MongoScanner struct {
	client *mongo.Client
	dbName string
	engine *scanner.Engine
}

// NewMongoScanner connects to a MongoDB deployment.
func NewMongoScanner(ctx context.Context, connString, dbName string, engine *scanner.Engine) (*MongoScanner, error) {
	if dbName == "" {
		return nil, fmt.Errorf("database name is required for MongoDB")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(connString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to reach MongoDB: %w", err)
	}

	return &MongoScanner{client: client, dbName: dbName, engine: engine}, nil
}

// Close disconnects from the deployment.
func (s *MongoScanner) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ListCollections enumerates the collections of the database.
func (s *MongoScanner) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.client.Database(s.dbName).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

// ScanDatabase scans every included collection and aggregates the
// results. A failing collection contributes an error FileResult.
func (s *MongoScanner) ScanDatabase(ctx context.Context, opts Options) (detection.ScanResults, error) {
	start := time.Now()

	collections, err := s.ListCollections(ctx)
	if err != nil {
		return detection.ScanResults{}, err
	}

	var results []detection.FileResult
	for _, collection := range collections {
		if !opts.includeTable(collection) {
			continue
		}

		result, err := s.scanCollection(ctx, collection, opts)
		if err != nil {
			log.Warn().Str("collection", collection).Err(err).Msg("collection scan failed")
			results = append(results, detection.FileResultError(collection, err.Error()))
			continue
		}
		results = append(results, result)
	}

	scanResults := detection.Aggregate(results)
	scanResults.TotalTimeMs = uint64(time.Since(start).Milliseconds())
	return scanResults, nil
}

// scanCollection reads up to the row limit of documents and scans all
// their string leaves as one pseudo-file, one leaf per line.
func (s *MongoScanner) scanCollection(ctx context.Context, collection string, opts Options) (detection.FileResult, error) {
	coll := s.client.Database(s.dbName).Collection(collection)

	findOpts := options.Find().SetLimit(int64(opts.rowLimit()))
	cursor, err := coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return detection.FileResult{}, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var text strings.Builder
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return detection.FileResult{}, err
		}
		walkDocument("", doc, func(path, value string) {
			text.WriteString(path)
			text.WriteString(": ")
			text.WriteString(strings.ReplaceAll(value, "\n", " "))
			text.WriteByte('\n')
		})
	}
	if err := cursor.Err(); err != nil {
		return detection.FileResult{}, err
	}

	return s.engine.ScanText(collection, text.String()), nil
}

// walkDocument visits every string leaf of a decoded document,
// building dot-notation paths with [i] for array indices.
func walkDocument(prefix string, value any, visit func(path, value string)) {
	switch v := value.(type) {
	case bson.M:
		for key, field := range v {
			walkDocument(joinPath(prefix, key), field, visit)
		}
	case bson.D:
		for _, elem := range v {
			walkDocument(joinPath(prefix, elem.Key), elem.Value, visit)
		}
	case bson.A:
		for i, elem := range v {
			walkDocument(fmt.Sprintf("%s[%d]", prefix, i), elem, visit)
		}
	case string:
		visit(prefix, v)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
