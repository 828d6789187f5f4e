// Package testutil provides shared helpers for store and handler tests:
// a throwaway Mongo database per test, fixtures for the core entities,
// and HTTP request helpers.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// testMongoURI returns the Mongo URI for tests. Override with
// COURSEDESK_TEST_MONGO_URI; defaults to a local instance.
func testMongoURI() string {
	if uri := os.Getenv("COURSEDESK_TEST_MONGO_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

// SetupTestDB connects to the test Mongo instance and returns a database
// with a unique name for this test. The database is dropped and the client
// disconnected when the test finishes. Tests are skipped when no Mongo
// instance is reachable, so the pure-logic suite still runs everywhere.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(testMongoURI()).
		SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("skipping: cannot create mongo client: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("skipping: no mongo instance at %s: %v", testMongoURI(), err)
	}

	dbName := fmt.Sprintf("coursedesk_test_%s", primitive.NewObjectID().Hex())
	db := client.Database(dbName)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("failed to drop test database %s: %v", dbName, err)
		}
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestMongoParams returns the test Mongo URI plus a unique database
// name, skipping the test when no instance is reachable. The database
// is dropped when the test finishes. For stores that dial their own
// connection instead of taking a *mongo.Database.
func TestMongoParams(t *testing.T) (uri, dbName string) {
	t.Helper()

	db := SetupTestDB(t)
	return testMongoURI(), db.Name()
}

// TestContext returns a context with a generous timeout for test
// operations against the database.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
