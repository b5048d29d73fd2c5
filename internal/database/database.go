// Package database handles the document-store connection and index management.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"picstream/internal/config"
	"picstream/internal/middleware"
	"picstream/internal/observability"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB is the global database handle.
var DB *mongo.Database

// commandTimes correlates started commands with their completion events for
// the latency monitor.
type commandTimes struct {
	mu    sync.Mutex
	start map[int64]time.Time
}

func newCommandMonitor() *event.CommandMonitor {
	ct := &commandTimes{start: make(map[int64]time.Time)}
	return &event.CommandMonitor{
		Started: func(_ context.Context, e *event.CommandStartedEvent) {
			ct.mu.Lock()
			ct.start[e.RequestID] = time.Now()
			ct.mu.Unlock()
		},
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			ct.mu.Lock()
			start, ok := ct.start[e.RequestID]
			delete(ct.start, e.RequestID)
			ct.mu.Unlock()
			if ok {
				observability.ObserveMongoCommand(e.CommandName, start)
			}
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			ct.mu.Lock()
			delete(ct.start, e.RequestID)
			ct.mu.Unlock()
			observability.MongoCommandErrors.WithLabelValues(e.CommandName).Inc()
		},
	}
}

// Connect opens a client using the provided configuration and returns the
// database handle. The caller owns disconnection.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMonitor(newCommandMonitor()).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	middleware.Logger.Info("Database connected successfully")

	db := client.Database(cfg.MongoDatabase)

	// The unique indexes carry the duplicate-key conflict semantics, so they
	// are created on every boot. Secondary indexes are a developer/test
	// convenience; in production they are managed out of band.
	if err := EnsureUniqueIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to create unique indexes: %w", err)
	}
	if !cfg.IsProduction() {
		if err := EnsureSecondaryIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to create indexes: %w", err)
		}
	}
	middleware.Logger.Info("Database indexes ensured")

	DB = db
	return db, nil
}

// Disconnect closes the underlying client of the given database handle.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return nil
	}
	return db.Client().Disconnect(ctx)
}
