// Package db opens the task store named by a connection URI.
package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/pkg/task"
)

// Backend names the store implementation selected by a URI scheme.
type Backend string

const (
	Mongo    Backend = "mongodb"
	Postgres Backend = "postgres"
	Memory   Backend = "memory"
)

// DefaultMongoDatabase is used when a MongoDB URI carries no database path.
const DefaultMongoDatabase = "todoapp"

const connectTimeout = 10 * time.Second

// BackendFor maps a URI scheme to a Backend.
func BackendFor(uri string) (Backend, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse store uri: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return Mongo, nil
	case "postgres", "postgresql":
		return Postgres, nil
	case "memory":
		return Memory, nil
	default:
		return "", fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}
}

// Open connects to the store named by uri and verifies it answers a ping.
func Open(ctx context.Context, uri string) (task.Store, Backend, error) {
	backend, err := BackendFor(uri)
	if err != nil {
		return nil, "", err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var store task.Store
	switch backend {
	case Memory:
		return task.NewMemStore(), backend, nil
	case Postgres:
		pool, err := pgxpool.New(ctx, uri)
		if err != nil {
			return nil, "", fmt.Errorf("connect postgres: %w", err)
		}
		store = task.NewPgStore(pool)
	case Mongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return nil, "", fmt.Errorf("connect mongodb: %w", err)
		}
		store = task.NewMongoStore(client, MongoDatabase(uri))
	}

	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, "", fmt.Errorf("ping %s: %w", backend, err)
	}
	return store, backend, nil
}

// MongoDatabase returns the database named in the URI path, or DefaultMongoDatabase.
func MongoDatabase(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return DefaultMongoDatabase
}
