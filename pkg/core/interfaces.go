// Package core defines the execution-boundary interfaces the translation
// layer hands its command documents to. The core never performs I/O itself;
// everything below these interfaces belongs to the driver.
package core

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Cursor is the subset of the driver cursor the translation layer's callers
// need. *mongo.Cursor satisfies it.
type Cursor interface {
	// Next advances to the next document
	Next(ctx context.Context) bool

	// Decode unmarshals the current document into val
	Decode(val any) error

	// All drains the cursor into results and closes it
	All(ctx context.Context, results any) error

	// Err returns the error that stopped iteration, if any
	Err() error

	// Close releases the server-side cursor
	Close(ctx context.Context) error
}

// Executor runs assembled command documents against a server. Implementations
// own transport, sessions and retries; the translation layer never inspects
// results beyond decoding.
type Executor interface {
	// Execute runs a single-result command such as count or distinct
	Execute(ctx context.Context, databaseName string, command bson.D) (bson.D, error)

	// ExecuteCursor runs a cursor-returning command such as aggregate or
	// listCollections
	ExecuteCursor(ctx context.Context, databaseName string, command bson.D) (Cursor, error)

	// Query runs a find against a collection with an already-translated filter
	Query(ctx context.Context, databaseName, collectionName string, filter bson.D, opts *options.FindOptions) (Cursor, error)

	// BulkWrite applies write models to the "database.collection" namespace
	BulkWrite(ctx context.Context, namespace string, models []mongo.WriteModel, opts *options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
}
