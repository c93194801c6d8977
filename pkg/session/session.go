// Package session provides the MongoDB client wrapper that executes the
// command documents assembled by the translation layer. It is transport glue
// only: results are decoded, never interpreted.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dan8551/yii2-cocuchdb/pkg/core"
	"github.com/dan8551/yii2-cocuchdb/pkg/naming"
)

// Session manages the driver client and implements core.Executor.
type Session struct {
	client *mongo.Client
	config *Config
	id     string
}

// New connects a session with the given configuration. A nil configuration
// uses DefaultConfig.
func New(ctx context.Context, cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	appName := cfg.AppName
	if appName == "" {
		appName = "cocuchdb-" + id
	}

	opts := options.Client().ApplyURI(cfg.URI).SetAppName(appName)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.ConnectTimeoutSeconds > 0 {
		opts.SetConnectTimeout(time.Duration(cfg.ConnectTimeoutSeconds) * time.Second)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	return &Session{
		client: client,
		config: cfg,
		id:     id,
	}, nil
}

// ID returns the unique identity of this session instance.
func (s *Session) ID() string {
	return s.id
}

// Client exposes the underlying driver client.
func (s *Session) Client() *mongo.Client {
	return s.client
}

// DatabaseName returns the configured default database name. It is a
// read-only accessor; the translation layer receives the name as a parameter
// and never reaches back into the session.
func (s *Session) DatabaseName() string {
	return s.config.Database
}

// Ping verifies the server is reachable.
func (s *Session) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Session) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Execute runs a single-result command and decodes the reply document.
func (s *Session) Execute(ctx context.Context, databaseName string, command bson.D) (bson.D, error) {
	var result bson.D
	err := s.database(databaseName).RunCommand(ctx, command).Decode(&result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteCursor runs a cursor-returning command.
func (s *Session) ExecuteCursor(ctx context.Context, databaseName string, command bson.D) (core.Cursor, error) {
	return s.database(databaseName).RunCommandCursor(ctx, command)
}

// Query runs a find against a collection with an already-translated filter.
func (s *Session) Query(ctx context.Context, databaseName, collectionName string, filter bson.D, opts *options.FindOptions) (core.Cursor, error) {
	if filter == nil {
		filter = bson.D{}
	}
	return s.database(databaseName).Collection(collectionName).Find(ctx, filter, opts)
}

// BulkWrite applies write models to a "database.collection" namespace.
func (s *Session) BulkWrite(ctx context.Context, namespace string, models []mongo.WriteModel, opts *options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	databaseName, collectionName, err := naming.SplitNamespace(namespace)
	if err != nil {
		return nil, err
	}
	return s.database(databaseName).Collection(collectionName).BulkWrite(ctx, models, opts)
}

func (s *Session) database(name string) *mongo.Database {
	if name == "" {
		name = s.config.Database
	}
	return s.client.Database(name)
}
