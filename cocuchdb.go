// Package cocuchdb translates portable, relationally-styled filter, sort and
// index specifications into native MongoDB command documents and runs them
// through a pluggable executor.
//
// The DB facade is a thin composition layer: each method assembles a command
// via pkg/command and hands it to the core.Executor (typically a
// session.Session). All translation is pure and side-effect-free; a DB value
// is safe for concurrent use.
package cocuchdb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/dan8551/yii2-cocuchdb/internal/bsonutil"
	"github.com/dan8551/yii2-cocuchdb/pkg/command"
	"github.com/dan8551/yii2-cocuchdb/pkg/core"
	cocuchdbErrors "github.com/dan8551/yii2-cocuchdb/pkg/errors"
	"github.com/dan8551/yii2-cocuchdb/pkg/index"
	"github.com/dan8551/yii2-cocuchdb/pkg/query"
)

// DB ties the command composers to an executor and a default database name.
type DB struct {
	executor core.Executor
	database string
}

// New creates a DB facade. The database name is resolved once by the caller;
// the facade never reaches into ambient state.
func New(executor core.Executor, databaseName string) *DB {
	return &DB{
		executor: executor,
		database: databaseName,
	}
}

// DatabaseName returns the default database this facade operates on.
func (db *DB) DatabaseName() string {
	return db.database
}

// Collection returns a chainable query builder for a collection.
func (db *DB) Collection(name string) *query.Query {
	return query.New(db.executor, db.database, name)
}

// Count returns the number of documents matching cond.
func (db *DB) Count(ctx context.Context, collectionName string, cond any, options bson.D) (int64, error) {
	cmd, err := command.Count(collectionName, cond, options)
	if err != nil {
		return 0, cocuchdbErrors.NewOpError("count", collectionName, err)
	}
	result, err := db.executor.Execute(ctx, db.database, cmd)
	if err != nil {
		return 0, cocuchdbErrors.NewOpError("count", collectionName, err)
	}
	n, ok := bsonutil.Get(result, "n")
	if !ok {
		return 0, cocuchdbErrors.NewOpError("count", collectionName, cocuchdbErrors.ErrNotFound)
	}
	switch v := n.(type) {
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	}
	return 0, cocuchdbErrors.NewOpError("count", collectionName, fmt.Errorf("count reply has unexpected %q type %T", "n", n))
}

// Explain returns the server's execution plan for a find built from spec.
func (db *DB) Explain(ctx context.Context, collectionName string, spec command.FindSpec) (bson.D, error) {
	cmd, err := command.Explain(collectionName, spec)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("explain", collectionName, err)
	}
	result, err := db.executor.Execute(ctx, db.database, cmd)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("explain", collectionName, err)
	}
	return result, nil
}

// MapReduce runs a mapReduce command and returns the raw reply.
func (db *DB) MapReduce(ctx context.Context, collectionName, mapFn, reduceFn string, out, cond any, options bson.D) (bson.D, error) {
	cmd, err := command.MapReduce(collectionName, mapFn, reduceFn, out, cond, options)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("mapReduce", collectionName, err)
	}
	result, err := db.executor.Execute(ctx, db.database, cmd)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("mapReduce", collectionName, err)
	}
	return result, nil
}

// Aggregate runs an aggregation pipeline and returns the result cursor.
func (db *DB) Aggregate(ctx context.Context, collectionName string, pipeline bson.A, options bson.D) (core.Cursor, error) {
	cur, err := db.executor.ExecuteCursor(ctx, db.database, command.Aggregate(collectionName, pipeline, options))
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("aggregate", collectionName, err)
	}
	return cur, nil
}

// Distinct returns the distinct values of one field among documents matching
// cond.
func (db *DB) Distinct(ctx context.Context, collectionName, fieldName string, cond any) (bson.A, error) {
	cmd, err := command.Distinct(collectionName, fieldName, cond, nil)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("distinct", collectionName, err)
	}
	result, err := db.executor.Execute(ctx, db.database, cmd)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("distinct", collectionName, err)
	}
	if values, ok := bsonutil.Get(result, "values"); ok {
		if list, ok := values.(bson.A); ok {
			return list, nil
		}
	}
	return bson.A{}, nil
}

// CreateIndexes creates the given indexes on a collection.
func (db *DB) CreateIndexes(ctx context.Context, collectionName string, specs []index.Spec) error {
	cmd, err := command.CreateIndexes(db.database, collectionName, specs)
	if err != nil {
		return cocuchdbErrors.NewOpError("createIndexes", collectionName, err)
	}
	if _, err := db.executor.Execute(ctx, db.database, cmd); err != nil {
		return cocuchdbErrors.NewOpError("createIndexes", collectionName, err)
	}
	return nil
}

// DropIndexes drops an index by name, key document, or "*" for all.
func (db *DB) DropIndexes(ctx context.Context, collectionName string, idx any) error {
	if _, err := db.executor.Execute(ctx, db.database, command.DropIndexes(collectionName, idx)); err != nil {
		return cocuchdbErrors.NewOpError("dropIndexes", collectionName, err)
	}
	return nil
}

// ListIndexes returns a cursor over a collection's index documents.
func (db *DB) ListIndexes(ctx context.Context, collectionName string, options bson.D) (core.Cursor, error) {
	cur, err := db.executor.ExecuteCursor(ctx, db.database, command.ListIndexes(collectionName, options))
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("listIndexes", collectionName, err)
	}
	return cur, nil
}

// CreateCollection explicitly creates a collection.
func (db *DB) CreateCollection(ctx context.Context, collectionName string, options bson.D) error {
	if _, err := db.executor.Execute(ctx, db.database, command.CreateCollection(collectionName, options)); err != nil {
		return cocuchdbErrors.NewOpError("createCollection", collectionName, err)
	}
	return nil
}

// DropCollection drops a collection.
func (db *DB) DropCollection(ctx context.Context, collectionName string) error {
	if _, err := db.executor.Execute(ctx, db.database, command.DropCollection(collectionName)); err != nil {
		return cocuchdbErrors.NewOpError("dropCollection", collectionName, err)
	}
	return nil
}

// DropDatabase drops the facade's database.
func (db *DB) DropDatabase(ctx context.Context) error {
	if _, err := db.executor.Execute(ctx, db.database, command.DropDatabase()); err != nil {
		return cocuchdbErrors.NewOpError("dropDatabase", "", err)
	}
	return nil
}

// ListCollections returns a cursor over the database's collection documents,
// optionally filtered by cond.
func (db *DB) ListCollections(ctx context.Context, cond any, options bson.D) (core.Cursor, error) {
	cmd, err := command.ListCollections(cond, options)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("listCollections", "", err)
	}
	cur, err := db.executor.ExecuteCursor(ctx, db.database, cmd)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("listCollections", "", err)
	}
	return cur, nil
}

// ListDatabases runs listDatabases against the admin database and returns
// the raw reply, optionally filtered by cond.
func (db *DB) ListDatabases(ctx context.Context, cond any, options bson.D) (bson.D, error) {
	cmd, err := command.ListDatabases(cond, options)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("listDatabases", "", err)
	}
	result, err := db.executor.Execute(ctx, "admin", cmd)
	if err != nil {
		return nil, cocuchdbErrors.NewOpError("listDatabases", "", err)
	}
	return result, nil
}
