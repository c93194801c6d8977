// Package query provides a chainable query builder over the condition and
// field normalizers. The builder accumulates a portable specification and
// compiles it to native documents only when an execution method runs.
package query

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dan8551/yii2-cocuchdb/internal/bsonutil"
	"github.com/dan8551/yii2-cocuchdb/pkg/command"
	"github.com/dan8551/yii2-cocuchdb/pkg/condition"
	"github.com/dan8551/yii2-cocuchdb/pkg/core"
	cocuchdbErrors "github.com/dan8551/yii2-cocuchdb/pkg/errors"
	"github.com/dan8551/yii2-cocuchdb/pkg/fields"
)

// Query builds a find over one collection.
type Query struct {
	executor   core.Executor
	database   string
	collection string

	where        any
	orderBy      any
	selectFields any
	limit        *int64
	offset       *int64
}

// New creates a query builder bound to an executor, a database and a
// collection.
func New(executor core.Executor, databaseName, collectionName string) *Query {
	return &Query{
		executor:   executor,
		database:   databaseName,
		collection: collectionName,
	}
}

// Where replaces the query condition.
func (q *Query) Where(cond any) *Query {
	q.where = cond
	return q
}

// AndWhere combines an additional condition with the existing one using AND.
func (q *Query) AndWhere(cond any) *Query {
	if q.where == nil {
		q.where = cond
	} else {
		q.where = []any{"AND", q.where, cond}
	}
	return q
}

// OrWhere combines an additional condition with the existing one using OR.
func (q *Query) OrWhere(cond any) *Query {
	if q.where == nil {
		q.where = cond
	} else {
		q.where = []any{"OR", q.where, cond}
	}
	return q
}

// Select sets the projection specification.
func (q *Query) Select(spec any) *Query {
	q.selectFields = spec
	return q
}

// OrderBy sets the sort specification.
func (q *Query) OrderBy(spec any) *Query {
	q.orderBy = spec
	return q
}

// Limit caps the number of returned documents.
func (q *Query) Limit(n int64) *Query {
	q.limit = &n
	return q
}

// Offset skips the first n matching documents.
func (q *Query) Offset(n int64) *Query {
	q.offset = &n
	return q
}

// Filter compiles the accumulated condition into a native filter document.
func (q *Query) Filter() (bson.D, error) {
	if q.where == nil {
		return bson.D{}, nil
	}
	return condition.Translate(q.where)
}

// All runs the query and decodes every matching document into results.
func (q *Query) All(ctx context.Context, results any) error {
	cur, err := q.find(ctx, nil)
	if err != nil {
		return err
	}
	return cur.All(ctx, results)
}

// One runs the query with a limit of one and decodes the single matching
// document. It returns ErrNotFound when nothing matches.
func (q *Query) One(ctx context.Context, result any) error {
	one := int64(1)
	cur, err := q.find(ctx, &one)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return err
		}
		return cocuchdbErrors.ErrNotFound
	}
	return cur.Decode(result)
}

// Count runs a count command with the accumulated condition.
func (q *Query) Count(ctx context.Context) (int64, error) {
	cmd, err := command.Count(q.collection, q.where, nil)
	if err != nil {
		return 0, err
	}
	result, err := q.executor.Execute(ctx, q.database, cmd)
	if err != nil {
		return 0, err
	}
	return countFromResult(result)
}

// Exists reports whether at least one document matches.
func (q *Query) Exists(ctx context.Context) (bool, error) {
	n, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (q *Query) find(ctx context.Context, limitOverride *int64) (core.Cursor, error) {
	filter, err := q.Filter()
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if q.selectFields != nil {
		opts.SetProjection(fields.Select(q.selectFields))
	}
	if q.orderBy != nil {
		opts.SetSort(fields.Sort(q.orderBy))
	}
	limit := q.limit
	if limitOverride != nil {
		limit = limitOverride
	}
	if limit != nil {
		opts.SetLimit(*limit)
	}
	if q.offset != nil {
		opts.SetSkip(*q.offset)
	}

	return q.executor.Query(ctx, q.database, q.collection, filter, opts)
}

// countFromResult extracts the matched-document count from a count command
// reply.
func countFromResult(result bson.D) (int64, error) {
	value, ok := bsonutil.Get(result, "n")
	if !ok {
		return 0, fmt.Errorf("count reply has no %q field", "n")
	}
	switch n := value.(type) {
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case int:
		return int64(n), nil
	}
	return 0, fmt.Errorf("count reply has unexpected %q type %T", "n", value)
}
