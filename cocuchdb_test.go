package cocuchdb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	cocuchdb "github.com/dan8551/yii2-cocuchdb"
	cocuchdbErrors "github.com/dan8551/yii2-cocuchdb/pkg/errors"
	"github.com/dan8551/yii2-cocuchdb/pkg/index"
	"github.com/dan8551/yii2-cocuchdb/pkg/mocks"
)

func TestCount(t *testing.T) {
	executor := new(mocks.MockExecutor)
	db := cocuchdb.New(executor, "app")

	expected := bson.D{
		{Key: "count", Value: "customer"},
		{Key: "query", Value: bson.D{{Key: "status", Value: int32(1)}}},
	}
	executor.On("Execute", mock.Anything, "app", expected).
		Return(bson.D{{Key: "n", Value: int32(42)}, {Key: "ok", Value: 1.0}}, nil)

	n, err := db.Count(context.Background(), "customer", bson.D{{Key: "status", Value: int32(1)}}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	executor.AssertExpectations(t)
}

func TestCountExecutorFailure(t *testing.T) {
	executor := new(mocks.MockExecutor)
	db := cocuchdb.New(executor, "app")

	executor.On("Execute", mock.Anything, "app", mock.Anything).
		Return(nil, errors.New("connection reset"))

	_, err := db.Count(context.Background(), "customer", nil, nil)
	require.Error(t, err)

	var opErr *cocuchdbErrors.OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "count", opErr.Op)
	assert.Equal(t, "customer", opErr.Collection)

	executor.AssertExpectations(t)
}

func TestCountUnexpectedReplyType(t *testing.T) {
	executor := new(mocks.MockExecutor)
	db := cocuchdb.New(executor, "app")

	executor.On("Execute", mock.Anything, "app", mock.Anything).
		Return(bson.D{{Key: "n", Value: "3"}, {Key: "ok", Value: 1.0}}, nil)

	_, err := db.Count(context.Background(), "customer", nil, nil)
	require.Error(t, err)

	var opErr *cocuchdbErrors.OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "count", opErr.Op)

	executor.AssertExpectations(t)
}

func TestCountMalformedCondition(t *testing.T) {
	executor := new(mocks.MockExecutor)
	db := cocuchdb.New(executor, "app")

	_, err := db.Count(context.Background(), "customer", []any{"BETWEEN", "age"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, cocuchdbErrors.ErrMalformedCondition)

	executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateIndexes(t *testing.T) {
	executor := new(mocks.MockExecutor)
	db := cocuchdb.New(executor, "app")

	expected := bson.D{
		{Key: "createIndexes", Value: "customer"},
		{Key: "indexes", Value: bson.A{
			bson.D{
				{Key: "key", Value: bson.D{{Key: "name", Value: int32(1)}}},
				{Key: "name", Value: "name_1"},
				{Key: "ns", Value: "app.customer"},
			},
		}},
	}
	executor.On("Execute", mock.Anything, "app", expected).
		Return(bson.D{{Key: "ok", Value: 1.0}}, nil)

	err := db.CreateIndexes(context.Background(), "customer", []index.Spec{
		{Key: bson.D{{Key: "name", Value: int32(1)}}},
	})
	require.NoError(t, err)

	executor.AssertExpectations(t)
}

func TestDistinct(t *testing.T) {
	executor := new(mocks.MockExecutor)
	db := cocuchdb.New(executor, "app")

	expected := bson.D{
		{Key: "distinct", Value: "customer"},
		{Key: "key", Value: "status"},
	}
	executor.On("Execute", mock.Anything, "app", expected).
		Return(bson.D{
			{Key: "values", Value: bson.A{"active", "blocked"}},
			{Key: "ok", Value: 1.0},
		}, nil)

	values, err := db.Distinct(context.Background(), "customer", "status", nil)
	require.NoError(t, err)
	assert.Equal(t, bson.A{"active", "blocked"}, values)

	executor.AssertExpectations(t)
}

func TestDropDatabase(t *testing.T) {
	executor := new(mocks.MockExecutor)
	db := cocuchdb.New(executor, "app")

	executor.On("Execute", mock.Anything, "app", bson.D{{Key: "dropDatabase", Value: int32(1)}}).
		Return(bson.D{{Key: "ok", Value: 1.0}}, nil)

	require.NoError(t, db.DropDatabase(context.Background()))
	executor.AssertExpectations(t)
}

func TestListDatabasesTargetsAdmin(t *testing.T) {
	executor := new(mocks.MockExecutor)
	db := cocuchdb.New(executor, "app")

	executor.On("Execute", mock.Anything, "admin", bson.D{{Key: "listDatabases", Value: int32(1)}}).
		Return(bson.D{{Key: "databases", Value: bson.A{}}, {Key: "ok", Value: 1.0}}, nil)

	result, err := db.ListDatabases(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, result)

	executor.AssertExpectations(t)
}

func TestAggregate(t *testing.T) {
	executor := new(mocks.MockExecutor)
	cursor := new(mocks.MockCursor)
	db := cocuchdb.New(executor, "app")

	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: int32(1)}}}},
	}
	expected := bson.D{
		{Key: "aggregate", Value: "customer"},
		{Key: "pipeline", Value: pipeline},
		{Key: "cursor", Value: bson.D{}},
	}
	executor.On("ExecuteCursor", mock.Anything, "app", expected).Return(cursor, nil)

	cur, err := db.Aggregate(context.Background(), "customer", pipeline, nil)
	require.NoError(t, err)
	assert.Same(t, cursor, cur)

	executor.AssertExpectations(t)
}

func TestCollectionQuery(t *testing.T) {
	executor := new(mocks.MockExecutor)
	db := cocuchdb.New(executor, "app")

	q := db.Collection("customer").Where(bson.D{{Key: "status", Value: int32(1)}})
	filter, err := q.Filter()
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "status", Value: int32(1)}}, filter)
}
