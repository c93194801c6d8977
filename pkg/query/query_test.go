package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	cocuchdbErrors "github.com/dan8551/yii2-cocuchdb/pkg/errors"
	"github.com/dan8551/yii2-cocuchdb/pkg/mocks"
	"github.com/dan8551/yii2-cocuchdb/pkg/query"
)

func TestFilterComposition(t *testing.T) {
	q := query.New(nil, "app", "customer").
		Where(bson.M{"status": "active"}).
		AndWhere([]any{">", "age", 18})

	filter, err := q.Filter()
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "status", Value: "active"},
		{Key: "age", Value: bson.D{{Key: "$gt", Value: 18}}},
	}, filter)
}

func TestFilterOrComposition(t *testing.T) {
	q := query.New(nil, "app", "customer").
		Where(bson.M{"status": "active"}).
		OrWhere(bson.M{"vip": true})

	filter, err := q.Filter()
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "status", Value: "active"}},
		bson.D{{Key: "vip", Value: true}},
	}}}, filter)
}

func TestFilterEmpty(t *testing.T) {
	filter, err := query.New(nil, "app", "customer").Filter()
	require.NoError(t, err)
	assert.Equal(t, bson.D{}, filter)
}

func TestAll(t *testing.T) {
	executor := new(mocks.MockExecutor)
	cursor := new(mocks.MockCursor)

	expectedFilter := bson.D{{Key: "status", Value: "active"}}
	executor.On("Query", mock.Anything, "app", "customer", expectedFilter, mock.MatchedBy(func(opts *options.FindOptions) bool {
		return opts.Limit != nil && *opts.Limit == 10 &&
			opts.Skip != nil && *opts.Skip == 5 &&
			opts.Sort != nil && opts.Projection != nil
	})).Return(cursor, nil)
	cursor.On("All", mock.Anything, mock.Anything).Return(nil)

	var results []bson.M
	err := query.New(executor, "app", "customer").
		Where(bson.M{"status": "active"}).
		Select([]string{"name"}).
		OrderBy([]string{"name"}).
		Limit(10).
		Offset(5).
		All(context.Background(), &results)
	require.NoError(t, err)

	executor.AssertExpectations(t)
	cursor.AssertExpectations(t)
}

func TestOne(t *testing.T) {
	executor := new(mocks.MockExecutor)
	cursor := new(mocks.MockCursor)

	executor.On("Query", mock.Anything, "app", "customer", bson.D{}, mock.MatchedBy(func(opts *options.FindOptions) bool {
		return opts.Limit != nil && *opts.Limit == 1
	})).Return(cursor, nil)
	cursor.On("Next", mock.Anything).Return(true)
	cursor.On("Decode", mock.Anything).Return(nil)
	cursor.On("Close", mock.Anything).Return(nil)

	var result bson.M
	err := query.New(executor, "app", "customer").One(context.Background(), &result)
	require.NoError(t, err)

	executor.AssertExpectations(t)
	cursor.AssertExpectations(t)
}

func TestOneNotFound(t *testing.T) {
	executor := new(mocks.MockExecutor)
	cursor := new(mocks.MockCursor)

	executor.On("Query", mock.Anything, "app", "customer", mock.Anything, mock.Anything).Return(cursor, nil)
	cursor.On("Next", mock.Anything).Return(false)
	cursor.On("Err").Return(nil)
	cursor.On("Close", mock.Anything).Return(nil)

	var result bson.M
	err := query.New(executor, "app", "customer").One(context.Background(), &result)
	require.ErrorIs(t, err, cocuchdbErrors.ErrNotFound)
}

func TestCount(t *testing.T) {
	executor := new(mocks.MockExecutor)

	expectedCmd := bson.D{
		{Key: "count", Value: "customer"},
		{Key: "query", Value: bson.D{{Key: "status", Value: "active"}}},
	}
	executor.On("Execute", mock.Anything, "app", expectedCmd).
		Return(bson.D{{Key: "n", Value: int32(3)}, {Key: "ok", Value: 1.0}}, nil)

	n, err := query.New(executor, "app", "customer").
		Where(bson.M{"status": "active"}).
		Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	executor.AssertExpectations(t)
}

func TestExists(t *testing.T) {
	executor := new(mocks.MockExecutor)
	executor.On("Execute", mock.Anything, "app", mock.Anything).
		Return(bson.D{{Key: "n", Value: int32(0)}}, nil)

	exists, err := query.New(executor, "app", "customer").Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAllMalformedCondition(t *testing.T) {
	var results []bson.M
	err := query.New(new(mocks.MockExecutor), "app", "customer").
		Where([]any{"BETWEEN", "age"}).
		All(context.Background(), &results)
	require.ErrorIs(t, err, cocuchdbErrors.ErrMalformedCondition)
}
