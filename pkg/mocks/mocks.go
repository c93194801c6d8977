// Package mocks provides mock implementations of the core interfaces so
// callers can unit-test query code without a live server.
//
// Basic usage:
//
//	executor := new(mocks.MockExecutor)
//	executor.On("Execute", mock.Anything, "app", mock.Anything).
//	    Return(bson.D{{Key: "n", Value: int32(3)}, {Key: "ok", Value: 1.0}}, nil)
//
//	q := query.New(executor, "app", "customer")
//	n, err := q.Where(bson.D{{Key: "status", Value: "active"}}).Count(context.Background())
//
//	executor.AssertExpectations(t)
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dan8551/yii2-cocuchdb/pkg/core"
)

// MockExecutor is a mock implementation of core.Executor
type MockExecutor struct {
	mock.Mock
}

// Execute mocks the Execute method
func (m *MockExecutor) Execute(ctx context.Context, databaseName string, command bson.D) (bson.D, error) {
	args := m.Called(ctx, databaseName, command)
	if doc := args.Get(0); doc != nil {
		return doc.(bson.D), args.Error(1)
	}
	return nil, args.Error(1)
}

// ExecuteCursor mocks the ExecuteCursor method
func (m *MockExecutor) ExecuteCursor(ctx context.Context, databaseName string, command bson.D) (core.Cursor, error) {
	args := m.Called(ctx, databaseName, command)
	if cur := args.Get(0); cur != nil {
		return cur.(core.Cursor), args.Error(1)
	}
	return nil, args.Error(1)
}

// Query mocks the Query method
func (m *MockExecutor) Query(ctx context.Context, databaseName, collectionName string, filter bson.D, opts *options.FindOptions) (core.Cursor, error) {
	args := m.Called(ctx, databaseName, collectionName, filter, opts)
	if cur := args.Get(0); cur != nil {
		return cur.(core.Cursor), args.Error(1)
	}
	return nil, args.Error(1)
}

// BulkWrite mocks the BulkWrite method
func (m *MockExecutor) BulkWrite(ctx context.Context, namespace string, models []mongo.WriteModel, opts *options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	args := m.Called(ctx, namespace, models, opts)
	if res := args.Get(0); res != nil {
		return res.(*mongo.BulkWriteResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCursor is a mock implementation of core.Cursor
type MockCursor struct {
	mock.Mock
}

// Next mocks cursor advancement
func (m *MockCursor) Next(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// Decode mocks decoding the current document
func (m *MockCursor) Decode(val any) error {
	args := m.Called(val)
	return args.Error(0)
}

// All mocks draining the cursor
func (m *MockCursor) All(ctx context.Context, results any) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

// Err mocks the iteration error
func (m *MockCursor) Err() error {
	args := m.Called()
	return args.Error(0)
}

// Close mocks releasing the cursor
func (m *MockCursor) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Interface compliance checks
var (
	_ core.Executor = (*MockExecutor)(nil)
	_ core.Cursor   = (*MockCursor)(nil)
)
