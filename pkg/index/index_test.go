package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	cocuchdbErrors "github.com/dan8551/yii2-cocuchdb/pkg/errors"
	"github.com/dan8551/yii2-cocuchdb/pkg/fields"
	"github.com/dan8551/yii2-cocuchdb/pkg/index"
)

func TestGenerateName(t *testing.T) {
	name := index.GenerateName(bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: int32(-1)},
	})
	assert.Equal(t, "a_1_b_-1", name)

	assert.Equal(t, "", index.GenerateName(bson.D{}))
}

func TestBuild(t *testing.T) {
	docs, err := index.Build("app", "customer", []index.Spec{
		{Key: []string{"name"}},
		{
			Key:     bson.D{{Key: "email", Value: fields.Asc}},
			Name:    "email_unique",
			Options: bson.D{{Key: "unique", Value: true}},
		},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, bson.D{
		{Key: "key", Value: bson.D{{Key: "name", Value: int32(1)}}},
		{Key: "name", Value: "name_1"},
		{Key: "ns", Value: "app.customer"},
	}, docs[0])

	assert.Equal(t, bson.D{
		{Key: "key", Value: bson.D{{Key: "email", Value: int32(1)}}},
		{Key: "name", Value: "email_unique"},
		{Key: "ns", Value: "app.customer"},
		{Key: "unique", Value: true},
	}, docs[1])
}

func TestBuildExplicitNamespace(t *testing.T) {
	docs, err := index.Build("app", "customer", []index.Spec{
		{Key: []string{"name"}, Namespace: "other.customer"},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	ns, ok := docsValue(docs[0], "ns")
	require.True(t, ok)
	assert.Equal(t, "other.customer", ns)
}

func TestBuildOptionsWin(t *testing.T) {
	// Passed-through options are last-wins on key collision.
	docs, err := index.Build("app", "customer", []index.Spec{
		{
			Key:     []string{"name"},
			Options: bson.D{{Key: "name", Value: "override"}},
		},
	})
	require.NoError(t, err)
	name, ok := docsValue(docs[0], "name")
	require.True(t, ok)
	assert.Equal(t, "override", name)
}

func TestBuildMissingKey(t *testing.T) {
	_, err := index.Build("app", "customer", []index.Spec{{Name: "nameless"}})
	require.ErrorIs(t, err, cocuchdbErrors.ErrMalformedIndexSpec)
}

func docsValue(doc bson.D, key string) (any, bool) {
	for _, elem := range doc {
		if elem.Key == key {
			return elem.Value, true
		}
	}
	return nil, false
}
