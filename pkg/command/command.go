// Package command composes native MongoDB command documents from portable
// specifications. Every builder is a pure function: the command keyword
// comes first, translated or normalized sub-documents follow, and
// caller-supplied options are merged last with last-write-wins semantics.
package command

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dan8551/yii2-cocuchdb/internal/bsonutil"
	"github.com/dan8551/yii2-cocuchdb/pkg/condition"
	"github.com/dan8551/yii2-cocuchdb/pkg/fields"
	"github.com/dan8551/yii2-cocuchdb/pkg/index"
)

// FindSpec carries the translatable parts of a find command, used by
// Explain. Options may hold native knobs such as limit, skip or hint.
type FindSpec struct {
	Filter     any
	Projection any
	Sort       any
	Options    bson.D
}

// Count builds a count command. The condition is translated and embedded
// under "query" when it is not empty.
func Count(collectionName string, cond any, options bson.D) (bson.D, error) {
	doc := bson.D{{Key: "count", Value: collectionName}}
	doc, err := setCondition(doc, "query", cond)
	if err != nil {
		return nil, err
	}
	return bsonutil.Merge(doc, options), nil
}

// Explain wraps a find command built from spec in an explain command.
func Explain(collectionName string, spec FindSpec) (bson.D, error) {
	find := bson.D{{Key: "find", Value: collectionName}}
	if spec.Filter != nil {
		filter, err := condition.Translate(spec.Filter)
		if err != nil {
			return nil, err
		}
		find = bsonutil.Set(find, "filter", filter)
	}
	if spec.Projection != nil {
		find = bsonutil.Set(find, "projection", fields.Select(spec.Projection))
	}
	if spec.Sort != nil {
		find = bsonutil.Set(find, "sort", fields.Sort(spec.Sort))
	}
	find = bsonutil.Merge(find, spec.Options)
	return bson.D{{Key: "explain", Value: find}}, nil
}

// MapReduce builds a mapReduce command. The out target is passed through
// verbatim; a nil out defaults to inline results.
func MapReduce(collectionName, mapFn, reduceFn string, out, cond any, options bson.D) (bson.D, error) {
	if out == nil {
		out = bson.D{{Key: "inline", Value: int32(1)}}
	}
	doc := bson.D{
		{Key: "mapReduce", Value: collectionName},
		{Key: "map", Value: mapFn},
		{Key: "reduce", Value: reduceFn},
		{Key: "out", Value: out},
	}
	doc, err := setCondition(doc, "query", cond)
	if err != nil {
		return nil, err
	}
	return bsonutil.Merge(doc, options), nil
}

// Aggregate builds an aggregate command around a caller-supplied pipeline.
// The pipeline stages are native documents and are not translated. A default
// cursor sub-document is included; options may override it.
func Aggregate(collectionName string, pipeline bson.A, options bson.D) bson.D {
	doc := bson.D{
		{Key: "aggregate", Value: collectionName},
		{Key: "pipeline", Value: pipeline},
		{Key: "cursor", Value: bson.D{}},
	}
	return bsonutil.Merge(doc, options)
}

// Distinct builds a distinct command over one field.
func Distinct(collectionName, fieldName string, cond any, options bson.D) (bson.D, error) {
	doc := bson.D{
		{Key: "distinct", Value: collectionName},
		{Key: "key", Value: fieldName},
	}
	doc, err := setCondition(doc, "query", cond)
	if err != nil {
		return nil, err
	}
	return bsonutil.Merge(doc, options), nil
}

// CreateIndexes builds a createIndexes command from raw index
// specifications. The database name is only used to qualify the namespace of
// specs that do not set one explicitly.
func CreateIndexes(databaseName, collectionName string, specs []index.Spec) (bson.D, error) {
	indexes, err := index.Build(databaseName, collectionName, specs)
	if err != nil {
		return nil, err
	}
	list := make(bson.A, 0, len(indexes))
	for _, idx := range indexes {
		list = append(list, idx)
	}
	return bson.D{
		{Key: "createIndexes", Value: collectionName},
		{Key: "indexes", Value: list},
	}, nil
}

// DropIndexes builds a dropIndexes command. The index argument may be a
// name, "*" for all indexes, or a key document.
func DropIndexes(collectionName string, idx any) bson.D {
	return bson.D{
		{Key: "dropIndexes", Value: collectionName},
		{Key: "index", Value: idx},
	}
}

// ListIndexes builds a listIndexes command.
func ListIndexes(collectionName string, options bson.D) bson.D {
	doc := bson.D{{Key: "listIndexes", Value: collectionName}}
	return bsonutil.Merge(doc, options)
}

// CreateCollection builds a create command. Options such as capped, size or
// validators are passed through verbatim.
func CreateCollection(collectionName string, options bson.D) bson.D {
	doc := bson.D{{Key: "create", Value: collectionName}}
	return bsonutil.Merge(doc, options)
}

// DropCollection builds a drop command.
func DropCollection(collectionName string) bson.D {
	return bson.D{{Key: "drop", Value: collectionName}}
}

// DropDatabase builds a dropDatabase command. The target database is chosen
// when the command is executed.
func DropDatabase() bson.D {
	return bson.D{{Key: "dropDatabase", Value: int32(1)}}
}

// ListCollections builds a listCollections command with an optional
// translated filter.
func ListCollections(cond any, options bson.D) (bson.D, error) {
	doc := bson.D{{Key: "listCollections", Value: int32(1)}}
	doc, err := setCondition(doc, "filter", cond)
	if err != nil {
		return nil, err
	}
	return bsonutil.Merge(doc, options), nil
}

// ListDatabases builds a listDatabases command with an optional translated
// filter.
func ListDatabases(cond any, options bson.D) (bson.D, error) {
	doc := bson.D{{Key: "listDatabases", Value: int32(1)}}
	doc, err := setCondition(doc, "filter", cond)
	if err != nil {
		return nil, err
	}
	return bsonutil.Merge(doc, options), nil
}

// setCondition translates cond and embeds it under key when the translation
// is not empty. Failures surface before any command document is emitted.
func setCondition(doc bson.D, key string, cond any) (bson.D, error) {
	if cond == nil {
		return doc, nil
	}
	filter, err := condition.Translate(cond)
	if err != nil {
		return nil, err
	}
	if len(filter) == 0 {
		return doc, nil
	}
	return bsonutil.Set(doc, key, filter), nil
}
