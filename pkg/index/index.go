// Package index builds fully-specified index documents for the
// createIndexes command.
package index

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/dan8551/yii2-cocuchdb/internal/bsonutil"
	cocuchdbErrors "github.com/dan8551/yii2-cocuchdb/pkg/errors"
	"github.com/dan8551/yii2-cocuchdb/pkg/fields"
)

// Spec describes one index to create. Key is any sort-normalizable
// specification (field list or field-to-direction mapping) and is required.
// Name and Namespace are filled in when absent; Options (unique, sparse,
// expireAfterSeconds and so on) are passed through verbatim and win on key
// collisions.
type Spec struct {
	Key       any
	Name      string
	Namespace string
	Options   bson.D
}

// Build normalizes specs into the ordered list of index documents expected
// by createIndexes. The default database name must be resolved by the caller
// and passed in; the builder holds no ambient state. A spec without a key
// fails with ErrMalformedIndexSpec.
func Build(databaseName, collectionName string, specs []Spec) ([]bson.D, error) {
	indexes := make([]bson.D, 0, len(specs))
	for i, spec := range specs {
		if spec.Key == nil {
			return nil, fmt.Errorf("%w: specification %d has no key", cocuchdbErrors.ErrMalformedIndexSpec, i)
		}
		key := fields.Sort(spec.Key)

		name := spec.Name
		if name == "" {
			name = GenerateName(key)
		}
		namespace := spec.Namespace
		if namespace == "" {
			namespace = databaseName + "." + collectionName
		}

		doc := bson.D{
			{Key: "key", Value: key},
			{Key: "name", Value: name},
			{Key: "ns", Value: namespace},
		}
		doc = bsonutil.Merge(doc, spec.Options)
		indexes = append(indexes, doc)
	}
	return indexes, nil
}

// GenerateName derives the deterministic default index name from a
// normalized key document: "<field>_<direction>" pairs joined by "_", in key
// order. {a: 1, b: -1} yields "a_1_b_-1".
func GenerateName(key bson.D) string {
	parts := make([]string, 0, len(key))
	for _, elem := range key {
		parts = append(parts, fmt.Sprintf("%s_%v", elem.Key, elem.Value))
	}
	return strings.Join(parts, "_")
}
