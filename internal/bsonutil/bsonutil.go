// Package bsonutil provides ordered-document helpers shared by the
// condition, command and index builders.
package bsonutil

import "go.mongodb.org/mongo-driver/bson"

// Set writes a key into doc with mapping semantics: an existing key keeps its
// position but its value is replaced, otherwise the pair is appended. This
// gives the output documents deterministic key order with last-write-wins on
// duplicates.
func Set(doc bson.D, key string, value any) bson.D {
	for i, elem := range doc {
		if elem.Key == key {
			doc[i].Value = value
			return doc
		}
	}
	return append(doc, bson.E{Key: key, Value: value})
}

// Merge applies every pair of extra onto doc via Set, preserving doc's key
// order and letting extra win on collisions.
func Merge(doc bson.D, extra bson.D) bson.D {
	for _, elem := range extra {
		doc = Set(doc, elem.Key, elem.Value)
	}
	return doc
}

// Get returns the value stored under key and whether it is present.
func Get(doc bson.D, key string) (any, bool) {
	for _, elem := range doc {
		if elem.Key == key {
			return elem.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present in doc.
func Has(doc bson.D, key string) bool {
	_, ok := Get(doc, key)
	return ok
}
