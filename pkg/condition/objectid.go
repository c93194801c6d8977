package condition

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoerceID converts a raw value addressed at the identifier field into a
// native ObjectID. Values that already are ObjectIDs pass through, hex
// strings are parsed, and anything that cannot be converted is returned
// unchanged rather than failing, so non-ObjectID primary keys keep working.
// Sequences are coerced element-wise.
func CoerceID(value any) any {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v
	case *primitive.ObjectID:
		if v == nil {
			return value
		}
		return *v
	case string:
		if id, err := primitive.ObjectIDFromHex(v); err == nil {
			return id
		}
		return v
	}
	if isSequence(value) {
		return coerceIDSequence(toSequence(value))
	}
	return value
}

func coerceIDSequence(values []any) []any {
	coerced := make([]any, len(values))
	for i, v := range values {
		coerced[i] = CoerceID(v)
	}
	return coerced
}
