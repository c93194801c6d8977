// Package fields normalizes projection and sort specifications into the
// canonical field-to-directive documents embedded in find and index
// commands.
package fields

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// Direction is a portable sort direction, translated to the native +1/-1
// integers by Sort.
type Direction int32

const (
	// Asc sorts ascending.
	Asc Direction = 1
	// Desc sorts descending.
	Desc Direction = -1
)

// Select normalizes a projection specification. A sequence of field names
// selects each field; a mapping keeps its keys, coercing scalar values to
// booleans and passing anything else (array-slice directives and other
// native sub-expressions) through verbatim. Unordered map input is emitted
// in sorted key order.
func Select(spec any) bson.D {
	switch v := spec.(type) {
	case nil:
		return bson.D{}
	case bson.D:
		result := make(bson.D, 0, len(v))
		for _, elem := range v {
			result = append(result, bson.E{Key: elem.Key, Value: selectValue(elem.Value)})
		}
		return result
	case bson.M:
		return mappingToD(map[string]any(v), selectValue)
	case map[string]any:
		return mappingToD(v, selectValue)
	case map[string]bool:
		m := make(map[string]any, len(v))
		for k, b := range v {
			m[k] = b
		}
		return mappingToD(m, selectValue)
	case string:
		return bson.D{{Key: v, Value: true}}
	case []string:
		result := make(bson.D, 0, len(v))
		for _, name := range v {
			result = append(result, bson.E{Key: name, Value: true})
		}
		return result
	case []any:
		result := make(bson.D, 0, len(v))
		for _, name := range v {
			result = append(result, bson.E{Key: fmt.Sprint(name), Value: true})
		}
		return result
	default:
		return bson.D{{Key: fmt.Sprint(v), Value: true}}
	}
}

// Sort normalizes a sort specification. Sequence entries sort ascending;
// mapping entries keep their explicit direction, translating the portable
// Asc/Desc constants and plain integers to native int32 values and passing
// any other value (such as text-score ordering expressions) through
// verbatim. Unordered map input is emitted in sorted key order.
func Sort(spec any) bson.D {
	switch v := spec.(type) {
	case nil:
		return bson.D{}
	case bson.D:
		result := make(bson.D, 0, len(v))
		for _, elem := range v {
			result = append(result, bson.E{Key: elem.Key, Value: sortValue(elem.Value)})
		}
		return result
	case bson.M:
		return mappingToD(map[string]any(v), sortValue)
	case map[string]any:
		return mappingToD(v, sortValue)
	case map[string]int:
		m := make(map[string]any, len(v))
		for k, n := range v {
			m[k] = n
		}
		return mappingToD(m, sortValue)
	case map[string]Direction:
		m := make(map[string]any, len(v))
		for k, d := range v {
			m[k] = d
		}
		return mappingToD(m, sortValue)
	case string:
		return bson.D{{Key: v, Value: int32(1)}}
	case []string:
		result := make(bson.D, 0, len(v))
		for _, name := range v {
			result = append(result, bson.E{Key: name, Value: int32(1)})
		}
		return result
	case []any:
		result := make(bson.D, 0, len(v))
		for _, name := range v {
			result = append(result, bson.E{Key: fmt.Sprint(name), Value: int32(1)})
		}
		return result
	default:
		return bson.D{{Key: fmt.Sprint(v), Value: int32(1)}}
	}
}

func mappingToD(m map[string]any, normalize func(any) any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make(bson.D, 0, len(m))
	for _, k := range keys {
		result = append(result, bson.E{Key: k, Value: normalize(m[k])})
	}
	return result
}

// selectValue coerces scalar projection directives to booleans and leaves
// sub-expressions untouched.
func selectValue(value any) any {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != "" && v != "0"
	default:
		return value
	}
}

// sortValue translates portable directions to the native integers and leaves
// everything else untouched.
func sortValue(value any) any {
	switch v := value.(type) {
	case Direction:
		return int32(v)
	case int:
		return int32(v)
	case int32:
		return v
	case int64:
		return int32(v)
	default:
		return value
	}
}
