// Package condition translates portable filter expressions into MongoDB's
// native operator vocabulary.
//
// A condition is either a hash condition (a field-to-value mapping, given as
// bson.D, bson.M or map[string]any) or an operator condition (a []any whose
// first element is an operator token such as "AND", "OR", "IN", "BETWEEN",
// "LIKE" or a comparison symbol). Translation is a pure function: the input
// is never mutated and the output is always a freshly built bson.D.
package condition

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dan8551/yii2-cocuchdb/internal/bsonutil"
	cocuchdbErrors "github.com/dan8551/yii2-cocuchdb/pkg/errors"
)

// Translate converts a condition expression into a native filter document.
// An empty or nil expression translates to an empty document. Structurally
// invalid input fails with ErrMalformedCondition; an unknown bare operator
// fails with ErrUnsupportedOperator.
func Translate(expr any) (bson.D, error) {
	switch c := expr.(type) {
	case nil:
		return bson.D{}, nil
	case bson.D:
		return translateHash(c)
	case bson.M:
		return translateHashMap(map[string]any(c))
	case map[string]any:
		return translateHashMap(c)
	case bson.A:
		return translateOperator([]any(c))
	case []any:
		return translateOperator(c)
	default:
		return nil, fmt.Errorf("%w: condition must be a mapping or sequence, got %T", cocuchdbErrors.ErrMalformedCondition, expr)
	}
}

// translateOperator handles the [operator, operand...] form. Tokens found in
// the dispatch table are matched case-insensitively; anything else is handed
// to the simple-comparison builder with its original casing so native
// operator tokens can be passed straight through.
func translateOperator(expr []any) (bson.D, error) {
	if len(expr) == 0 {
		return bson.D{}, nil
	}
	operator, ok := expr[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: operator token must be a string, got %T", cocuchdbErrors.ErrMalformedCondition, expr[0])
	}
	operands := expr[1:]
	if build, ok := conditionBuilders[strings.ToUpper(operator)]; ok {
		return build(strings.ToUpper(operator), operands)
	}
	return buildSimple(operator, operands)
}

func translateHash(cond bson.D) (bson.D, error) {
	result := bson.D{}
	for _, elem := range cond {
		var err error
		result, err = appendHashPair(result, elem.Key, elem.Value)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// translateHashMap processes unordered map input. Fields are visited in
// sorted key order so the output document is deterministic.
func translateHashMap(cond map[string]any) (bson.D, error) {
	names := make([]string, 0, len(cond))
	for name := range cond {
		names = append(names, name)
	}
	sort.Strings(names)

	result := bson.D{}
	for _, name := range names {
		var err error
		result, err = appendHashPair(result, name, cond[name])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func appendHashPair(result bson.D, name string, value any) (bson.D, error) {
	if strings.HasPrefix(name, OperatorPrefix) {
		// Caller is using native operator syntax directly.
		return bsonutil.Set(result, name, value), nil
	}
	if isSequence(value) {
		// A list value is shorthand for a membership test.
		part, err := buildIn("IN", []any{name, value})
		if err != nil {
			return nil, err
		}
		return bsonutil.Merge(result, part), nil
	}
	if isDocument(value) {
		// Already a native sub-document.
		return bsonutil.Set(result, name, value), nil
	}
	if name == IdentifierField {
		value = CoerceID(value)
	}
	return bsonutil.Set(result, name, value), nil
}

func buildNot(operator string, operands []any) (bson.D, error) {
	if len(operands) != 2 {
		return nil, operandError(operator, 2, len(operands))
	}
	name, err := fieldName(operator, operands[0])
	if err != nil {
		return nil, err
	}
	value := operands[1]
	if isDocument(value) || isSequence(value) {
		inner, err := Translate(value)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: name, Value: bson.D{{Key: "$not", Value: inner}}}}, nil
	}
	if name == IdentifierField {
		value = CoerceID(value)
	}
	return bson.D{{Key: name, Value: bson.D{{Key: "$ne", Value: value}}}}, nil
}

// buildAnd translates every operand and merges the results into a single
// document, field conditions of later operands folding into earlier ones.
// {a: {$gt: 1}} AND {a: {$lt: 5}} therefore becomes {a: {$gt: 1, $lt: 5}}
// rather than an explicit $and wrapper, matching the shape of hand-written
// conjunctions.
func buildAnd(operator string, operands []any) (bson.D, error) {
	result := bson.D{}
	for _, operand := range operands {
		part, err := Translate(operand)
		if err != nil {
			return nil, err
		}
		result = mergeCondition(result, part)
	}
	return result, nil
}

// mergeCondition folds src into dst: sub-documents under the same field are
// merged recursively, anything else is last-write-wins. Stored sub-documents
// may still reference caller input, so merging always happens on a copy and
// never writes into the operands.
func mergeCondition(dst, src bson.D) bson.D {
	for _, elem := range src {
		if existing, ok := bsonutil.Get(dst, elem.Key); ok {
			a, okA := existing.(bson.D)
			b, okB := elem.Value.(bson.D)
			if okA && okB {
				merged := mergeCondition(append(bson.D{}, a...), b)
				dst = bsonutil.Set(dst, elem.Key, merged)
				continue
			}
		}
		dst = bsonutil.Set(dst, elem.Key, elem.Value)
	}
	return dst
}

// buildOr wraps the translated operands in a native disjunction, preserving
// operand order.
func buildOr(operator string, operands []any) (bson.D, error) {
	keyword := keywords[operator]
	parts := make(bson.A, 0, len(operands))
	for _, operand := range operands {
		part, err := Translate(operand)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return bson.D{{Key: keyword, Value: parts}}, nil
}

func buildBetween(operator string, operands []any) (bson.D, error) {
	if len(operands) != 3 {
		return nil, operandError(operator, 3, len(operands))
	}
	name, err := fieldName(operator, operands[0])
	if err != nil {
		return nil, err
	}
	low, high := operands[1], operands[2]
	if operator == "NOT BETWEEN" {
		// The range complement is emitted as a single {$lt, $gt} pair. This
		// is not a strict logical negation of BETWEEN at the boundaries; it
		// matches the shape of hand-written exclusion queries and is kept
		// for compatibility.
		return bson.D{{Key: name, Value: bson.D{
			{Key: "$lt", Value: low},
			{Key: "$gt", Value: high},
		}}}, nil
	}
	return bson.D{{Key: name, Value: bson.D{
		{Key: "$gte", Value: low},
		{Key: "$lte", Value: high},
	}}}, nil
}

func buildIn(operator string, operands []any) (bson.D, error) {
	if len(operands) != 2 {
		return nil, operandError(operator, 2, len(operands))
	}
	keyword := keywords[operator]
	columns, err := fieldList(operator, operands[0])
	if err != nil {
		return nil, err
	}
	values := toSequence(operands[1])
	if len(columns) > 1 {
		return buildCompositeIn(keyword, columns, values)
	}

	result := bson.D{}
	if len(columns) == 0 {
		return result, nil
	}
	column := columns[0]
	if column == IdentifierField {
		values = coerceIDSequence(values)
	}
	if len(values) == 1 && keyword == "$in" {
		// A one-element membership test collapses to a direct equality so
		// the output matches hand-written queries.
		return bsonutil.Set(result, column, values[0]), nil
	}
	return bsonutil.Set(result, column, bson.D{{Key: keyword, Value: bson.A(values)}}), nil
}

// buildCompositeIn expands a membership test over several fields. The
// row-oriented input values are regrouped into one ordered value list per
// field, then each field gets its own membership condition, with the same
// single-value collapse rule as the plain IN builder.
func buildCompositeIn(keyword string, columns []string, rows []any) (bson.D, error) {
	grouped := make(map[string][]any)
	for _, row := range rows {
		pairs, err := documentPairs(row)
		if err != nil {
			return nil, fmt.Errorf("%w: composite IN requires mapping rows, got %T", cocuchdbErrors.ErrMalformedCondition, row)
		}
		for _, pair := range pairs {
			grouped[pair.Key] = append(grouped[pair.Key], pair.Value)
		}
	}

	result := bson.D{}
	for _, column := range columns {
		values := grouped[column]
		if values == nil {
			values = []any{}
		}
		if column == IdentifierField {
			values = coerceIDSequence(values)
		}
		if len(values) == 1 && keyword == "$in" {
			result = bsonutil.Set(result, column, values[0])
			continue
		}
		result = bsonutil.Set(result, column, bson.D{{Key: keyword, Value: bson.A(values)}})
	}
	return result, nil
}

// delimitedRegex recognizes the conventional "/body/flags" spelling. The
// body match is lazy: a pattern with interior slashes splits at the first
// one and the later slashes land in the flags.
var delimitedRegex = regexp.MustCompile(`/(.+?)/(.*)`)

func buildRegex(operator string, operands []any) (bson.D, error) {
	if len(operands) != 2 {
		return nil, operandError(operator, 2, len(operands))
	}
	name, err := fieldName(operator, operands[0])
	if err != nil {
		return nil, err
	}
	switch v := operands[1].(type) {
	case primitive.Regex:
		return bson.D{{Key: name, Value: v}}, nil
	case string:
		if m := delimitedRegex.FindStringSubmatch(v); m != nil {
			return bson.D{{Key: name, Value: primitive.Regex{Pattern: m[1], Options: m[2]}}}, nil
		}
		return bson.D{{Key: name, Value: primitive.Regex{Pattern: v}}}, nil
	}
	return nil, fmt.Errorf("%w: operator %q requires a pattern string or native regex, got %T", cocuchdbErrors.ErrMalformedCondition, operator, operands[1])
}

func buildLike(operator string, operands []any) (bson.D, error) {
	if len(operands) != 2 {
		return nil, operandError(operator, 2, len(operands))
	}
	name, err := fieldName(operator, operands[0])
	if err != nil {
		return nil, err
	}
	switch v := operands[1].(type) {
	case primitive.Regex:
		return bson.D{{Key: name, Value: v}}, nil
	case string:
		return bson.D{{Key: name, Value: primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}}}, nil
	}
	return nil, fmt.Errorf("%w: operator %q requires a pattern string or native regex, got %T", cocuchdbErrors.ErrMalformedCondition, operator, operands[1])
}

func buildSimple(operator string, operands []any) (bson.D, error) {
	if len(operands) != 2 {
		return nil, operandError(operator, 2, len(operands))
	}
	name, err := fieldName(operator, operands[0])
	if err != nil {
		return nil, err
	}
	token := operator
	if !strings.HasPrefix(operator, OperatorPrefix) {
		alias, ok := comparisonAliases[operator]
		if !ok {
			return nil, fmt.Errorf("%w: %q", cocuchdbErrors.ErrUnsupportedOperator, operator)
		}
		token = alias
	}
	return bson.D{{Key: name, Value: bson.D{{Key: token, Value: operands[1]}}}}, nil
}

func operandError(operator string, want, got int) error {
	return fmt.Errorf("%w: operator %q requires %d operands, got %d", cocuchdbErrors.ErrMalformedCondition, operator, want, got)
}

func fieldName(operator string, operand any) (string, error) {
	name, ok := operand.(string)
	if !ok {
		return "", fmt.Errorf("%w: operator %q requires a field name, got %T", cocuchdbErrors.ErrMalformedCondition, operator, operand)
	}
	return name, nil
}

func fieldList(operator string, operand any) ([]string, error) {
	switch v := operand.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		columns := make([]string, len(v))
		for i, c := range v {
			name, ok := c.(string)
			if !ok {
				return nil, fmt.Errorf("%w: operator %q requires field names, got %T", cocuchdbErrors.ErrMalformedCondition, operator, c)
			}
			columns[i] = name
		}
		return columns, nil
	}
	return nil, fmt.Errorf("%w: operator %q requires a field name or field list, got %T", cocuchdbErrors.ErrMalformedCondition, operator, operand)
}

// documentPairs returns the ordered field/value pairs of a mapping value.
// Unordered maps are sorted by key.
func documentPairs(value any) (bson.D, error) {
	switch v := value.(type) {
	case bson.D:
		return v, nil
	case bson.M:
		return sortedPairs(map[string]any(v)), nil
	case map[string]any:
		return sortedPairs(v), nil
	}
	return nil, fmt.Errorf("%w: expected a mapping, got %T", cocuchdbErrors.ErrMalformedCondition, value)
}

func sortedPairs(m map[string]any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make(bson.D, 0, len(m))
	for _, k := range keys {
		pairs = append(pairs, bson.E{Key: k, Value: m[k]})
	}
	return pairs
}

// isDocument reports whether value is a mapping and therefore already a
// native sub-document.
func isDocument(value any) bool {
	switch value.(type) {
	case bson.D, bson.M, map[string]any:
		return true
	case nil:
		return false
	}
	return reflect.ValueOf(value).Kind() == reflect.Map
}

// isSequence reports whether value is an ordered sequence. Byte slices and
// byte arrays (notably ObjectID) count as scalars, and bson.D counts as a
// document.
func isSequence(value any) bool {
	switch value.(type) {
	case nil, string, []byte, bson.D, bson.M, primitive.ObjectID, primitive.Regex:
		return false
	case bson.A, []any:
		return true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	return rv.Type().Elem().Kind() != reflect.Uint8
}

// toSequence coerces a value into an ordered sequence: sequences are
// flattened into []any, unordered maps contribute their values in sorted key
// order, nil becomes empty and anything else becomes a one-element sequence.
func toSequence(value any) []any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		return v
	case bson.A:
		return []any(v)
	case bson.D:
		return []any{value}
	case bson.M:
		return mapValues(map[string]any(v))
	case map[string]any:
		return mapValues(v)
	}
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{value}
}

func mapValues(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]any, 0, len(m))
	for _, k := range keys {
		values = append(values, m[k])
	}
	return values
}
