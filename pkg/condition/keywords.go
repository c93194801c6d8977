package condition

import "go.mongodb.org/mongo-driver/bson"

// OperatorPrefix is the sigil marking a document key as a native MongoDB
// operator rather than a field name.
const OperatorPrefix = "$"

// IdentifierField is the primary-key field coerced through CoerceID.
const IdentifierField = "_id"

// keywords maps portable logical operator words to native operator tokens.
// Lookup happens after upper-casing, so matching is case-insensitive.
var keywords = map[string]string{
	"AND":    "$and",
	"OR":     "$or",
	"IN":     "$in",
	"NOT IN": "$nin",
}

// comparisonAliases maps portable comparison symbols to native comparison
// tokens. Both spellings of "not equal" resolve to the same token.
var comparisonAliases = map[string]string{
	"<":  "$lt",
	">":  "$gt",
	"<=": "$lte",
	">=": "$gte",
	"!=": "$ne",
	"<>": "$ne",
	"=":  "$eq",
	"==": "$eq",
}

type builderFunc func(operator string, operands []any) (bson.D, error)

// conditionBuilders dispatches an upper-cased operator token to its builder.
// Tokens outside this table fall through to the simple-comparison builder
// with their original casing, which lets callers pass native operators
// directly. The table is populated in init and never written afterwards;
// the builders recurse through Translate, so a composite literal would form
// an initialization cycle.
var conditionBuilders map[string]builderFunc

func init() {
	conditionBuilders = map[string]builderFunc{
		"NOT":         buildNot,
		"AND":         buildAnd,
		"OR":          buildOr,
		"BETWEEN":     buildBetween,
		"NOT BETWEEN": buildBetween,
		"IN":          buildIn,
		"NOT IN":      buildIn,
		"REGEX":       buildRegex,
		"LIKE":        buildLike,
	}
}
