package searchscope

// Pattern is a named shorthand that expands to an operator and bind-pattern
// pair. The zero value expands to nothing and leaves a field at its defaults.
type Pattern string

const (
	PatternEquals     Pattern = "equals"
	PatternBeginsWith Pattern = "begins_with"
	PatternEndsWith   Pattern = "ends_with"
	PatternContains   Pattern = "contains"

	PatternNull    Pattern = "null"
	PatternNotNull Pattern = "not_null"

	PatternTrue  Pattern = "true"
	PatternFalse Pattern = "false"

	PatternLessThan             Pattern = "less_than"
	PatternLessThanOrEqualTo    Pattern = "less_than_or_equal_to"
	PatternGreaterThan          Pattern = "greater_than"
	PatternGreaterThanOrEqualTo Pattern = "greater_than_or_equal_to"

	// Aliases for the comparison patterns.
	PatternNotGreaterThan Pattern = "not_greater_than"
	PatternNotLessThan    Pattern = "not_less_than"
)

// expand returns the operator and bind pattern for p. The two are always set
// together. ok is false for unknown patterns, which are a no-op: the field
// keeps its defaults.
func (p Pattern) expand() (operator string, bindPattern any, ok bool) {
	switch p {
	case PatternEquals:
		return "= ?", Placeholder, true
	case PatternBeginsWith:
		return "LIKE ?", "?%", true
	case PatternEndsWith:
		return "LIKE ?", "%?", true
	case PatternContains:
		return "LIKE ?", "%?%", true
	case PatternNull:
		return "IS NULL", nil, true
	case PatternNotNull:
		return "IS NOT NULL", nil, true
	case PatternTrue:
		return "= ?", true, true
	case PatternFalse:
		return "= ?", false, true
	case PatternLessThan:
		return "< ?", Placeholder, true
	case PatternLessThanOrEqualTo, PatternNotGreaterThan:
		return "<= ?", Placeholder, true
	case PatternGreaterThan:
		return "> ?", Placeholder, true
	case PatternGreaterThanOrEqualTo, PatternNotLessThan:
		return ">= ?", Placeholder, true
	}
	return "", nil, false
}
