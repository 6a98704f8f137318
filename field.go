package searchscope

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Placeholder is the marker a query executor substitutes with a bind value.
const Placeholder = "?"

// ValueType selects the coercion applied to a runtime term before binding.
type ValueType string

const (
	// TypeString trims the term and binds its string form. The default.
	TypeString ValueType = ""
	// TypeDate parses textual terms as calendar dates.
	TypeDate ValueType = "date"
	// TypeTime and TypeDatetime parse textual terms as full timestamps.
	TypeTime     ValueType = "time"
	TypeDatetime ValueType = "datetime"
)

func (t ValueType) valid() bool {
	switch t {
	case TypeString, TypeDate, TypeTime, TypeDatetime:
		return true
	}
	return false
}

// Field represents one searchable attribute: the logical key used in user
// input, the column reference it maps to, and how a runtime term becomes an
// operator plus bind value.
//
// Fields are built by FieldSet.Append and treated as read-only afterwards.
type Field struct {
	// Name is the logical key used in user input.
	Name string
	// SQL is the column reference emitted in fragments, verbatim. Quoting
	// and escaping are the query executor's responsibility.
	SQL string
	// Operator is a textual operator template containing zero or one
	// placeholder, e.g. "= ?" or "IS NULL".
	Operator string
	// BindPattern is either a string template containing a placeholder
	// (e.g. "?%" for prefix matching) or a literal bool bound verbatim.
	// It is nil for operators that bind no value.
	BindPattern any
	// Type drives coercion of incoming terms.
	Type ValueType
}

// Fragment returns the textual condition for this field, e.g. "email = ?" or
// "deleted_at IS NULL".
func (f *Field) Fragment() string {
	return f.SQL + " " + f.Operator
}

// Bind derives the bind value for term, parsing date and time terms in loc.
// The second return is false when the operator carries no placeholder and
// the caller must not append a value for this field.
func (f *Field) Bind(term any, loc *time.Location) (any, bool, error) {
	if !strings.Contains(f.Operator, Placeholder) {
		return nil, false, nil
	}
	switch pattern := f.BindPattern.(type) {
	case bool:
		return pattern, true, nil
	case string:
		v, err := f.Typecast(term, loc)
		if err != nil {
			return nil, false, err
		}
		if pattern == Placeholder {
			return v, true, nil
		}
		return strings.Replace(pattern, Placeholder, fmt.Sprint(v), 1), true, nil
	}
	return nil, false, errors.Errorf("field %q binds no value but its operator %q has a placeholder", f.Name, f.Operator)
}

// Typecast coerces a raw term into the field's value type. Textual date and
// time terms are parsed in loc (UTC when nil); non-textual terms pass
// through unchanged on the assumption they already carry the right type.
func (f *Field) Typecast(term any, loc *time.Location) (any, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch f.Type {
	case TypeDate:
		s, ok := term.(string)
		if !ok {
			return term, nil
		}
		t, err := parseTime(s, loc)
		if err != nil {
			return nil, &BadValueError{Field: f.Name, Value: term, cause: err}
		}
		year, month, day := t.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, loc), nil
	case TypeTime, TypeDatetime:
		s, ok := term.(string)
		if !ok {
			return term, nil
		}
		t, err := parseTime(s, loc)
		if err != nil {
			return nil, &BadValueError{Field: f.Name, Value: term, cause: err}
		}
		return t, nil
	default:
		return strings.TrimSpace(fmt.Sprint(term)), nil
	}
}

var timeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unsupported time format %q", s)
}
