// Package searchscope builds parameterized query-filter fragments from a
// declarative description of searchable fields. It composes condition text
// and ordered bind values only; applying them to a query, quoting
// identifiers, and substituting placeholders are the query executor's
// responsibility.
package searchscope

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Mode selects the fragment-composition algorithm used by ToSQL.
type Mode string

const (
	// ModeSimple matches one free-text term against every field with OR
	// semantics.
	ModeSimple Mode = "simple"
	// ModeField matches independent per-field terms with AND semantics,
	// only for fields with a non-blank value.
	ModeField Mode = "field"
)

// Term carries the runtime input for one field in field mode.
type Term struct {
	Value string `json:"value" yaml:"value"`
}

// Condition is a parameterized query fragment. SQL contains exactly as many
// placeholder markers as Vars has entries, in left-to-right correspondence.
type Condition struct {
	SQL  string
	Vars []any
}

// Search owns a field set and composes conditions from runtime search
// terms. Configure it once and share it freely: ToSQL reads but never
// mutates it.
type Search struct {
	fieldSet FieldSet
	loc      *time.Location
}

// Option configures a Search.
type Option func(*Search)

// WithLocation sets the location used to parse date and time terms. The
// default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Search) {
		s.loc = loc
	}
}

// New builds a Search from a field configuration in any shape accepted by
// FieldSet.Append.
func New(fields any, opts ...Option) (*Search, error) {
	s := &Search{loc: time.UTC}
	if err := s.fieldSet.Append(fields); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FieldSet returns the configured field set.
func (s *Search) FieldSet() *FieldSet {
	return &s.fieldSet
}

// ToSQL composes a condition from params according to mode. Simple mode
// wants a string term, field mode a mapping from field name to term. A nil
// condition with a nil error means no filter applies: the caller must omit
// the filter entirely, not match nothing.
func (s *Search) ToSQL(params any, mode Mode) (*Condition, error) {
	if blank(params) {
		return nil, nil
	}
	switch mode {
	case ModeSimple:
		term, ok := params.(string)
		if !ok {
			return nil, errors.Errorf("simple search wants a string term, got %T", params)
		}
		return s.ToSimpleSQL(term)
	case ModeField:
		terms, err := fieldTerms(params)
		if err != nil {
			return nil, err
		}
		return s.ToFieldSQL(terms)
	}
	return nil, errors.Errorf("unknown search mode %q", mode)
}

// ToSimpleSQL matches term against every configured field, composing the
// per-field fragments with OR in field-set order. Fields whose operator
// binds no value contribute a fragment but no bind entry.
func (s *Search) ToSimpleSQL(term string) (*Condition, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	fields := s.fieldSet.Fields()
	if len(fields) == 0 {
		return nil, configErrorf("simple search over an empty field set")
	}
	return s.compose(fields, " OR ", func(*Field) any {
		return term
	})
}

// ToFieldSQL selects the configured fields that received a non-blank term
// and composes their fragments with AND. Selection preserves field-set
// order, not the input mapping's order. Names absent from the configuration
// are ignored.
func (s *Search) ToFieldSQL(terms map[string]Term) (*Condition, error) {
	selected := lo.Filter(s.fieldSet.Fields(), func(f *Field, _ int) bool {
		term, ok := terms[f.Name]
		return ok && strings.TrimSpace(term.Value) != ""
	})
	if len(selected) == 0 {
		return nil, nil
	}
	return s.compose(selected, " AND ", func(f *Field) any {
		return terms[f.Name].Value
	})
}

func (s *Search) compose(fields []*Field, connector string, term func(*Field) any) (*Condition, error) {
	fragments := lo.Map(fields, func(f *Field, _ int) string {
		return f.Fragment()
	})
	cond := &Condition{SQL: strings.Join(fragments, connector)}
	for _, f := range fields {
		v, ok, err := f.Bind(term(f), s.loc)
		if err != nil {
			return nil, err
		}
		if ok {
			cond.Vars = append(cond.Vars, v)
		}
	}
	return cond, nil
}

func fieldTerms(params any) (map[string]Term, error) {
	switch v := params.(type) {
	case map[string]Term:
		return v, nil
	case map[string]string:
		return lo.MapValues(v, func(value string, _ string) Term {
			return Term{Value: value}
		}), nil
	case map[string]any:
		// per-field value records, e.g. a decoded request body
		terms := make(map[string]Term, len(v))
		for name, raw := range v {
			record, ok := raw.(map[string]any)
			if !ok {
				return nil, errors.Errorf("term for field %q should be a value record, got %T", name, raw)
			}
			value, _ := record["value"].(string)
			terms[name] = Term{Value: value}
		}
		return terms, nil
	}
	return nil, errors.Errorf("field search wants per-field terms, got %T", params)
}

func blank(params any) bool {
	switch v := params.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case map[string]Term:
		return len(v) == 0
	case map[string]string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}
