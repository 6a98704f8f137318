package searchscope

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sunfmin/reflectutils"
)

// FieldDef is the fully-normalized configuration of one field. Every shape
// accepted by FieldSet.Append reduces to this before a Field is built.
type FieldDef struct {
	// Name is required. Everything else is optional.
	Name string
	// SQL overrides the column reference, which defaults to Name.
	SQL string
	// Pattern expands into Operator and BindPattern together.
	Pattern Pattern
	// Type selects term coercion.
	Type ValueType
	// Operator and BindPattern, when set, win over the pattern expansion.
	Operator    string
	BindPattern any
}

// FieldSet is an ordered collection of fields. Insertion order is
// significant: it determines fragment composition order and the order bind
// values are produced in. Duplicate names are permitted and all appear.
type FieldSet struct {
	fields []*Field
}

// Fields returns the fields in insertion order.
func (fs *FieldSet) Fields() []*Field {
	return fs.fields
}

func (fs *FieldSet) Len() int {
	return len(fs.fields)
}

// Append normalizes configuration entries into fields. Each entry is one of
// three shapes:
//
//  1. a bare name: "email" (fmt.Stringer values are stored as text)
//  2. a name mapped to a pattern: map[string]any{"last_name": "begins_with"}
//  3. a name mapped to an options mapping:
//     map[string]any{"posted_at": map[string]any{"sql": "posts.created_at", "pattern": "greater_than", "type": "date"}}
//
// Slices of entries, FieldDef values, and FieldDefs decoded from YAML or
// JSON are accepted as well. Anything else is a *ConfigError: malformed
// configuration fails here, never at query time.
func (fs *FieldSet) Append(entries ...any) error {
	for _, entry := range entries {
		defs, err := normalizeEntry(entry)
		if err != nil {
			return err
		}
		for _, def := range defs {
			if err := fs.appendDef(def); err != nil {
				return err
			}
		}
	}
	return nil
}

func normalizeEntry(entry any) ([]FieldDef, error) {
	switch v := entry.(type) {
	case string:
		return []FieldDef{{Name: v}}, nil
	case fmt.Stringer:
		return []FieldDef{{Name: v.String()}}, nil
	case FieldDef:
		return []FieldDef{v}, nil
	case *FieldDef:
		if v == nil {
			return nil, configErrorf("nil field entry")
		}
		return []FieldDef{*v}, nil
	case FieldDefs:
		return v, nil
	case map[string]any:
		return normalizeMap(v)
	case map[string]string:
		return normalizeMap(lo.MapValues(v, func(value string, _ string) any {
			return value
		}))
	case []string:
		return normalizeEntries(lo.ToAnySlice(v))
	case []FieldDef:
		return v, nil
	case []any:
		return normalizeEntries(v)
	case nil:
		return nil, configErrorf("nil field entry")
	}
	return nil, configErrorf("field entry %v (%T) is neither a name, a name to pattern mapping, nor a name to options mapping", entry, entry)
}

func normalizeEntries(entries []any) ([]FieldDef, error) {
	var defs []FieldDef
	for _, entry := range entries {
		d, err := normalizeEntry(entry)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d...)
	}
	return defs, nil
}

// Go maps carry no caller order, so multi-entry mappings are normalized in
// name order for determinism. Ordered sources (FieldDefs, slices, repeated
// Append calls) keep the caller's order.
func normalizeMap(m map[string]any) ([]FieldDef, error) {
	names := lo.Keys(m)
	sort.Strings(names)

	defs := make([]FieldDef, 0, len(names))
	for _, name := range names {
		def := FieldDef{Name: name}
		switch v := m[name].(type) {
		case nil:
			// a bare name spelled as a mapping with no value
		case string:
			def.Pattern = Pattern(v)
		case Pattern:
			def.Pattern = v
		case bool:
			def.Pattern = Pattern(fmt.Sprint(v))
		case map[string]any:
			if err := applyOptions(&def, v); err != nil {
				return nil, err
			}
		default:
			return nil, configErrorf("field %q maps to %v (%T), want a pattern or an options mapping", name, v, v)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// option keys accepted in the options-mapping shape, by FieldDef attribute
var fieldOptionAttrs = map[string]string{
	"sql":          "SQL",
	"pattern":      "Pattern",
	"type":         "Type",
	"operator":     "Operator",
	"bind_pattern": "BindPattern",
}

func applyOptions(def *FieldDef, options map[string]any) error {
	keys := lo.Keys(options)
	sort.Strings(keys)

	for _, key := range keys {
		attr, ok := fieldOptionAttrs[strings.ToLower(key)]
		if !ok {
			return configErrorf("unknown option %q for field %q", key, def.Name)
		}
		value := options[key]
		switch attr {
		case "Pattern":
			def.Pattern = Pattern(fmt.Sprint(value))
		case "Type":
			def.Type = ValueType(fmt.Sprint(value))
		case "BindPattern":
			switch value.(type) {
			case string, bool:
				def.BindPattern = value
			default:
				return configErrorf("field %q has bind pattern %v (%T), want string or bool", def.Name, value, value)
			}
		default:
			if err := reflectutils.Set(def, attr, value); err != nil {
				return configErrorf("set option %q for field %q: %v", key, def.Name, err)
			}
		}
	}
	return nil
}

func (fs *FieldSet) appendDef(def FieldDef) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return configErrorf("field entry has no name")
	}
	if !def.Type.valid() {
		return configErrorf("field %q has unknown type %q", name, def.Type)
	}

	f := &Field{
		Name:        name,
		SQL:         name,
		Operator:    "= ?",
		BindPattern: Placeholder,
		Type:        def.Type,
	}
	if def.SQL != "" {
		f.SQL = def.SQL
	}
	if operator, bindPattern, ok := def.Pattern.expand(); ok {
		f.Operator = operator
		f.BindPattern = bindPattern
	}
	if def.Operator != "" {
		f.Operator = def.Operator
	}
	if def.BindPattern != nil {
		switch def.BindPattern.(type) {
		case string, bool:
			f.BindPattern = def.BindPattern
		default:
			return configErrorf("field %q has bind pattern %v (%T), want string or bool", name, def.BindPattern, def.BindPattern)
		}
	}

	fs.fields = append(fs.fields, f)
	return nil
}
