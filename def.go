package searchscope

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FieldDefs is an ordered field list decoded from a declarative config. The
// wire shape is a sequence whose items are the three shapes of
// FieldSet.Append:
//
//	fields:
//	  - email
//	  - last_name: begins_with
//	  - posted_at: {sql: posts.created_at, pattern: greater_than, type: date}
//
// Mapping items may carry several pairs; YAML keeps their order, JSON
// objects fall back to name order.
type FieldDefs []FieldDef

var jsoniterForDefs = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

func (d *FieldDefs) UnmarshalJSON(data []byte) error {
	var items []any
	if err := jsoniterForDefs.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "unmarshal field list")
	}
	defs, err := normalizeEntries(items)
	if err != nil {
		return err
	}
	*d = defs
	return nil
}

func (d *FieldDefs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return configErrorf("field list must be a sequence, got %s", node.Tag)
	}
	var defs FieldDefs
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			defs = append(defs, FieldDef{Name: item.Value})
		case yaml.MappingNode:
			for i := 0; i+1 < len(item.Content); i += 2 {
				key, value := item.Content[i], item.Content[i+1]
				def := FieldDef{Name: key.Value}
				switch {
				case value.Kind == yaml.ScalarNode && value.Tag == "!!null":
					// a bare name spelled with a trailing colon
				case value.Kind == yaml.ScalarNode:
					def.Pattern = Pattern(value.Value)
				case value.Kind == yaml.MappingNode:
					var options map[string]any
					if err := value.Decode(&options); err != nil {
						return errors.Wrapf(err, "options for field %q", key.Value)
					}
					if err := applyOptions(&def, options); err != nil {
						return err
					}
				default:
					return configErrorf("field %q maps to %s, want a pattern or an options mapping", key.Value, value.Tag)
				}
				defs = append(defs, def)
			}
		default:
			return configErrorf("field entry must be a name or a mapping, got %s", item.Tag)
		}
	}
	*d = defs
	return nil
}
