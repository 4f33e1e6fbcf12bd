package compiler

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ExtractSpecsYAML reads the constraints list from a YAML document.
// Each spec records the line of its list item.
func ExtractSpecsYAML(data []byte) ([]ConstraintSpec, error) {
	var doc struct {
		Constraints *yaml.Node `yaml:"constraints"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CompileError{Field: "yaml", Message: err.Error()}
	}
	return SpecsFromNode(doc.Constraints)
}

// SpecsFromNode decodes a YAML sequence node of constraint specs.
func SpecsFromNode(node *yaml.Node) ([]ConstraintSpec, error) {
	if node == nil {
		return nil, &CompileError{Field: "constraints", Message: "constraints list is required"}
	}
	if node.Kind != yaml.SequenceNode {
		return nil, &CompileError{
			Field:   "constraints",
			Message: "constraints must be a list",
			Line:    node.Line,
		}
	}

	specs := make([]ConstraintSpec, 0, len(node.Content))
	for i, item := range node.Content {
		var spec ConstraintSpec
		if err := item.Decode(&spec); err != nil {
			return nil, indexed(err, i)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// UnmarshalYAML decodes one {left, right, label} mapping, rejecting unknown
// keys and recording the line of the mapping.
func (c *ConstraintSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &CompileError{
			Message: "constraint must be a mapping with left and right",
			Line:    node.Line,
		}
	}
	if err := checkKeys(node); err != nil {
		return err
	}

	type plain ConstraintSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return &CompileError{Message: err.Error(), Line: node.Line}
	}
	*c = ConstraintSpec(p)
	c.Line = node.Line
	return nil
}

// checkKeys rejects unknown keys and missing sides.
func checkKeys(item *yaml.Node) error {
	present := make(map[string]bool, 3)
	for i := 0; i+1 < len(item.Content); i += 2 {
		key := item.Content[i]
		switch key.Value {
		case "left", "right", "label":
			present[key.Value] = true
		default:
			return &CompileError{Field: key.Value, Message: "unknown field", Line: key.Line}
		}
	}
	for _, field := range []string{"left", "right"} {
		if !present[field] {
			return &CompileError{
				Field:   field,
				Message: fmt.Sprintf("%s is required", field),
				Line:    item.Line,
			}
		}
	}
	return nil
}

// indexed qualifies an item-level error with its list position.
func indexed(err error, idx int) error {
	var ce *CompileError
	if !errors.As(err, &ce) {
		return &CompileError{Field: fmt.Sprintf("constraints[%d]", idx), Message: err.Error()}
	}
	field := fmt.Sprintf("constraints[%d]", idx)
	if ce.Field != "" {
		field += "." + ce.Field
	}
	return &CompileError{Field: field, Message: ce.Message, Pos: ce.Pos, Line: ce.Line}
}
