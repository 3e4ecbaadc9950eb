package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Example is a JSON sample document, such as an endpoint's response example.
// It is kept as raw JSON so catalogs can be re-saved without loss.
type Example json.RawMessage

// IsZero reports whether no example is present
func (e Example) IsZero() bool {
	return len(e) == 0 || string(e) == "null"
}

// MarshalJSON emits the stored document unchanged
func (e Example) MarshalJSON() ([]byte, error) {
	if e.IsZero() {
		return []byte("null"), nil
	}
	return json.RawMessage(e).MarshalJSON()
}

// UnmarshalJSON stores a copy of the raw document
func (e *Example) UnmarshalJSON(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid example JSON")
	}
	*e = append((*e)[:0], data...)
	return nil
}

// MarshalYAML parses the JSON as YAML so object key order survives
func (e Example) MarshalYAML() (interface{}, error) {
	if e.IsZero() {
		return nil, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(e, &node); err != nil {
		return nil, fmt.Errorf("invalid example: %w", err)
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0], nil
	}
	return &node, nil
}

// UnmarshalYAML converts the YAML value to compact JSON
func (e *Example) UnmarshalYAML(value *yaml.Node) error {
	var v interface{}
	if err := value.Decode(&v); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("example is not representable as JSON: %w", err)
	}
	*e = data
	return nil
}
