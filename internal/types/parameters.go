package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParameterSpec documents one named endpoint parameter. It is descriptive
// only; submitted values are never checked against it.
type ParameterSpec struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// UnmarshalJSON accepts either a spec object or a bare string, which is
// taken as the description. Loose "type" and "required" values are tolerated.
func (p *ParameterSpec) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*p = ParameterSpec{Description: text}
		return nil
	}

	var raw struct {
		Type        json.RawMessage `json:"type"`
		Description json.RawMessage `json:"description"`
		Required    json.RawMessage `json:"required"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid parameter spec: %w", err)
	}

	*p = ParameterSpec{
		Type:        looseString(raw.Type),
		Description: looseString(raw.Description),
		Required:    looseBool(raw.Required),
	}
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML catalogs
func (p *ParameterSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*p = ParameterSpec{Description: value.Value}
		return nil
	}

	var raw struct {
		Type        string `yaml:"type"`
		Description string `yaml:"description"`
		Required    string `yaml:"required"`
	}
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("invalid parameter spec: %w", err)
	}

	*p = ParameterSpec{
		Type:        raw.Type,
		Description: raw.Description,
		Required:    parseBool(raw.Required),
	}
	return nil
}

func looseString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func looseBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return parseBool(looseString(raw))
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "yes" || s == "y" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// Parameters is a name -> ParameterSpec mapping that remembers the order in
// which names were declared, so exports list parameters in document order.
// The zero value is an empty, usable mapping.
type Parameters struct {
	names []string
	specs map[string]ParameterSpec
}

// NewParameters builds Parameters from name/spec pairs in the given order
func NewParameters(pairs ...NamedParameter) Parameters {
	var p Parameters
	for _, pair := range pairs {
		p.Set(pair.Name, pair.Spec)
	}
	return p
}

// NamedParameter pairs a parameter name with its spec
type NamedParameter struct {
	Name string
	Spec ParameterSpec
}

// Set adds or replaces a parameter. A replaced name keeps its original position.
func (p *Parameters) Set(name string, spec ParameterSpec) {
	if p.specs == nil {
		p.specs = make(map[string]ParameterSpec)
	}
	if _, exists := p.specs[name]; !exists {
		p.names = append(p.names, name)
	}
	p.specs[name] = spec
}

// Get returns the spec for name
func (p Parameters) Get(name string) (ParameterSpec, bool) {
	spec, ok := p.specs[name]
	return spec, ok
}

// Len returns the number of declared parameters
func (p Parameters) Len() int {
	return len(p.names)
}

// IsZero reports whether no parameters are declared
func (p Parameters) IsZero() bool {
	return len(p.names) == 0
}

// Names returns parameter names in declaration order
func (p Parameters) Names() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

// Pairs returns the parameters in declaration order
func (p Parameters) Pairs() []NamedParameter {
	pairs := make([]NamedParameter, 0, len(p.names))
	for _, name := range p.names {
		pairs = append(pairs, NamedParameter{Name: name, Spec: p.specs[name]})
	}
	return pairs
}

// MarshalJSON writes the parameters as an object in declaration order
func (p Parameters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.specs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object while keeping key order
func (p *Parameters) UnmarshalJSON(data []byte) error {
	*p = Parameters{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("invalid parameters: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid parameters: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid parameters: unexpected key %v", keyTok)
		}
		var spec ParameterSpec
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("invalid parameter %q: %w", name, err)
		}
		p.Set(name, spec)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// MarshalYAML writes the parameters as a mapping in declaration order
func (p Parameters) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range p.names {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		value := &yaml.Node{}
		if err := value.Encode(p.specs[name]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping while keeping key order
func (p *Parameters) UnmarshalYAML(value *yaml.Node) error {
	*p = Parameters{}

	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("invalid parameters: expected mapping at line %d", value.Line)
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var spec ParameterSpec
		if err := value.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("invalid parameter %q: %w", name, err)
		}
		p.Set(name, spec)
	}
	return nil
}
