package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/junnyboy28/InteGreatai/internal/types"
)

// LoadFile reads a catalog from disk, choosing the decoder by extension
func LoadFile(path string) (*types.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var result *types.AnalysisResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		result, err = ParseYAML(data)
	default:
		result, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return result, nil
}

// ParseJSON decodes a JSON (or JSONC) catalog
func ParseJSON(data []byte) (*types.AnalysisResult, error) {
	clean := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(clean) == 0 {
		return nil, fmt.Errorf("empty catalog")
	}

	if clean[0] == '[' {
		var endpoints []types.Endpoint
		if err := json.Unmarshal(clean, &endpoints); err != nil {
			return nil, err
		}
		return &types.AnalysisResult{Endpoints: endpoints}, nil
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(clean, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ParseYAML decodes a YAML catalog
func ParseYAML(data []byte) (*types.AnalysisResult, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil, fmt.Errorf("empty catalog")
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var endpoints []types.Endpoint
		if err := root.Decode(&endpoints); err != nil {
			return nil, err
		}
		return &types.AnalysisResult{Endpoints: endpoints}, nil
	}

	var result types.AnalysisResult
	if err := root.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveFile writes a catalog as indented JSON, or YAML for .yaml/.yml paths
func SaveFile(path string, result *types.AnalysisResult, perm os.FileMode) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(result)
	default:
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
