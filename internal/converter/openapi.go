// Package converter builds endpoint catalogs from machine-readable API
// descriptions, as an offline alternative to the documentation analyzer.
package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/junnyboy28/InteGreatai/internal/types"
)

// OpenAPISpec represents the subset of an OpenAPI 3.x document the catalog needs
type OpenAPISpec struct {
	OpenAPI    string                     `json:"openapi" yaml:"openapi"`
	Info       OpenAPIInfo                `json:"info" yaml:"info"`
	Servers    []OpenAPIServer            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths      map[string]OpenAPIPathItem `json:"paths" yaml:"paths"`
	Components *OpenAPIComponents         `json:"components,omitempty" yaml:"components,omitempty"`
}

// OpenAPIComponents holds the reusable security schemes
type OpenAPIComponents struct {
	SecuritySchemes map[string]OpenAPISecurityScheme `json:"securitySchemes,omitempty" yaml:"securitySchemes,omitempty"`
}

type OpenAPISecurityScheme struct {
	Type        string `json:"type" yaml:"type"` // apiKey, http, oauth2, openIdConnect
	Scheme      string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	In          string `json:"in,omitempty" yaml:"in,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type OpenAPIInfo struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type OpenAPIServer struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type OpenAPIPathItem struct {
	Parameters []OpenAPIParameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Get        *OpenAPIOperation  `json:"get,omitempty" yaml:"get,omitempty"`
	Post       *OpenAPIOperation  `json:"post,omitempty" yaml:"post,omitempty"`
	Put        *OpenAPIOperation  `json:"put,omitempty" yaml:"put,omitempty"`
	Delete     *OpenAPIOperation  `json:"delete,omitempty" yaml:"delete,omitempty"`
	Patch      *OpenAPIOperation  `json:"patch,omitempty" yaml:"patch,omitempty"`
	Head       *OpenAPIOperation  `json:"head,omitempty" yaml:"head,omitempty"`
	Options    *OpenAPIOperation  `json:"options,omitempty" yaml:"options,omitempty"`
}

// operations returns the item's operations in a fixed method order
func (p OpenAPIPathItem) operations() []methodOperation {
	all := []methodOperation{
		{types.MethodGet, p.Get},
		{types.MethodPost, p.Post},
		{types.MethodPut, p.Put},
		{types.MethodPatch, p.Patch},
		{types.MethodDelete, p.Delete},
		{types.MethodHead, p.Head},
		{types.MethodOptions, p.Options},
	}
	ops := all[:0]
	for _, op := range all {
		if op.operation != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

type methodOperation struct {
	method    string
	operation *OpenAPIOperation
}

type OpenAPIOperation struct {
	Summary     string             `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []OpenAPIParameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type OpenAPIParameter struct {
	Name        string                 `json:"name" yaml:"name"`
	In          string                 `json:"in" yaml:"in"` // query, path, header, cookie
	Required    bool                   `json:"required,omitempty" yaml:"required,omitempty"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      map[string]interface{} `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// LoadOpenAPISpec loads an OpenAPI spec from a file or URL
func LoadOpenAPISpec(ctx context.Context, path string) (*OpenAPISpec, error) {
	var data []byte

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch spec from URL: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("failed to fetch spec from URL: server returned %d", resp.StatusCode)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read spec file: %w", err)
		}
	}

	return ParseOpenAPISpec(data)
}

// ParseOpenAPISpec parses a JSON or YAML spec
func ParseOpenAPISpec(data []byte) (*OpenAPISpec, error) {
	var spec OpenAPISpec

	if err := json.Unmarshal(data, &spec); err != nil {
		spec = OpenAPISpec{}
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("failed to parse spec as JSON or YAML: %w", err)
		}
	}
	if len(spec.Paths) == 0 {
		return nil, fmt.Errorf("spec declares no paths")
	}

	return &spec, nil
}

// ToCatalog converts the spec into an endpoint catalog. Paths are sorted so
// the result is stable; query and path parameters become endpoint parameters.
func ToCatalog(spec *OpenAPISpec) *types.AnalysisResult {
	paths := make([]string, 0, len(spec.Paths))
	for path := range spec.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	result := &types.AnalysisResult{Endpoints: []types.Endpoint{}, AuthMethods: []types.AuthMethod{}}
	for _, path := range paths {
		item := spec.Paths[path]
		for _, op := range item.operations() {
			result.Endpoints = append(result.Endpoints, types.Endpoint{
				Method:      op.method,
				Path:        path,
				Description: operationDescription(op.operation),
				Parameters:  collectParameters(item.Parameters, op.operation.Parameters),
			})
		}
	}

	if spec.Components != nil {
		names := make([]string, 0, len(spec.Components.SecuritySchemes))
		for name := range spec.Components.SecuritySchemes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			result.AuthMethods = append(result.AuthMethods, authMethod(name, spec.Components.SecuritySchemes[name]))
		}
	}

	if len(spec.Servers) > 0 {
		result.SuggestedIntegration = fmt.Sprintf("Base URL: %s", spec.Servers[0].URL)
	}

	return result
}

// BaseURL returns the first server URL, if any
func (s *OpenAPISpec) BaseURL() string {
	if len(s.Servers) == 0 {
		return ""
	}
	return strings.TrimSuffix(s.Servers[0].URL, "/")
}

func operationDescription(op *OpenAPIOperation) string {
	if op.Summary != "" {
		return op.Summary
	}
	return strings.TrimSpace(op.Description)
}

// collectParameters merges path-level and operation-level parameters;
// an operation parameter overrides a path-level one of the same name.
func collectParameters(pathLevel, opLevel []OpenAPIParameter) types.Parameters {
	var params types.Parameters
	for _, list := range [][]OpenAPIParameter{pathLevel, opLevel} {
		for _, p := range list {
			if p.In != "query" && p.In != "path" {
				continue
			}
			params.Set(p.Name, types.ParameterSpec{
				Type:        schemaType(p.Schema),
				Description: p.Description,
				Required:    p.Required || p.In == "path",
			})
		}
	}
	return params
}

func schemaType(schema map[string]interface{}) string {
	if t, ok := schema["type"].(string); ok {
		return t
	}
	return "string"
}

func authMethod(name string, scheme OpenAPISecurityScheme) types.AuthMethod {
	kind := scheme.Type
	switch {
	case scheme.Type == "http" && scheme.Scheme != "":
		kind = strings.ToLower(scheme.Scheme)
	case scheme.Type == "apiKey":
		kind = "api_key"
	}

	desc := scheme.Description
	if desc == "" {
		desc = name
		if scheme.Type == "apiKey" && scheme.Name != "" {
			desc = fmt.Sprintf("%s (%s %s)", name, scheme.In, scheme.Name)
		}
	}
	return types.AuthMethod{Type: kind, Description: desc}
}
