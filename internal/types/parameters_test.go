package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParameters_UnmarshalJSONKeepsOrder(t *testing.T) {
	data := []byte(`{"zeta": {"type": "string", "description": "last letter"},
		"alpha": {"type": "integer", "description": "first letter", "required": true},
		"mid": "bare description"}`)

	var params Parameters
	require.NoError(t, json.Unmarshal(data, &params))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, params.Names())

	alpha, ok := params.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, ParameterSpec{Type: "integer", Description: "first letter", Required: true}, alpha)

	mid, ok := params.Get("mid")
	require.True(t, ok)
	assert.Equal(t, "bare description", mid.Description)
	assert.False(t, mid.Required)
}

func TestParameters_UnmarshalJSONNull(t *testing.T) {
	var ep Endpoint
	require.NoError(t, json.Unmarshal([]byte(`{"method":"GET","path":"/a","description":"","parameters":null}`), &ep))
	assert.True(t, ep.Parameters.IsZero())
}

func TestParameters_UnmarshalJSONRejectsArray(t *testing.T) {
	var params Parameters
	err := json.Unmarshal([]byte(`["a","b"]`), &params)
	assert.Error(t, err)
}

func TestParameterSpec_LooseValues(t *testing.T) {
	var spec ParameterSpec
	require.NoError(t, json.Unmarshal([]byte(`{"type": ["string","null"], "description": "x", "required": "true"}`), &spec))

	assert.Equal(t, `["string","null"]`, spec.Type)
	assert.True(t, spec.Required)
}

func TestParameters_MarshalJSONRoundTripOrder(t *testing.T) {
	params := NewParameters(
		NamedParameter{Name: "b", Spec: ParameterSpec{Type: "string", Description: "second"}},
		NamedParameter{Name: "a", Spec: ParameterSpec{Type: "string", Description: "first", Required: true}},
	)

	data, err := json.Marshal(params)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"type":"string","description":"second"},"a":{"type":"string","description":"first","required":true}}`, string(data))
}

func TestParameters_SetKeepsPosition(t *testing.T) {
	var params Parameters
	params.Set("a", ParameterSpec{Description: "one"})
	params.Set("b", ParameterSpec{Description: "two"})
	params.Set("a", ParameterSpec{Description: "three"})

	assert.Equal(t, []string{"a", "b"}, params.Names())
	spec, _ := params.Get("a")
	assert.Equal(t, "three", spec.Description)
}

func TestParameters_YAML(t *testing.T) {
	data := []byte(`
method: GET
path: /search
description: Search things
parameters:
  q:
    type: string
    description: search term
    required: true
  limit: max results
`)

	var ep Endpoint
	require.NoError(t, yaml.Unmarshal(data, &ep))
	assert.Equal(t, []string{"q", "limit"}, ep.Parameters.Names())

	q, _ := ep.Parameters.Get("q")
	assert.True(t, q.Required)
	limit, _ := ep.Parameters.Get("limit")
	assert.Equal(t, "max results", limit.Description)

	out, err := yaml.Marshal(ep)
	require.NoError(t, err)

	var again Endpoint
	require.NoError(t, yaml.Unmarshal(out, &again))
	assert.Equal(t, ep.Parameters.Pairs(), again.Parameters.Pairs())
}

func TestEndpoint_MarshalOmitsEmptyParameters(t *testing.T) {
	data, err := json.Marshal(Endpoint{Method: "get", Path: "/a", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, `{"method":"get","path":"/a","description":"d"}`, string(data))
}
