package filter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junnyboy28/InteGreatai/internal/types"
)

const usersBody = `{"users":[{"name":"ada","active":true},{"name":"bob","active":false}]}`

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		query  string
		want   string
	}{
		{name: "passthrough", want: usersBody},
		{name: "query only", query: "users[].name", want: "[\n  \"ada\",\n  \"bob\"\n]"},
		{name: "filter then query", filter: "users[?active]", query: "[].name", want: "[\n  \"ada\"\n]"},
		{name: "missing field", query: "nothing", want: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(context.Background(), usersBody, tt.filter, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_Errors(t *testing.T) {
	_, err := Apply(context.Background(), "not json", "", "a")
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = Apply(context.Background(), usersBody, "users[?", "")
	assert.ErrorContains(t, err, "failed to apply filter")
}

func TestApply_ShellQuery(t *testing.T) {
	got, err := Apply(context.Background(), "hello", "", "$(tr a-z A-Z)")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", got)
}

func TestApplyEnvelope(t *testing.T) {
	jsonEnv := &types.ResponseEnvelope{StatusCode: 200, Response: json.RawMessage(usersBody)}
	got, err := ApplyEnvelope(context.Background(), jsonEnv, "", "users[0].name")
	require.NoError(t, err)
	assert.Equal(t, `"ada"`, got)

	textEnv := &types.ResponseEnvelope{StatusCode: 200, Response: "plain text"}
	_, err = ApplyEnvelope(context.Background(), textEnv, "", "users")
	assert.ErrorIs(t, err, ErrNotJSON)

	got, err = ApplyEnvelope(context.Background(), textEnv, "", "")
	require.NoError(t, err)
	assert.Equal(t, "plain text", got)
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsValidJMESPath("a.b[0]"))
	assert.False(t, IsValidJMESPath("a.["))
	assert.True(t, IsShellCommand("$(jq .)"))
	assert.False(t, IsShellCommand("jq ."))
}
