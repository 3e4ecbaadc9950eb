package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"both slashes", "https://a.com/", "/b", "https://a.com/b"},
		{"no slashes", "https://a.com", "b", "https://a.com/b"},
		{"base slash only", "https://a.com/", "b", "https://a.com/b"},
		{"path slash only", "https://a.com", "/b", "https://a.com/b"},
		{"nested base", "https://a.com/v1/", "/users/1", "https://a.com/v1/users/1"},
		{"empty path", "https://a.com/", "", "https://a.com/"},
		{"path with query", "https://a.com", "/search?q=x", "https://a.com/search?q=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.base, tt.path))
		})
	}
}

func TestJoin_OnlyOneSlashRemoved(t *testing.T) {
	// Only the boundary slash is collapsed; inner doubles are preserved.
	assert.Equal(t, "https://a.com//b", Join("https://a.com//", "/b"))
}

func TestParseAbsolute(t *testing.T) {
	u, err := ParseAbsolute("https://api.example.com:8443/v1/users")
	assert.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "api.example.com", u.Hostname())

	_, err = ParseAbsolute("/relative/path")
	assert.Error(t, err)

	_, err = ParseAbsolute("https://a.com/%zz")
	assert.Error(t, err)

	_, err = ParseAbsolute("mailto:someone")
	assert.Error(t, err)
}
