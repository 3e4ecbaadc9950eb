// Package urlutil holds the single URL join rule shared by the executor
// and the collection exporter.
package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Join concatenates a base URL and a path fragment with exactly one slash
// between them. It never fails; callers parse the result themselves.
//
//	Join("https://a.com/", "/b") == "https://a.com/b"
//	Join("https://a.com", "b")   == "https://a.com/b"
func Join(base, path string) string {
	if path == "" {
		return base
	}

	baseSlash := strings.HasSuffix(base, "/")
	pathSlash := strings.HasPrefix(path, "/")

	switch {
	case baseSlash && pathSlash:
		return strings.TrimSuffix(base, "/") + path
	case !baseSlash && !pathSlash:
		return base + "/" + path
	default:
		return base + path
	}
}

// ParseAbsolute parses raw and requires a scheme and a host
func ParseAbsolute(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("missing scheme in %q", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %q", raw)
	}
	return u, nil
}
