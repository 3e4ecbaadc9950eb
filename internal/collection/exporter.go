// Package collection exports an endpoint catalog as a Postman Collection v2.1 document.
package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/junnyboy28/InteGreatai/internal/types"
	"github.com/junnyboy28/InteGreatai/internal/urlutil"
)

const (
	// SchemaURL identifies the document as a v2.1 collection to third-party tools
	SchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

	// DefaultName is used when no collection name is given
	DefaultName = "API Collection"

	// DefaultDescription is the collection-level description
	DefaultDescription = "Generated from InteGreat.ai"

	// PlaceholderBody is attached to every POST/PUT/PATCH item. The catalog
	// carries no body shape, so no attempt is made to derive one.
	PlaceholderBody = "{\n    \"key\": \"value\"\n}"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExportError aborts a whole export; no partial collection is produced.
type ExportError struct {
	Index    int // 1-based position of the failing endpoint, 0 when not endpoint specific
	Endpoint string
	URL      string
	Message  string
	Cause    error
}

func (e *ExportError) Error() string {
	msg := e.Message
	if e.Index > 0 {
		msg = fmt.Sprintf("endpoint #%d (%s): %s", e.Index, e.Endpoint, msg)
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return "export failed: " + msg
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// Exporter builds collection documents. It performs no I/O.
type Exporter struct {
	// NewID generates the collection identifier (random v4 UUID by default)
	NewID func() string
	// Description is written to info.description
	Description string
}

// NewExporter returns an exporter with the default identifier generator
func NewExporter() *Exporter {
	return &Exporter{
		NewID:       uuid.NewString,
		Description: DefaultDescription,
	}
}

// Export builds a collection using the default exporter
func Export(endpoints []types.Endpoint, name, baseURL string) (*Collection, error) {
	return NewExporter().Export(endpoints, name, baseURL)
}

// Export converts the catalog, in order, into a collection. Any endpoint whose
// URL cannot be parsed aborts the export.
func (e *Exporter) Export(endpoints []types.Endpoint, name, baseURL string) (*Collection, error) {
	if name == "" {
		name = DefaultName
	}

	items := make([]Item, 0, len(endpoints))
	for i, ep := range endpoints {
		item, err := buildItem(ep, baseURL)
		if err != nil {
			return nil, &ExportError{
				Index:    i + 1,
				Endpoint: ep.Label(),
				URL:      urlutil.Join(baseURL, ep.Path),
				Message:  "invalid URL",
				Cause:    err,
			}
		}
		items = append(items, item)
	}

	newID := e.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Collection{
		Info: Info{
			PostmanID:   newID(),
			Name:        name,
			Description: e.Description,
			Schema:      SchemaURL,
		},
		Item: items,
	}, nil
}

// buildItem converts one endpoint
func buildItem(ep types.Endpoint, baseURL string) (Item, error) {
	fullURL := urlutil.Join(baseURL, ep.Path)

	decomposed, err := decomposeURL(fullURL)
	if err != nil {
		return Item{}, err
	}

	if ep.Parameters.Len() > 0 {
		decomposed.Query = make([]QueryParam, 0, ep.Parameters.Len())
		for _, param := range ep.Parameters.Pairs() {
			decomposed.Query = append(decomposed.Query, QueryParam{
				Key:         param.Name,
				Value:       "",
				Description: param.Spec.Description,
				Disabled:    false,
			})
		}
	}

	method := types.NormalizeMethod(ep.Method)
	item := Item{
		Name: ep.Label(),
		Request: Request{
			Method:      method,
			Header:      []Header{},
			URL:         decomposed,
			Description: ep.Description,
		},
		Response: []json.RawMessage{},
	}

	if types.RequiresBody(method) {
		item.Request.Body = &Body{
			Mode:    "raw",
			Raw:     PlaceholderBody,
			Options: &BodyOptions{Raw: RawOptions{Language: "json"}},
		}
	}

	return item, nil
}

// decomposeURL splits a URL into protocol, dot-separated host and non-empty path segments
func decomposeURL(raw string) (URL, error) {
	u, err := urlutil.ParseAbsolute(raw)
	if err != nil {
		return URL{}, err
	}

	path := []string{}
	for _, segment := range strings.Split(u.EscapedPath(), "/") {
		if segment != "" {
			path = append(path, segment)
		}
	}

	return URL{
		Raw:      raw,
		Protocol: u.Scheme,
		Host:     strings.Split(u.Hostname(), "."),
		Port:     u.Port(),
		Path:     path,
	}, nil
}

// Marshal serializes a collection as 2-space indented JSON without HTML escaping
func Marshal(c *Collection) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FileName returns the download name for a collection
func FileName(name string) string {
	if name == "" {
		name = DefaultName
	}
	return whitespaceRun.ReplaceAllString(name, "_") + ".postman_collection.json"
}
