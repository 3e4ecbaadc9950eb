package collection

import "encoding/json"

// Postman Collection v2.1 types. Field order follows what Postman itself writes.

// Collection is a Postman Collection v2.1 document.
type Collection struct {
	Info Info   `json:"info"`
	Item []Item `json:"item"`
}

// Info contains collection metadata.
type Info struct {
	PostmanID   string `json:"_postman_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

// Item is one request in the collection.
type Item struct {
	Name     string            `json:"name"`
	Request  Request           `json:"request"`
	Response []json.RawMessage `json:"response"`
}

// Request is a Postman request.
type Request struct {
	Method      string   `json:"method"`
	Header      []Header `json:"header"`
	URL         URL      `json:"url"`
	Description string   `json:"description"`
	Body        *Body    `json:"body,omitempty"`
}

// Header is a request header.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// URL carries both the raw URL and its decomposition; Postman needs both.
type URL struct {
	Raw      string       `json:"raw"`
	Protocol string       `json:"protocol"`
	Host     []string     `json:"host"`
	Port     string       `json:"port,omitempty"`
	Path     []string     `json:"path"`
	Query    []QueryParam `json:"query,omitempty"`
}

// QueryParam is a documented query parameter.
type QueryParam struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Disabled    bool   `json:"disabled"`
}

// Body is a request body block.
type Body struct {
	Mode    string       `json:"mode"`
	Raw     string       `json:"raw"`
	Options *BodyOptions `json:"options,omitempty"`
}

// BodyOptions holds mode-specific body options.
type BodyOptions struct {
	Raw RawOptions `json:"raw"`
}

// RawOptions tells Postman how to highlight a raw body.
type RawOptions struct {
	Language string `json:"language"`
}
