package types

import (
	"encoding/json"
	"strings"
)

// HTTP methods understood by the playground and the exporter
const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodHead    = "HEAD"
	MethodOptions = "OPTIONS"
)

// NormalizeMethod upper-cases and trims a method name
func NormalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}

// RequiresBody reports whether requests with this method carry a JSON body
func RequiresBody(method string) bool {
	switch NormalizeMethod(method) {
	case MethodPost, MethodPut, MethodPatch:
		return true
	}
	return false
}

// IsSupportedMethod reports whether the method can be sent by the executor
func IsSupportedMethod(method string) bool {
	switch NormalizeMethod(method) {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions:
		return true
	}
	return false
}

// Endpoint is one discovered API operation from the analysis result.
// Endpoints are read-only once loaded.
type Endpoint struct {
	Method      string     `json:"method" yaml:"method"`
	Path        string     `json:"path" yaml:"path"`
	Description string     `json:"description" yaml:"description"`
	Parameters  Parameters `json:"parameters,omitzero" yaml:"parameters,omitempty"`

	ResponseExample Example `json:"response_example,omitzero" yaml:"response_example,omitempty"`
}

// Label returns the "METHOD path" form used in lists and collection item names
func (e Endpoint) Label() string {
	return NormalizeMethod(e.Method) + " " + e.Path
}

// AuthMethod describes an authentication scheme found in the documentation
type AuthMethod struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// AnalysisResult is the document returned by the analysis backend
type AnalysisResult struct {
	Endpoints            []Endpoint   `json:"endpoints" yaml:"endpoints"`
	AuthMethods          []AuthMethod `json:"auth_methods" yaml:"auth_methods"`
	SuggestedIntegration string       `json:"suggested_integration" yaml:"suggested_integration"`
	WrapperCode          string       `json:"wrapper_code" yaml:"wrapper_code"`
	EnvTemplate          string       `json:"env_template,omitempty" yaml:"env_template,omitempty"`
}

// HeaderRow is one user-entered header line. Duplicates are allowed.
type HeaderRow struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// RequestDescriptor is the normalized outbound request built for one submission
type RequestDescriptor struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Params  map[string]string `json:"params"`
	Body    json.RawMessage   `json:"body"`
}

// ResponseEnvelope is the normalized result of one executed request.
// Response holds a json.RawMessage when the body was valid JSON, a string otherwise.
type ResponseEnvelope struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	TimeMS     float64           `json:"time_ms"`
	Response   any               `json:"response"`
}

// BodyText returns the response body as text
func (e *ResponseEnvelope) BodyText() string {
	switch v := e.Response.(type) {
	case nil:
		return ""
	case json.RawMessage:
		return string(v)
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// IsJSON reports whether the response body was parsed as JSON
func (e *ResponseEnvelope) IsJSON() bool {
	_, ok := e.Response.(json.RawMessage)
	return ok
}

// UnmarshalJSON keeps object/array/number bodies as raw JSON and
// unquotes string bodies, which is how proxies report non-JSON text.
// A string body stays raw JSON when the target declared a JSON content
// type, since the target then sent a JSON string literal.
func (e *ResponseEnvelope) UnmarshalJSON(data []byte) error {
	var raw struct {
		StatusCode int               `json:"status_code"`
		Headers    map[string]string `json:"headers"`
		TimeMS     float64           `json:"time_ms"`
		Response   json.RawMessage   `json:"response"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.StatusCode = raw.StatusCode
	e.Headers = raw.Headers
	e.TimeMS = raw.TimeMS
	e.Response = nil

	if len(raw.Response) == 0 || string(raw.Response) == "null" {
		return nil
	}
	var text string
	if err := json.Unmarshal(raw.Response, &text); err == nil && !hasJSONContentType(raw.Headers) {
		e.Response = ResponseBody([]byte(text))
		return nil
	}
	e.Response = raw.Response
	return nil
}

func hasJSONContentType(headers map[string]string) bool {
	for name, value := range headers {
		if strings.EqualFold(name, "Content-Type") {
			return strings.Contains(strings.ToLower(value), "json")
		}
	}
	return false
}

// ResponseBody turns raw response bytes into the envelope representation:
// a json.RawMessage for valid JSON, the text otherwise
func ResponseBody(body []byte) any {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return string(body)
}

// TLSConfig holds optional TLS settings for the direct transport
type TLSConfig struct {
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty" mapstructure:"insecure_skip_verify"`
	CAFile             string `json:"caFile,omitempty" mapstructure:"ca_file"`
	CertFile           string `json:"certFile,omitempty" mapstructure:"cert_file"`
	KeyFile            string `json:"keyFile,omitempty" mapstructure:"key_file"`
}

// IsZero reports whether no TLS option is set
func (t *TLSConfig) IsZero() bool {
	return t == nil || (!t.InsecureSkipVerify && t.CAFile == "" && t.CertFile == "" && t.KeyFile == "")
}
