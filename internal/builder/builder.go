// Package builder assembles the outbound request description for one
// playground submission.
package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/junnyboy28/InteGreatai/internal/types"
	"github.com/junnyboy28/InteGreatai/internal/urlutil"
)

// emptyBody is sent when no body is required or none was entered
var emptyBody = json.RawMessage(`{}`)

// Input is everything the user entered for one submission
type Input struct {
	Endpoint    types.Endpoint
	BaseURL     string
	Parameters  map[string]string
	Headers     []types.HeaderRow
	RequestBody string
}

// Build turns user input into a RequestDescriptor. It does not execute anything.
// Callers guard the precondition that an endpoint is selected and BaseURL is set.
func Build(in Input) (*types.RequestDescriptor, error) {
	rawURL := urlutil.Join(in.BaseURL, in.Endpoint.Path)
	if _, err := urlutil.ParseAbsolute(rawURL); err != nil {
		return nil, &InvalidURLError{URL: rawURL, Cause: err}
	}

	body, err := parseBody(in.Endpoint.Method, in.RequestBody)
	if err != nil {
		return nil, err
	}

	return &types.RequestDescriptor{
		URL:     rawURL,
		Method:  types.NormalizeMethod(in.Endpoint.Method),
		Headers: FoldHeaders(in.Headers),
		Params:  copyParams(in.Parameters),
		Body:    body,
	}, nil
}

// FoldHeaders folds header rows into a mapping. Rows with an empty name are
// dropped and the last row wins on duplicate names.
func FoldHeaders(rows []types.HeaderRow) map[string]string {
	headers := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Name == "" {
			continue
		}
		headers[row.Name] = row.Value
	}
	return headers
}

// ParseHeaderRow parses a "Name: Value" line as typed on the command line
func ParseHeaderRow(line string) (types.HeaderRow, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return types.HeaderRow{}, fmt.Errorf("invalid header %q (expected \"Name: Value\")", line)
	}
	return types.HeaderRow{
		Name:  strings.TrimSpace(parts[0]),
		Value: strings.TrimSpace(parts[1]),
	}, nil
}

// ParseParam parses a "name=value" pair; a bare name sets an empty value
func ParseParam(pair string) (string, string, error) {
	name, value, _ := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", errors.New("parameter name cannot be empty")
	}
	return name, value, nil
}

// parseBody applies the body gate: only POST/PUT/PATCH with non-empty text
// are parsed, everything else gets an empty object
func parseBody(method, text string) (json.RawMessage, error) {
	if !types.RequiresBody(method) || strings.TrimSpace(text) == "" {
		return emptyBody, nil
	}

	var probe interface{}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, &InvalidRequestBodyError{Cause: err}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return nil, &InvalidRequestBodyError{Cause: err}
	}
	return json.RawMessage(buf.Bytes()), nil
}

func copyParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
