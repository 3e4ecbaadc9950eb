// Package filter narrows and reshapes JSON response bodies with JMESPath
// expressions or a piped shell command.
package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"

	"github.com/junnyboy28/InteGreatai/internal/types"
)

const (
	// QueryShellTimeout is the maximum time allowed for query shell command execution
	QueryShellTimeout = 30 * time.Second
)

var (
	// Shell command pattern: $(command)
	shellPattern = regexp.MustCompile(`^\$\((.+)\)$`)

	// ErrNotJSON is returned when a filter is applied to a non-JSON response
	ErrNotJSON = errors.New("response body is not JSON")
)

// Apply applies filter and query expressions to a response body.
// The filter narrows results (items[?status==`active`]), the query selects or
// reshapes them ([].name). A query of the form $(...) runs through sh with the
// body on stdin.
func Apply(ctx context.Context, body string, filter string, query string) (string, error) {
	result := body

	if filter != "" {
		filtered, err := applyJMESPath(result, filter)
		if err != nil {
			return "", fmt.Errorf("failed to apply filter: %w", err)
		}
		result = filtered
	}

	if query == "" {
		return result, nil
	}

	if matches := shellPattern.FindStringSubmatch(query); len(matches) > 1 {
		queried, err := executeShellCommand(ctx, result, matches[1])
		if err != nil {
			return "", fmt.Errorf("failed to execute query shell command: %w", err)
		}
		return queried, nil
	}

	queried, err := applyJMESPath(result, query)
	if err != nil {
		return "", fmt.Errorf("failed to apply query: %w", err)
	}
	return queried, nil
}

// ApplyEnvelope runs Apply against the body of a response envelope. Shell
// queries accept any body; JMESPath expressions need a JSON body.
func ApplyEnvelope(ctx context.Context, env *types.ResponseEnvelope, filter string, query string) (string, error) {
	if env == nil {
		return "", ErrNotJSON
	}
	if filter == "" && query == "" {
		return env.BodyText(), nil
	}
	if !env.IsJSON() && (filter != "" || !IsShellCommand(query)) {
		return "", ErrNotJSON
	}
	return Apply(ctx, env.BodyText(), filter, query)
}

// applyJMESPath applies a JMESPath expression to a JSON string
func applyJMESPath(jsonStr string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// executeShellCommand executes a shell command with the body piped to stdin
func executeShellCommand(ctx context.Context, body string, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(body)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := err.Error()
		if stderr.Len() > 0 {
			errMsg = strings.TrimSpace(stderr.String())
		}
		return "", fmt.Errorf("command '%s' failed: %s", command, errMsg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// IsShellCommand checks if a query is a shell command (starts with $(...))
func IsShellCommand(query string) bool {
	return shellPattern.MatchString(query)
}
