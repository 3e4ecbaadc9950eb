// Package cli implements the non-interactive commands: testing one endpoint,
// exporting a collection, listing a catalog and fetching a catalog.
package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/junnyboy28/InteGreatai/internal/builder"
	"github.com/junnyboy28/InteGreatai/internal/catalog"
	"github.com/junnyboy28/InteGreatai/internal/config"
	"github.com/junnyboy28/InteGreatai/internal/executor"
	"github.com/junnyboy28/InteGreatai/internal/filter"
	"github.com/junnyboy28/InteGreatai/internal/logger"
	"github.com/junnyboy28/InteGreatai/internal/playground"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

// ErrFailedStatus is returned by RunTest when the target answered with a status >= 400
var ErrFailedStatus = errors.New("request failed")

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TestOptions contains options for testing one endpoint in CLI mode
type TestOptions struct {
	CatalogPath  string
	Selector     string // index, "METHOD path" or fuzzy query; prompts when empty on a TTY
	BaseURL      string
	Params       []string // name=value pairs from -P
	Headers      []string // "Name: Value" lines from -H
	Body         string   // "-" reads stdin, "@file" reads a file
	ProxyURL     string   // send through a backend's /api/test-endpoint instead of directly
	OutputFormat string   // text, json, yaml, body
	ShowFull     bool
	Filter       string // JMESPath filter expression
	Query        string // JMESPath query or $(bash command)
	SavePath     string
	Timeout      time.Duration
	TLS          *types.TLSConfig
	Color        bool

	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
	Logger *logger.Logger
}

// RunTest loads the catalog, builds the request for the selected endpoint,
// executes it once and prints the envelope.
func RunTest(ctx context.Context, opts TestOptions) (*types.ResponseEnvelope, error) {
	opts.setDefaults()

	result, err := catalog.LoadFile(opts.CatalogPath)
	if err != nil {
		return nil, err
	}

	endpoint, err := resolveEndpoint(result.Endpoints, opts.Selector)
	if err != nil {
		return nil, err
	}

	sub, err := opts.submission(endpoint)
	if err != nil {
		return nil, err
	}
	if sub.BaseURL == "" {
		return nil, playground.ErrMissingBaseURL
	}

	transport, err := opts.transport()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle Ctrl+C for graceful cancellation
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(opts.ErrOut, "\nRequest cancelled by user")
			cancel()
		case <-ctx.Done():
		}
	}()

	env, err := playground.BuildAndExecute(ctx, executor.New(transport, opts.Logger), sub)
	if err != nil {
		return nil, err
	}

	if err := writeEnvelope(ctx, env, opts); err != nil {
		return env, err
	}

	if env.StatusCode >= 400 {
		return env, ErrFailedStatus
	}
	return env, nil
}

func (o *TestOptions) setDefaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.ErrOut == nil {
		o.ErrOut = os.Stderr
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
}

// submission turns the flags into a playground submission
func (o *TestOptions) submission(endpoint types.Endpoint) (playground.Submission, error) {
	params := make(map[string]string, len(o.Params))
	for _, pair := range o.Params {
		name, value, err := builder.ParseParam(pair)
		if err != nil {
			return playground.Submission{}, err
		}
		params[name] = value
	}

	headers := make([]types.HeaderRow, 0, len(o.Headers))
	for _, line := range o.Headers {
		row, err := builder.ParseHeaderRow(line)
		if err != nil {
			return playground.Submission{}, err
		}
		headers = append(headers, row)
	}

	body, err := readBody(o.Body, o.In)
	if err != nil {
		return playground.Submission{}, err
	}

	for _, name := range endpoint.Parameters.Names() {
		spec, _ := endpoint.Parameters.Get(name)
		if _, ok := params[name]; spec.Required && !ok {
			fmt.Fprintf(o.ErrOut, "Warning: required parameter %q not set\n", name)
		}
	}

	return playground.Submission{
		Endpoint:    endpoint,
		BaseURL:     o.BaseURL,
		Parameters:  params,
		Headers:     headers,
		RequestBody: body,
	}, nil
}

// transport picks the direct or proxied transport
func (o *TestOptions) transport() (executor.Transport, error) {
	if o.ProxyURL != "" {
		return executor.NewProxyTransport(o.ProxyURL, nil), nil
	}
	t, err := executor.NewHTTPTransport(executor.HTTPOptions{Timeout: o.Timeout, TLS: o.TLS})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// readBody resolves "-" (stdin) and "@path" body references
func readBody(body string, in io.Reader) (string, error) {
	switch {
	case body == "-":
		data, err := io.ReadAll(bufio.NewReader(in))
		if err != nil {
			return "", fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return string(data), nil
	case strings.HasPrefix(body, "@"):
		data, err := os.ReadFile(body[1:])
		if err != nil {
			return "", fmt.Errorf("failed to read body file: %w", err)
		}
		return string(data), nil
	}
	return body, nil
}

// resolveEndpoint selects by selector, or prompts when none is given on a TTY
func resolveEndpoint(endpoints []types.Endpoint, selector string) (types.Endpoint, error) {
	if selector == "" {
		if !isInteractive() {
			return types.Endpoint{}, fmt.Errorf("no endpoint selected")
		}
		idx, err := promptForEndpoint(endpoints)
		if err != nil {
			return types.Endpoint{}, err
		}
		return endpoints[idx], nil
	}

	ep, _, err := catalog.Select(endpoints, selector)
	return ep, err
}

// writeEnvelope filters, formats and prints or saves the envelope
func writeEnvelope(ctx context.Context, env *types.ResponseEnvelope, opts TestOptions) error {
	body := env.BodyText()
	if opts.Filter != "" || opts.Query != "" {
		filtered, err := filter.ApplyEnvelope(ctx, env, opts.Filter, opts.Query)
		if err != nil {
			fmt.Fprintf(opts.ErrOut, "Warning: filter/query error: %v\n", err)
		} else {
			body = filtered
		}
	}

	outputFormat := opts.OutputFormat
	if outputFormat == "" {
		if opts.SavePath == "" && !IsTerminal(opts.Out) {
			// Output is being piped, just show body
			outputFormat = "body"
		} else {
			outputFormat = "text"
		}
	}

	color := opts.Color && opts.SavePath == ""
	output, err := formatOutput(env, body, outputFormat, opts.ShowFull, color)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.SavePath != "" {
		if err := os.WriteFile(opts.SavePath, []byte(output), config.FilePermissions); err != nil {
			return fmt.Errorf("failed to save response: %w", err)
		}
		fmt.Fprintf(opts.ErrOut, "Response saved to %s\n", opts.SavePath)
		return nil
	}

	fmt.Fprint(opts.Out, output)
	return nil
}

// formatOutput formats the envelope; body is the (possibly filtered) body text
func formatOutput(env *types.ResponseEnvelope, body, format string, showFull, color bool) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(envelopeWithBody(env, body), "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		var decoded interface{}
		if err := json.Unmarshal(mustJSON(envelopeWithBody(env, body)), &decoded); err != nil {
			return "", err
		}
		data, err := yaml.Marshal(decoded)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "body":
		return body + "\n", nil

	case "text":
		fallthrough
	default:
		var sb strings.Builder

		sb.WriteString(statusLine(env.StatusCode, color))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Duration: %s | Size: %s\n",
			executor.FormatDuration(env.TimeMS),
			executor.FormatSize(len(env.BodyText()))))

		if showFull && len(env.Headers) > 0 {
			sb.WriteString("\nHeaders:\n")
			names := make([]string, 0, len(env.Headers))
			for name := range env.Headers {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", name, env.Headers[name]))
			}
		}

		if body != "" {
			if showFull {
				sb.WriteString("\nBody:\n")
			} else {
				sb.WriteString("\n")
			}
			sb.WriteString(prettyBody(body, color))
			sb.WriteString("\n")
		}

		return sb.String(), nil
	}
}

// envelopeWithBody replaces the envelope body with the filtered text
func envelopeWithBody(env *types.ResponseEnvelope, body string) *types.ResponseEnvelope {
	if body == env.BodyText() {
		return env
	}
	out := *env
	out.Response = types.ResponseBody([]byte(body))
	return &out
}

func mustJSON(v interface{}) []byte {
	data, _ := json.Marshal(v)
	return data
}

// statusLine renders "200 OK" colored by status class
func statusLine(status int, color bool) string {
	text := fmt.Sprintf("%d %s", status, statusText(status))
	if !color {
		return text
	}
	return lipgloss.NewStyle().Foreground(getStatusColor(status)).Render(text)
}

func statusText(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Unknown"
}

func getStatusColor(status int) lipgloss.Color {
	switch executor.ClassifyStatus(status) {
	case executor.StatusSuccess:
		return lipgloss.Color("2")
	case executor.StatusError:
		return lipgloss.Color("1")
	}
	return lipgloss.Color("3")
}

// prettyBody indents JSON bodies and highlights them when color is on
func prettyBody(body string, color bool) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(body), "", "  "); err != nil {
		return body
	}
	return highlight(pretty.String(), "json", color)
}
