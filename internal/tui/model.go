package tui

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/junnyboy28/InteGreatai/internal/builder"
	"github.com/junnyboy28/InteGreatai/internal/playground"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

// Mode represents the current interaction mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeParamEdit
	ModeHeaderEdit
	ModeBodyEdit
	ModeBaseURLEdit
)

// String returns the label shown in the status bar
func (m Mode) String() string {
	switch m {
	case ModeParamEdit:
		return "PARAM"
	case ModeHeaderEdit:
		return "HEADER"
	case ModeBodyEdit:
		return "BODY"
	case ModeBaseURLEdit:
		return "BASE URL"
	}
	return "NORMAL"
}

// resultMsg carries a resolved submission into Update
type resultMsg struct {
	result playground.Result
}

// Model is the playground UI state
type Model struct {
	pg      *playground.Playground
	results chan playground.Result

	endpoints []types.Endpoint
	index     int
	offset    int

	// Form state; params and body reset when the selection changes
	baseURL string
	params  map[string]string
	headers []types.HeaderRow
	body    string

	mode  Mode
	input textinput.Model

	pending      uint64 // token of the latest send, 0 when idle
	response     *types.ResponseEnvelope
	responseErr  error
	responseFrom string
	responseView viewport.Model

	statusMsg string
	width     int
	height    int
}

// Init starts listening for submission results
func (m *Model) Init() tea.Cmd {
	return m.waitForResult()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewport()

	case resultMsg:
		m.handleResult(msg.result)
		return m, m.waitForResult()
	}

	return m, nil
}

// waitForResult blocks on the next result from the playground
func (m *Model) waitForResult() tea.Cmd {
	ch := m.results
	return func() tea.Msg {
		return resultMsg{result: <-ch}
	}
}

// handleResult shows a resolution unless a newer send superseded it
func (m *Model) handleResult(result playground.Result) {
	if result.Token != 0 && !m.pg.IsCurrent(result.Token) {
		return
	}

	m.pending = 0
	m.response = result.Envelope
	m.responseErr = result.Err
	m.responseFrom = result.Endpoint.Label()
	m.updateResponseContent()
}

// send submits the current form through the playground
func (m *Model) send() {
	if len(m.endpoints) == 0 {
		return
	}

	sub := m.submission()
	results := m.results
	token := m.pg.SubmitAsync(context.Background(), sub, func(r playground.Result) {
		results <- r
	})
	m.pending = token
	m.statusMsg = "Sending " + sub.Endpoint.Label()
}

// submission snapshots the form
func (m *Model) submission() playground.Submission {
	params := make(map[string]string, len(m.params))
	for k, v := range m.params {
		params[k] = v
	}
	headers := make([]types.HeaderRow, len(m.headers))
	copy(headers, m.headers)

	return playground.Submission{
		Endpoint:    m.endpoints[m.index],
		BaseURL:     m.baseURL,
		Parameters:  params,
		Headers:     headers,
		RequestBody: m.body,
	}
}

// selectEndpoint moves the selection and clears per-endpoint state
func (m *Model) selectEndpoint(index int) {
	if index < 0 || index >= len(m.endpoints) || index == m.index {
		return
	}
	m.index = index
	m.params = map[string]string{}
	m.body = ""
	m.pending = 0
	m.response = nil
	m.responseErr = nil
	m.responseFrom = ""
	m.pg.Reset()
	m.updateResponseContent()
	m.adjustOffset()
}

// applyParam parses "name=value" into the form
func (m *Model) applyParam(text string) error {
	name, value, err := builder.ParseParam(text)
	if err != nil {
		return err
	}
	if value == "" {
		delete(m.params, name)
		return nil
	}
	m.params[name] = value
	return nil
}

// applyHeader parses "Name: Value" and appends it as a header row
func (m *Model) applyHeader(text string) error {
	row, err := builder.ParseHeaderRow(text)
	if err != nil {
		return err
	}
	m.headers = append(m.headers, row)
	return nil
}

// paramSummary renders the form params in declaration order, extras last
func (m *Model) paramSummary() string {
	if len(m.params) == 0 {
		return ""
	}

	var parts []string
	seen := map[string]bool{}
	if len(m.endpoints) > 0 {
		for _, name := range m.endpoints[m.index].Parameters.Names() {
			if v, ok := m.params[name]; ok {
				parts = append(parts, name+"="+v)
				seen[name] = true
			}
		}
	}

	var extra []string
	for name := range m.params {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		parts = append(parts, name+"="+m.params[name])
	}

	return strings.Join(parts, " ")
}
