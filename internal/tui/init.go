package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/junnyboy28/InteGreatai/internal/playground"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

// Options seeds the playground form
type Options struct {
	BaseURL string
	Headers []types.HeaderRow
}

// New creates a new TUI model
func New(pg *playground.Playground, endpoints []types.Endpoint, opts Options) *Model {
	headers := make([]types.HeaderRow, len(opts.Headers))
	copy(headers, opts.Headers)

	return &Model{
		pg:           pg,
		results:      make(chan playground.Result, ResultBuffer),
		endpoints:    endpoints,
		baseURL:      opts.BaseURL,
		params:       map[string]string{},
		headers:      headers,
		mode:         ModeNormal,
		responseView: viewport.New(80, 20),
	}
}

// Run starts the TUI
func Run(pg *playground.Playground, endpoints []types.Endpoint, opts Options) error {
	m := New(pg, endpoints, opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
