package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress routes key presses by mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if m.mode != ModeNormal {
		return m.handleInputKeys(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "up", "k":
		m.selectEndpoint(m.index - 1)
	case "down", "j":
		m.selectEndpoint(m.index + 1)
	case "enter", "s":
		m.send()
	case "p":
		m.startInput(ModeParamEdit, "name=value", "")
	case "h":
		m.startInput(ModeHeaderEdit, "Name: Value", "")
	case "H":
		m.headers = nil
		m.statusMsg = "Headers cleared"
	case "b":
		m.startInput(ModeBodyEdit, `{"key": "value"}`, m.body)
	case "u":
		m.startInput(ModeBaseURLEdit, "https://api.example.com", m.baseURL)
	case "c":
		m.params = map[string]string{}
		m.body = ""
		m.statusMsg = "Form cleared"
	case "pgup":
		m.responseView.PageUp()
	case "pgdown":
		m.responseView.PageDown()
	}
	return nil
}

// startInput switches to an editing mode with a fresh text input
func (m *Model) startInput(mode Mode, placeholder, value string) {
	input := textinput.New()
	input.Placeholder = placeholder
	input.SetValue(value)
	input.CharLimit = 0
	input.Width = max(m.width-MinimalBorderMargin*4, 20)
	input.Focus()

	m.input = input
	m.mode = mode
	m.statusMsg = ""
}

// handleInputKeys handles keys while a text input is open
func (m *Model) handleInputKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		return nil
	case tea.KeyEnter:
		m.commitInput()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// commitInput applies the input value to the form
func (m *Model) commitInput() {
	value := m.input.Value()
	mode := m.mode
	m.mode = ModeNormal

	var err error
	switch mode {
	case ModeParamEdit:
		if value != "" {
			err = m.applyParam(value)
		}
	case ModeHeaderEdit:
		if value != "" {
			err = m.applyHeader(value)
		}
	case ModeBodyEdit:
		m.body = value
	case ModeBaseURLEdit:
		m.baseURL = value
	}

	if err != nil {
		m.statusMsg = "Error: " + err.Error()
	}
}
