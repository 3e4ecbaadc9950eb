package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/junnyboy28/InteGreatai/internal/executor"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// statusColor picks the color for a status code: 2xx green, >=400 red, else yellow
func statusColor(status int) lipgloss.AdaptiveColor {
	switch executor.ClassifyStatus(status) {
	case executor.StatusSuccess:
		return colorGreen
	case executor.StatusError:
		return colorRed
	}
	return colorYellow
}

func statusStyle(status int) lipgloss.Style {
	switch executor.ClassifyStatus(status) {
	case executor.StatusSuccess:
		return styleSuccess
	case executor.StatusError:
		return styleError
	}
	return styleWarning
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebarWidth := max(int(float64(m.width)*SidebarWidthRatio), SidebarMinWidth)
	responseWidth := max(m.width-sidebarWidth-MinimalBorderMargin*2, 10)

	sidebarBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Width(sidebarWidth).
		Height(m.height - MinimalBorderMargin - 1).
		Render(m.renderSidebar(sidebarWidth))

	responseBorder := colorGray
	if m.response != nil {
		responseBorder = statusColor(m.response.StatusCode)
	} else if m.responseErr != nil {
		responseBorder = colorRed
	}

	right := lipgloss.JoinVertical(lipgloss.Left, m.renderForm(responseWidth), m.responseView.View())
	responseBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(responseBorder).
		Width(responseWidth).
		Height(m.height - MinimalBorderMargin - 1).
		Render(right)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, sidebarBox, responseBox),
		m.renderStatusBar(),
	)
}

// renderSidebar lists endpoints with the selection highlighted
func (m *Model) renderSidebar(width int) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("Endpoints (%d)", len(m.endpoints))))
	b.WriteString("\n\n")

	rows := m.visibleRows()
	end := min(m.offset+rows, len(m.endpoints))
	for i := m.offset; i < end; i++ {
		line := truncate(m.endpoints[i].Label(), width-2)
		if i == m.index {
			line = styleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// renderForm summarizes the endpoint and what will be sent
func (m *Model) renderForm(width int) string {
	if len(m.endpoints) == 0 {
		return styleSubtle.Render("No endpoints in catalog")
	}

	ep := m.endpoints[m.index]
	var b strings.Builder
	b.WriteString(styleTitle.Render(truncate(ep.Label(), width)))
	b.WriteString("\n")
	if ep.Description != "" {
		b.WriteString(styleSubtle.Render(truncate(ep.Description, width)))
	}
	b.WriteString("\n")

	b.WriteString(truncate("Base:    "+m.baseURL, width) + "\n")
	b.WriteString(truncate("Params:  "+m.paramSummary(), width) + "\n")

	var headers []string
	for _, h := range m.headers {
		headers = append(headers, h.Name+": "+h.Value)
	}
	b.WriteString(truncate("Headers: "+strings.Join(headers, ", "), width))

	if m.body != "" {
		b.WriteString("\n" + truncate("Body:    "+m.body, width))
	}

	return b.String()
}

// renderStatusBar shows the mode, input or last status
func (m *Model) renderStatusBar() string {
	if m.mode != ModeNormal {
		return styleTitle.Render(m.mode.String()+" ") + m.input.View()
	}

	status := m.statusMsg
	switch {
	case m.pending != 0:
		status = styleWarning.Render("Sending...")
	case m.response != nil:
		status = statusStyle(m.response.StatusCode).Render(fmt.Sprintf("%d", m.response.StatusCode)) +
			styleSubtle.Render(" "+executor.FormatDuration(m.response.TimeMS)+" "+m.responseFrom)
	case m.responseErr != nil:
		status = styleError.Render(m.responseErr.Error())
	}

	help := styleSubtle.Render("j/k select  enter send  p param  h header  b body  u base url  c clear  q quit")
	return status + "  " + help
}

// updateViewport resizes the response viewport to the window
func (m *Model) updateViewport() {
	sidebarWidth := max(int(float64(m.width)*SidebarWidthRatio), SidebarMinWidth)
	m.responseView.Width = max(m.width-sidebarWidth-MinimalBorderMargin*3, 10)
	m.responseView.Height = max(m.height-ResponseOffset-MinimalBorderMargin, 1)
	m.updateResponseContent()
	m.adjustOffset()
}

// updateResponseContent formats the displayed result into the viewport
func (m *Model) updateResponseContent() {
	m.responseView.SetContent(m.formatResponse())
	m.responseView.GotoTop()
}

// formatResponse renders headers and the pretty-printed body
func (m *Model) formatResponse() string {
	if m.responseErr != nil {
		return styleError.Render(m.responseErr.Error())
	}
	if m.response == nil {
		return styleSubtle.Render("Press enter to send the request")
	}

	var b strings.Builder
	names := make([]string, 0, len(m.response.Headers))
	for name := range m.response.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(styleSubtle.Render(name+": ") + m.response.Headers[name] + "\n")
	}
	b.WriteString("\n")

	body := m.response.BodyText()
	if m.response.IsJSON() {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, []byte(body), "", "  "); err == nil {
			body = pretty.String()
		}
	}
	b.WriteString(body)
	return b.String()
}

// visibleRows is how many sidebar rows fit
func (m *Model) visibleRows() int {
	return max(m.height-MinimalBorderMargin*3, 1)
}

// adjustOffset keeps the selection visible in the sidebar
func (m *Model) adjustOffset() {
	rows := m.visibleRows()
	if m.index < m.offset {
		m.offset = m.index
	}
	if m.index >= m.offset+rows {
		m.offset = m.index - rows + 1
	}
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}
