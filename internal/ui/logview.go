package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/frame/internal/logtail"
)

const logTailLines = 500

type logLinesMsg struct {
	lines []string
	err   error
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

// refreshLogs re-reads the log file when the log view is open.
func (m Model) refreshLogs() tea.Cmd {
	if !m.showLogs || m.logPath == "" {
		return nil
	}
	return readLogCmd(m.logPath)
}

func (m *Model) resizeLogViewport(height int) {
	if height < 1 {
		height = 1
	}
	if m.logViewport.Width == 0 && m.logViewport.Height == 0 {
		m.logViewport = viewport.New(m.width, height)
		return
	}
	m.logViewport.Width = m.width
	m.logViewport.Height = height
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	if msg.err != nil {
		m.logViewport.SetContent(m.theme.Styles().DangerText.Render("Cannot read log: " + msg.err.Error()))
		return
	}
	styles := m.theme.Styles()
	rendered := make([]string, len(msg.lines))
	for i, line := range msg.lines {
		e := logtail.Parse(line)
		rendered[i] = styles.LevelStyle(e.Level).Render(logtail.Format(e))
	}
	follow := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.SetContent(strings.Join(rendered, "\n"))
	if follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}
