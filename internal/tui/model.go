package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tidewave-io/tidewave/internal/config"
)

// tailBytes is how much of the end of the daemon log is loaded per tick.
const tailBytes = 64 * 1024

const refreshInterval = time.Second

type tickMsg time.Time

// Model is the console model: a daemon status header over a log tail.
type Model struct {
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	follow   bool

	logPath string
	running bool
	port    int
	pid     int
	track   string

	// refresh triggers a forced presence cycle in the daemon.
	refresh func()
}

// NewModel creates the console model. refresh may be nil.
func NewModel(refresh func()) *Model {
	logPath, _ := config.DaemonLogFile()
	return &Model{
		logPath: logPath,
		follow:  true,
		refresh: refresh,
	}
}

// Init schedules the first refresh tick. The first reload happens on
// the initial WindowSizeMsg, once the viewport exists.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// reload refreshes daemon status and the log tail.
func (m *Model) reload() {
	running, info, err := config.IsDaemonRunning()
	m.running = err == nil && running
	if m.running && info != nil {
		m.port = info.Port
		m.pid = info.PID
	}

	content := m.readLogTail()
	m.track = lastPublishedTrack(content)
	if m.ready {
		m.viewport.SetContent(content)
		if m.follow {
			m.viewport.GotoBottom()
		}
	}
}

// readLogTail returns the last chunk of the daemon log.
func (m *Model) readLogTail() string {
	if m.logPath == "" {
		return "No daemon log path available."
	}
	f, err := os.Open(m.logPath)
	if err != nil {
		return fmt.Sprintf("No daemon log yet (%v).", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Sprintf("Failed to stat daemon log: %v", err)
	}

	offset := int64(0)
	if stat.Size() > tailBytes {
		offset = stat.Size() - tailBytes
	}
	buf := make([]byte, stat.Size()-offset)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return fmt.Sprintf("Failed to read daemon log: %v", err)
	}

	content := string(buf)
	// Drop the partial first line when reading mid-file.
	if offset > 0 {
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			content = content[i+1:]
		}
	}
	return content
}

// lastPublishedTrack scans the log tail for the most recent publish or
// clear, returning "" when nothing is currently published.
func lastPublishedTrack(content string) string {
	track := ""
	for _, line := range strings.Split(content, "\n") {
		if i := strings.Index(line, "presence updated: "); i >= 0 {
			track = line[i+len("presence updated: "):]
			continue
		}
		if strings.Contains(line, "clearing presence") || strings.Contains(line, "no active media session") {
			track = ""
		}
	}
	return track
}

// Update handles key and tick messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 4
		footerHeight := 1
		vpHeight := m.height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
			m.reload()
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		return m, nil

	case tickMsg:
		m.reload()
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, consoleKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, consoleKeys.Up):
			m.follow = false
			m.viewport.LineUp(1)
		case key.Matches(msg, consoleKeys.Down):
			m.viewport.LineDown(1)
		case key.Matches(msg, consoleKeys.PageUp):
			m.follow = false
			m.viewport.HalfViewUp()
		case key.Matches(msg, consoleKeys.PageDn):
			m.viewport.HalfViewDown()
		case key.Matches(msg, consoleKeys.Follow):
			m.follow = !m.follow
			if m.follow {
				m.viewport.GotoBottom()
			}
		case key.Matches(msg, consoleKeys.Refresh):
			if m.refresh != nil {
				m.refresh()
			}
		}
		return m, nil
	}

	return m, nil
}

// View renders the console.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := headerStyle.Render("Tidewave Console")

	var status string
	if m.running {
		status = fmt.Sprintf("Daemon running on port %d (PID %d)", m.port, m.pid)
	} else {
		status = stoppedStyle.Render("Daemon is not running")
	}

	var now string
	if m.track != "" {
		now = trackStyle.Render("♪ " + m.track)
	} else {
		now = idleStyle.Render("Nothing playing")
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))

	bar := statusBar(m.width, m.follow)

	header := strings.Join([]string{
		ansi.Truncate(title, m.width, ""),
		ansi.Truncate(status, m.width, ""),
		ansi.Truncate(now, m.width, "…"),
		sep,
	}, "\n")

	return header + "\n" + m.viewport.View() + "\n" + bar
}

func statusBar(width int, follow bool) string {
	followHint := "follow off"
	if follow {
		followHint = "follow on"
	}
	hints := []string{
		keyStyle.Render("q") + hintStyle.Render(" quit"),
		keyStyle.Render("f") + hintStyle.Render(" "+followHint),
		keyStyle.Render("r") + hintStyle.Render(" force update"),
		keyStyle.Render("j/k") + hintStyle.Render(" scroll"),
	}
	bar := " " + strings.Join(hints, lipgloss.NewStyle().Foreground(colorDim).Render("  ·  "))
	return statusBarStyle.Width(width).Render(ansi.Truncate(bar, width, "…"))
}
