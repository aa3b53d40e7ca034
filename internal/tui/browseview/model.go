// Package browseview is the interactive terminal view of a numbered error
// session: a paged list and a context view around a selected entry.
package browseview

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aegis-aio/shellder/internal/browser"
	"github.com/aegis-aio/shellder/internal/ui"
)

type mode int

const (
	modeList mode = iota
	modeContext
)

// Model is the bubbletea model of the browser.
type Model struct {
	session *browser.Session

	mode   mode
	page   int
	radius int
	input  textinput.Model
	status string

	context  browser.ContextView
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New returns a model showing the first page of session.
func New(session *browser.Session) Model {
	ti := textinput.New()
	ti.Prompt = "# "
	ti.Placeholder = "entry number"
	ti.CharLimit = 8
	ti.Focus()
	return Model{
		session: session,
		page:    1,
		radius:  browser.DefaultRadius,
		input:   ti,
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(session *browser.Session) error {
	_, err := tea.NewProgram(New(session), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.viewportHeight())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.viewportHeight()
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, ui.Keys.Quit) {
			return m, tea.Quit
		}
		if m.mode == modeContext {
			return m.updateContext(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, ui.Keys.NextPage):
		m.turnPage(m.page + 1)
		return m, nil
	case key.Matches(msg, ui.Keys.PrevPage):
		m.turnPage(m.page - 1)
		return m, nil
	case key.Matches(msg, ui.Keys.Enter):
		m.open(m.input.Value())
		m.input.SetValue("")
		return m, nil
	case key.Matches(msg, ui.Keys.Back):
		m.input.SetValue("")
		m.status = ""
		return m, nil
	case key.Matches(msg, ui.Keys.Erase):
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	// Only digits reach the entry number input.
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateContext(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, ui.Keys.Back):
		m.mode = modeList
		m.status = ""
		return m, nil
	case key.Matches(msg, ui.Keys.Widen):
		m.radius = browser.NextRadius(m.radius)
		m.showContext(m.context.Entry.Seq)
		return m, nil
	case key.Matches(msg, ui.Keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, ui.Keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) turnPage(n int) {
	if _, err := m.session.Page(n); err != nil {
		m.status = fmt.Sprintf("no page %d (1-%d)", n, m.session.Pages())
		return
	}
	m.page = n
	m.status = ""
}

func (m *Model) open(value string) {
	seq, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		m.status = "type an entry number and press enter"
		return
	}
	m.radius = browser.DefaultRadius
	m.showContext(seq)
}

func (m *Model) showContext(seq int) {
	view, err := m.session.Context(seq, m.radius)
	if errors.Is(err, browser.ErrEntryOutOfRange) {
		if m.session.Len() == 0 {
			m.status = "no entries to open"
		} else {
			m.status = fmt.Sprintf("no entry #%d (1-%d)", seq, m.session.Len())
		}
		return
	}

	m.context = view
	m.mode = modeContext
	m.status = ""

	target := 0
	lines := make([]string, len(view.Lines))
	for i, l := range view.Lines {
		if l.Target {
			target = i
			lines[i] = ui.StyleTarget.Render(fmt.Sprintf(">>%6d | %s", l.Ordinal, l.Text))
			continue
		}
		lines[i] = fmt.Sprintf("  %6d | %s", l.Ordinal, l.Text)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.SetYOffset(max(0, target-m.viewport.Height/2))
}

func (m Model) viewportHeight() int {
	return max(1, m.height-2)
}

func (m Model) View() string {
	if m.mode == modeContext {
		return m.contextView()
	}
	return m.listView()
}

func (m Model) listView() string {
	snap := m.session.Snapshot()
	var b strings.Builder

	title := fmt.Sprintf("%s  %d lines  %d entries  page %d/%d",
		snap.Service, snap.Len(), m.session.Len(), m.page, m.session.Pages())
	b.WriteString(ui.StyleHeader.Render(title))
	b.WriteString("\n\n")

	switch {
	case !snap.Available():
		b.WriteString(ui.StyleWarning.Render(fmt.Sprintf("  not applicable: container %s", snap.Container.State)))
		b.WriteString("\n")
	case m.session.Len() == 0:
		b.WriteString(ui.StyleSuccess.Render("  no errors found"))
		b.WriteString("\n")
	default:
		page, _ := m.session.Page(m.page)
		for _, e := range page.Entries {
			tag := ui.TagStyle(e.Tag).Render(fmt.Sprintf("%-8s", e.Tag.Label()))
			fmt.Fprintf(&b, "  %4d  L%-6d %s %s\n", e.Seq, e.Ordinal, tag, e.Preview)
		}
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(ui.StyleFailure.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(ui.Help(ui.Keys.NextPage, ui.Keys.PrevPage, ui.Keys.Enter, ui.Keys.Quit))
	return b.String()
}

func (m Model) contextView() string {
	v := m.context
	header := fmt.Sprintf("#%d  line %d  [%d-%d of %d]  radius %d",
		v.Entry.Seq, v.Entry.Ordinal, v.From, v.To, v.Total, v.Radius)
	return ui.StyleHeader.Render(header) + "\n" +
		m.viewport.View() + "\n" +
		ui.Help(ui.Keys.Widen, ui.Keys.Top, ui.Keys.Bottom, ui.Keys.Back, ui.Keys.Quit)
}
