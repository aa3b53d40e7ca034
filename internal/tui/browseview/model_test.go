package browseview

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aegis-aio/shellder/internal/browser"
	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/logs"
	"github.com/aegis-aio/shellder/internal/models"
)

func newSession(entries int) *browser.Session {
	var b strings.Builder
	for i := 1; i <= 300; i++ {
		if i%5 == 0 && i/5 <= entries {
			fmt.Fprintf(&b, "ERROR job %d failed\n", i)
		} else {
			fmt.Fprintf(&b, "tick %d\n", i)
		}
	}
	info := models.ContainerInfo{Name: "golbat", State: models.ContainerStateRunning}
	return browser.NewSession(logs.NewSnapshot("golbat", info, b.String(), time.Now()), classifier.New())
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func TestPagingStaysInRange(t *testing.T) {
	m := sized(New(newSession(45)))

	m = press(m, "n", "n")
	if m.page != 3 {
		t.Fatalf("expected page 3, got %d", m.page)
	}

	m = press(m, "n")
	if m.page != 3 {
		t.Fatalf("paging past the end moved to %d", m.page)
	}
	if !strings.Contains(m.status, "no page 4") {
		t.Errorf("expected out-of-range status, got %q", m.status)
	}

	m = press(m, "p", "p", "p")
	if m.page != 1 {
		t.Fatalf("expected page 1, got %d", m.page)
	}
}

func TestOpenContextAndWiden(t *testing.T) {
	m := sized(New(newSession(45)))

	m = press(m, "3", "enter")
	if m.mode != modeContext {
		t.Fatalf("expected context mode, status %q", m.status)
	}
	if m.context.Entry.Ordinal != 15 || m.context.From != 1 || m.context.To != 65 {
		t.Fatalf("unexpected context %+v", m.context)
	}
	if !strings.Contains(m.View(), ">>") {
		t.Error("target line is not marked")
	}

	m = press(m, "+")
	if m.context.Radius != 100 || m.context.To != 115 {
		t.Fatalf("widen gave radius %d to %d", m.context.Radius, m.context.To)
	}
	m = press(m, "+", "+")
	if m.context.Radius != 50 {
		t.Fatalf("radius should cycle 100 -> 200 -> 50, got %d", m.context.Radius)
	}

	m = press(m, "esc")
	if m.mode != modeList {
		t.Fatal("esc should return to the list")
	}
}

func TestOutOfRangeSelectionIsNoop(t *testing.T) {
	m := sized(New(newSession(5)))

	m = press(m, "9", "9", "enter")
	if m.mode != modeList {
		t.Fatal("out-of-range selection left the list")
	}
	if !strings.Contains(m.status, "no entry #99") {
		t.Errorf("unexpected status %q", m.status)
	}

	m = press(m, "x", "enter")
	if m.mode != modeList || m.status == "" {
		t.Errorf("non-numeric input should only set a status, got %q", m.status)
	}
}

func TestUnavailableSnapshotView(t *testing.T) {
	info := models.ContainerInfo{Name: "database", State: models.ContainerStateNotFound}
	session := browser.NewSession(logs.Unavailable("database", info, time.Now()), classifier.New())

	view := sized(New(session)).View()
	if !strings.Contains(view, "not applicable: container not_found") {
		t.Errorf("view does not report unavailable source:\n%s", view)
	}
}

func TestQuit(t *testing.T) {
	m := New(newSession(1))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}
