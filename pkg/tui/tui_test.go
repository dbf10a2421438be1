package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/james-see/mod2midi/pkg/tracker/trackertest"
)

func press(t *testing.T, m tea.Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func TestMenuNavigation(t *testing.T) {
	m, _ := press(t, New(), tea.KeyUp)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after up at top, want 0", m.cursor)
	}

	m, _ = press(t, m, tea.KeyDown)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	m, _ = press(t, m, tea.KeyEnter)
	if m.screen != screenPicker {
		t.Errorf("screen = %v, want picker", m.screen)
	}
	if !m.chosen.opts().ForcePiano {
		t.Error("second menu entry should force piano")
	}

	m, _ = press(t, m, tea.KeyEsc)
	if m.screen != screenMenu {
		t.Errorf("esc should return to the menu, screen = %v", m.screen)
	}
}

func TestMenuQuit(t *testing.T) {
	m := New()
	m.cursor = len(actions) - 1

	_, cmd := press(t, m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("Quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Quit should quit")
	}
}

func writeModule(t *testing.T, dir string) string {
	t.Helper()
	input := filepath.Join(dir, "tune.mod")

	b := trackertest.New()
	b.Title = "tune"
	b.SetOrder(0)
	b.Samples[0] = trackertest.SampleSpec{Name: "flute", Volume: 40}
	b.SetNote(0, 0, 0, trackertest.Note{Period: 428, Instrument: 1})
	b.SetNote(0, 8, 0, trackertest.Note{Period: 214})
	if err := os.WriteFile(input, b.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return input
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := writeModule(t, dir)

	done := convertFile(input, actions[0].opts())
	if done.err != nil {
		t.Fatalf("convertFile() error = %v", done.err)
	}
	if done.output != filepath.Join(dir, "tune.mid") {
		t.Errorf("output = %q", done.output)
	}
	if _, err := os.Stat(done.output); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if done.summary == nil || done.summary.Notes != 2 {
		t.Fatalf("summary = %+v, want 2 notes", done.summary)
	}

	next, _ := New().Update(done)
	view := next.View()
	for _, want := range []string{"tune.mid", "flute", "C-2..C-3", "Flute"} {
		if !strings.Contains(view, want) {
			t.Errorf("result view missing %q", want)
		}
	}

	m, _ := press(t, next, tea.KeyEnter)
	if m.screen != screenMenu || m.job.summary != nil {
		t.Error("enter on the result should reset to the menu")
	}
}

func TestConvertFileError(t *testing.T) {
	input := filepath.Join(t.TempDir(), "bad.mod")
	if err := os.WriteFile(input, []byte("short"), 0644); err != nil {
		t.Fatal(err)
	}

	done := convertFile(input, actions[0].opts())
	if done.err == nil {
		t.Fatal("convertFile() should fail on a short module")
	}

	next, _ := New().Update(done)
	if !strings.Contains(next.View(), "Conversion failed") {
		t.Error("result view should report the failure")
	}
}
