package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/mod2midi/pkg/converter"
)

const logo = `
  __  __  ___  ____  ____  __  __ ___ ____ ___
 |  \/  |/ _ \|  _ \|___ \|  \/  |_ _|  _ \_ _|
 | |\/| | | | | | | | __) | |\/| || || | | | |
 | |  | | |_| | |_| |/ __/| |  | || || |_| | |
 |_|  |_|\___/|____/|_____|_|  |_|___|____/___|
`

// Amber on black, like a tracker pattern editor
var (
	amber = lipgloss.Color("#FFB000")
	pale  = lipgloss.Color("#FFF3B0")
	dim   = lipgloss.Color("#7A6A40")
	red   = lipgloss.Color("#FF5F5F")
)

type styles struct {
	accent  lipgloss.Style
	heading lipgloss.Style
	item    lipgloss.Style
	current lipgloss.Style
	hint    lipgloss.Style
	failed  lipgloss.Style
	panel   lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	return styles{
		accent:  base.Foreground(amber),
		heading: base.Foreground(lipgloss.Color("#000000")).Background(amber).Bold(true).Padding(0, 1),
		item:    base.Foreground(pale).PaddingLeft(2),
		current: base.Foreground(amber).Bold(true).PaddingLeft(2),
		hint:    base.Foreground(dim),
		failed:  base.Foreground(red).Bold(true),
		panel:   base.Border(lipgloss.NormalBorder()).BorderForeground(dim).Padding(0, 2),
	}
}

func (m Model) View() string {
	var body, keysHelp string
	switch m.screen {
	case screenMenu:
		body, keysHelp = m.menuView(), "↑/↓ move · enter choose · q quit"
	case screenPicker:
		body, keysHelp = m.pickerView(), "enter open · esc menu · q quit"
	case screenWorking:
		body = m.styles.panel.Render(fmt.Sprintf("%s %s\n%s",
			m.spin.View(), filepath.Base(m.job.input), m.styles.hint.Render(m.chosen.label)))
	case screenDone:
		body, keysHelp = m.doneView(), "enter menu · q quit"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.accent.Render(logo),
		body,
		m.styles.hint.Render(keysHelp),
	)
}

func (m Model) menuView() string {
	lines := []string{m.styles.heading.Render("CONVERT"), ""}
	for i, a := range actions {
		if i != m.cursor {
			lines = append(lines, m.styles.item.Render(a.label))
			continue
		}
		line := m.styles.current.Render("» " + a.label)
		if a.hint != "" {
			line += "  " + m.styles.hint.Render(a.hint)
		}
		lines = append(lines, line)
	}
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}

func (m Model) pickerView() string {
	return m.styles.heading.Render("CHOOSE A MODULE") + "\n\n" + m.picker.View()
}

func (m Model) doneView() string {
	if m.job.err != nil {
		return m.styles.panel.Render(m.styles.failed.Render("Conversion failed: " + m.job.err.Error()))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  →  %s\n", filepath.Base(m.job.input), m.styles.accent.Render(filepath.Base(m.job.output)))
	if s := m.job.summary; s != nil {
		fmt.Fprintf(&b, "%q  %d order entries  %d notes\n", s.Title, s.SongLength, s.Notes)
		if s.SkippedPatterns > 0 {
			b.WriteString(m.styles.failed.Render(fmt.Sprintf("%d order entries point past the pattern data", s.SkippedPatterns)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(sampleTable(s))
	}
	return m.styles.panel.Render(strings.TrimRight(b.String(), "\n"))
}

// sampleTable lists the samples that produced notes
func sampleTable(s *converter.Summary) string {
	var b strings.Builder
	for _, smp := range s.Samples {
		if smp.NotesPlayed == 0 {
			continue
		}
		dest := fmt.Sprintf("ch %2d drums", smp.Channel+1)
		if smp.Program != nil {
			dest = fmt.Sprintf("ch %2d %s", smp.Channel+1, smp.ProgramName)
		}
		fmt.Fprintf(&b, "%02d %-22s %s..%s  %s\n", smp.Number, smp.Name, smp.LowestNote, smp.HighestNote, dest)
	}
	return b.String()
}
