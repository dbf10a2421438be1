// Package tui is the interactive front end: pick a module, convert it, and
// show how its samples were mapped.
package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/james-see/mod2midi/pkg/converter"
)

type screen int

const (
	screenMenu screen = iota
	screenPicker
	screenWorking
	screenDone
)

// action is one line of the main menu
type action struct {
	label string
	hint  string
	piano bool
	quit  bool
}

func (a action) opts() converter.Options {
	return converter.Options{ForcePiano: a.piano}
}

var actions = []action{
	{label: "MOD → MIDI", hint: "instruments guessed from sample names"},
	{label: "MOD → MIDI (piano)", hint: "every melodic sample on program 0", piano: true},
	{label: "Quit", quit: true},
}

type keyMap struct {
	up, down, choose, back, quit key.Binding
}

var keys = keyMap{
	up:     key.NewBinding(key.WithKeys("up", "k")),
	down:   key.NewBinding(key.WithKeys("down", "j")),
	choose: key.NewBinding(key.WithKeys("enter")),
	back:   key.NewBinding(key.WithKeys("esc")),
	quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// Model is the bubbletea model for the converter UI
type Model struct {
	screen  screen
	cursor  int
	picker  filepicker.Model
	spin    spinner.Model
	styles  styles
	chosen  action
	job     job
	pickerH int
}

// job is the outcome of converting one module
type job struct {
	input   string
	output  string
	summary *converter.Summary
	err     error
}

// jobDone carries a finished job back into Update
type jobDone job

// New returns a model positioned on the main menu, browsing the working directory
func New() Model {
	st := newStyles()

	picker := filepicker.New()
	picker.AllowedTypes = []string{".mod", ".MOD"}
	picker.CurrentDirectory, _ = os.Getwd()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.accent))

	return Model{picker: picker, spin: spin, styles: st}
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.pickerH = msg.Height - 10
		m.picker.SetHeight(m.pickerH)
	case jobDone:
		m.job = job(msg)
		m.screen = screenDone
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if key.Matches(msg, keys.quit) {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenMenu:
		return m.updateMenu(msg)
	case screenPicker:
		return m.updatePicker(msg)
	case screenDone:
		if k, ok := msg.(tea.KeyMsg); ok && (key.Matches(k, keys.choose) || key.Matches(k, keys.back)) {
			m.screen, m.job = screenMenu, job{}
		}
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, keys.up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(k, keys.down):
		m.cursor = min(m.cursor+1, len(actions)-1)
	case key.Matches(k, keys.choose):
		m.chosen = actions[m.cursor]
		if m.chosen.quit {
			return m, tea.Quit
		}
		m.screen = screenPicker
		return m, m.picker.Init()
	}
	return m, nil
}

// updatePicker forwards everything to the file picker until a module is chosen
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.back) {
		m.screen = screenMenu
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.screen = screenWorking
		m.job = job{input: path}
		opts := m.chosen.opts()
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			return convertFile(path, opts)
		})
	}
	return m, cmd
}

// convertFile writes <input>.mid next to the module
func convertFile(input string, opts converter.Options) jobDone {
	done := jobDone{input: input}

	data, err := os.ReadFile(input)
	if err != nil {
		done.err = err
		return done
	}

	conv := converter.New(opts)
	if done.summary, err = conv.Inspect(data); err != nil {
		done.err = err
		return done
	}
	out, err := conv.ModToMIDI(data)
	if err != nil {
		done.err = err
		return done
	}

	done.output = strings.TrimSuffix(input, filepath.Ext(input)) + ".mid"
	done.err = os.WriteFile(done.output, out, 0644)
	return done
}

// Run starts the UI on the alternate screen and blocks until it exits
func Run() error {
	_, err := tea.NewProgram(New(), tea.WithAltScreen()).Run()
	return err
}
