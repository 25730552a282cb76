package gen

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConflictResolution represents what to do with an existing file.
type ConflictResolution int

const (
	Skip ConflictResolution = iota
	Overwrite
	ShowDiff
	Cancel
)

// ConflictStrategy decides what happens when a planned owned file already
// exists on disk.
type ConflictStrategy interface {
	Resolve(path string, existing, newer []byte) (ConflictResolution, error)
}

// ConflictResolver picks a strategy from the CLI flags.
type ConflictResolver struct {
	strategy ConflictStrategy
}

// NewConflictResolver returns a resolver for the given flags.
// --force cannot be combined with --skip.
func NewConflictResolver(force, skip bool) (*ConflictResolver, error) {
	if force && skip {
		return nil, fmt.Errorf("--force cannot be combined with --skip")
	}
	switch {
	case force:
		return &ConflictResolver{strategy: forceStrategy{}}, nil
	case skip:
		return &ConflictResolver{strategy: skipStrategy{}}, nil
	default:
		return &ConflictResolver{strategy: &interactiveStrategy{}}, nil
	}
}

// Resolve determines what to do with a file that already exists.
func (r *ConflictResolver) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return r.strategy.Resolve(path, existing, newer)
}

type forceStrategy struct{}

func (forceStrategy) Resolve(string, []byte, []byte) (ConflictResolution, error) {
	return Overwrite, nil
}

type skipStrategy struct{}

func (skipStrategy) Resolve(string, []byte, []byte) (ConflictResolution, error) {
	return Skip, nil
}

var (
	conflictWarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	conflictSelectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	conflictMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// interactiveStrategy presents a keyboard menu. Choosing "show diff"
// displays the diff and re-opens the menu, so the user can review more
// than once before deciding.
type interactiveStrategy struct{}

func (s *interactiveStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	for {
		model := newConflictMenu(path)
		p := tea.NewProgram(model)
		final, err := p.Run()
		if err != nil {
			return Cancel, fmt.Errorf("showing conflict menu: %w", err)
		}

		result := final.(conflictMenu)
		if result.choice == nil {
			return Cancel, nil
		}
		if *result.choice != ShowDiff {
			return *result.choice, nil
		}

		if err := showDiff(path, existing, newer); err != nil {
			return Cancel, err
		}
	}
}

func showDiff(path string, existing, newer []byte) error {
	diff := Diff(path, existing, newer)
	if strings.Count(diff, "\n") <= 20 {
		fmt.Println(diff)
		return nil
	}

	p := tea.NewProgram(diffPager{path: path, diff: diff}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("showing diff: %w", err)
	}
	return nil
}

// conflictMenu is the bubbletea model for the conflict prompt.
type conflictMenu struct {
	path    string
	size    int64
	cursor  int
	choices []string
	choice  *ConflictResolution
}

func newConflictMenu(path string) conflictMenu {
	var size int64
	if st, err := os.Stat(path); err == nil {
		size = st.Size()
	}
	return conflictMenu{
		path: path,
		size: size,
		choices: []string{
			"Show diff and decide",
			"Skip (keep existing file)",
			"Overwrite (replace with generated file)",
			"Cancel setup",
		},
	}
}

func (m conflictMenu) Init() tea.Cmd { return nil }

func (m conflictMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		resolutions := []ConflictResolution{ShowDiff, Skip, Overwrite, Cancel}
		m.choice = &resolutions[m.cursor]
		return m, tea.Quit
	}
	return m, nil
}

func (m conflictMenu) View() string {
	var b strings.Builder
	b.WriteString(conflictWarnStyle.Render("⚠  File already exists: ") + m.path + "\n")
	if m.size > 0 {
		b.WriteString(conflictMutedStyle.Render(fmt.Sprintf("    %d bytes on disk", m.size)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(conflictMutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + conflictSelectStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}
	return b.String()
}

// diffPager scrolls a long diff in an alt-screen viewport.
type diffPager struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func (m diffPager) Init() tea.Cmd { return nil }

func (m diffPager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.viewport.ScrollUp(1)
		case "down", "j":
			m.viewport.ScrollDown(1)
		case "pgup", "b":
			m.viewport.PageUp()
		case "pgdown", "f", "space":
			m.viewport.PageDown()
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-2)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 2
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffPager) View() string {
	if !m.ready {
		return "Loading diff..."
	}
	header := diffHeaderStyle.Render("Diff: " + m.path)
	footer := conflictMutedStyle.Render("[↑/↓] Scroll    [q] Back")
	return header + "\n" + m.viewport.View() + "\n" + footer
}
