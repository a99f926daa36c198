package history

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Picker lets the operator choose one of entries.
type Picker interface {
	// Pick returns the chosen entry, or ok=false when the operator backs out.
	Pick(ctx context.Context, entries []string) (choice string, ok bool, err error)
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "older")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "newer")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Back:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc/q", "back")),
}

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// visibleRows is the number of entries shown around the cursor.
const visibleRows = 10

type model struct {
	entries []string
	cursor  int
	chosen  bool
	done    bool
}

func newModel(entries []string) model {
	return model{entries: entries, cursor: len(entries) - 1}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(k, keys.Select):
		m.chosen = true
		m.done = true
		return m, tea.Quit
	case key.Matches(k, keys.Back):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return ""
	}
	start := max(0, m.cursor-visibleRows/2)
	end := min(len(m.entries), start+visibleRows)
	var b strings.Builder
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + m.entries[i]))
		} else {
			b.WriteString("  " + m.entries[i])
		}
		b.WriteByte('\n')
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s  %s  %s  %s",
		keys.Up.Help().Key+" "+keys.Up.Help().Desc,
		keys.Down.Help().Key+" "+keys.Down.Help().Desc,
		keys.Select.Help().Key+" "+keys.Select.Help().Desc,
		keys.Back.Help().Key+" "+keys.Back.Help().Desc,
	)))
	return b.String()
}

// TeaPicker runs the picker as a bubbletea program. The program owns raw
// terminal mode and restores the terminal on every exit path.
type TeaPicker struct {
	in  io.Reader
	out io.Writer
}

// NewTeaPicker returns a Picker reading keys from in and drawing to out.
func NewTeaPicker(in io.Reader, out io.Writer) *TeaPicker {
	return &TeaPicker{in: in, out: out}
}

// Pick implements Picker.
//
// Postcondition: ok is false when entries is empty or the operator backs out.
func (p *TeaPicker) Pick(ctx context.Context, entries []string) (string, bool, error) {
	if len(entries) == 0 {
		return "", false, nil
	}
	prog := tea.NewProgram(newModel(entries),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		return "", false, fmt.Errorf("history picker: %w", err)
	}
	m, ok := final.(model)
	if !ok || !m.chosen {
		return "", false, nil
	}
	return m.entries[m.cursor], true, nil
}
