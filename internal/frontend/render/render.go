// Package render draws the roster as a terminal table.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/cory-johannsen/tracker/internal/game/session"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	playerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	enemyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// ClearScreen homes the cursor and erases the terminal.
const ClearScreen = ansi.CursorHomePosition + ansi.EraseEntireScreen

// Columns are the table headers in display order.
var Columns = []string{"#", "Name", "Init", "HP", "AC", "Mod", "Type", "Lock"}

const lockMarker = "*"

// Table renders the round header and roster of st.
//
// Postcondition: Returns one row per combatant in turn order.
func Table(st *session.State) string {
	combatants := st.Roster.Combatants()
	rows := make([][]string, 0, len(combatants))
	kinds := make([]lipgloss.Style, 0, len(combatants))
	for i, c := range combatants {
		lock := ""
		if c.Locked {
			lock = lockMarker
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Name,
			strconv.Itoa(c.RollResult),
			strconv.Itoa(c.Health),
			strconv.Itoa(c.ArmorClass),
			fmt.Sprintf("%+d", c.InitMod),
			c.Type,
			lock,
		})
		switch {
		case c.Health <= 0:
			kinds = append(kinds, downStyle)
		case st.Players.Has(c.Name):
			kinds = append(kinds, playerStyle)
		default:
			kinds = append(kinds, enemyStyle)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderHeader(true).
		BorderRow(false).
		Headers(Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Inherit(cellStyle)
			}
			if row < 0 || row >= len(kinds) {
				return cellStyle
			}
			return kinds[row].Inherit(cellStyle)
		})

	title := titleStyle.Render(fmt.Sprintf("Round %d", st.Round))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render())
}

// Screen draws the table to a terminal.
type Screen struct {
	out   io.Writer
	clear bool
}

// NewScreen returns a Screen writing to out. When clear is set every draw
// erases the terminal first.
func NewScreen(out io.Writer, clear bool) *Screen {
	return &Screen{out: out, clear: clear}
}

// Draw writes the table for st.
func (s *Screen) Draw(st *session.State) error {
	if s.clear {
		if _, err := io.WriteString(s.out, ClearScreen); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(s.out, Table(st))
	return err
}
