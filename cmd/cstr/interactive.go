package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	widthStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	unitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxShownUnits limits how many units a row prints before eliding.
const maxShownUnits = 12

var widths = []int{8, 16, 32}

type widthRow struct {
	err    error
	report *report
	width  int
}

type interactiveModel struct {
	input    textinput.Model
	rows     []widthRow
	selected int
}

func newInteractiveModel(initial string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "type some text"
	ti.Prompt = "text: "
	ti.Width = 48
	ti.SetValue(initial)
	ti.Focus()

	m := &interactiveModel{input: ti}
	m.refresh()
	return m
}

func (m *interactiveModel) refresh() {
	text := m.input.Value()
	m.rows = m.rows[:0]
	for _, w := range widths {
		row := widthRow{width: w}
		switch w {
		case 8:
			row.report, row.err = encodeReport[uint8](text, 0)
		case 16:
			row.report, row.err = encodeReport[uint16](text, 0)
		default:
			row.report, row.err = encodeReport[uint32](text, 0)
		}
		m.rows = append(m.rows, row)
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.selected = (m.selected + 1) % len(widths)
			return m, nil
		case "shift+tab":
			m.selected = (m.selected + len(widths) - 1) % len(widths)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("C String Inspector"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, row := range m.rows {
		label := fmt.Sprintf("%2d-bit", row.width)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString(widthStyle.Render("  " + label))
		}
		b.WriteString("  ")
		if row.err != nil {
			b.WriteString(errorStyle.Render(row.err.Error()))
		} else {
			b.WriteString(unitStyle.Render(formatRow(row.report.Units)))
		}
		b.WriteString("\n")
	}

	if sel := m.rows[m.selected]; sel.err == nil {
		r := sel.report
		fmt.Fprintf(&b, "\nlength %d  capacity %d  bytes %d (with nul %d)\n",
			r.Length, r.Capacity, r.Length*sel.width/8, (r.Length+1)*sel.width/8)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab switch width • esc quit"))
	return b.String()
}

func formatRow(units []string) string {
	if len(units) == 0 {
		return "(empty)"
	}
	if len(units) > maxShownUnits {
		return strings.Join(units[:maxShownUnits], " ") + fmt.Sprintf(" … +%d", len(units)-maxShownUnits)
	}
	return strings.Join(units, " ")
}

func runInteractive(initial string) error {
	p := tea.NewProgram(newInteractiveModel(initial))
	_, err := p.Run()
	return err
}
