package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static tabular data with the shared styles.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	styles  Styles
}

// NewTable creates a Table with the given title and headers.
func NewTable(title string, headers []string) *Table {
	return &Table{
		Title:   title,
		Headers: headers,
		styles:  DefaultStyles(),
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table.
func (t *Table) View() string {
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(t.styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}
	if len(t.Rows) == 0 {
		sb.WriteString(t.styles.Muted.Render("(no results)"))
		return sb.String()
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	headerStyle := t.styles.Header.Padding(0, 1)
	rowStyle := t.styles.Row.Padding(0, 1)

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Width(widths[i] + 2).Render(h))
	}
	sb.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(t.styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				sb.WriteString(rowStyle.Width(widths[i] + 2).Render(cell))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
