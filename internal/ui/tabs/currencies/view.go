package currencies

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/r-ledesma/cambio/internal/models"
	"github.com/r-ledesma/cambio/internal/ui/styles"
)

const listColumns = 3

// View renders the currencies tab.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if !m.ready {
		b.WriteString(styles.HelpStyle.Render("  Loading currencies..."))
		return b.String()
	}

	b.WriteString(m.viewport.View())

	return b.String()
}

func (m *Model) renderHeader() string {
	symbols := m.visibleSymbols()
	total := m.state.SymbolCount()

	title := styles.TitleStyle.Render("Supported Currencies")

	var status string
	if m.filtering || m.filter.Value() != "" {
		status = fmt.Sprintf("  %s  %s", m.filter.View(),
			styles.HelpStyle.Render(fmt.Sprintf("%d of %d", len(symbols), total)))
	} else {
		status = "  " + styles.HelpStyle.Render(fmt.Sprintf("%d currencies · / to filter · R to refetch", total))
	}

	return title + "\n" + status
}

// refreshContent rebuilds the viewport content from the current filter.
func (m *Model) refreshContent() {
	if !m.ready {
		return
	}

	symbols := m.visibleSymbols()
	if len(symbols) == 0 {
		if m.state.SymbolCount() == 0 {
			m.viewport.SetContent(styles.HelpStyle.Render("  No currencies loaded yet."))
		} else {
			m.viewport.SetContent(styles.HelpStyle.Render("  No currencies match the filter."))
		}
		return
	}

	m.viewport.SetContent(renderColumns(symbols, m.width))
	m.viewport.GotoTop()
}

// renderColumns lays the currency list out in fixed-width columns, filling
// each column top to bottom before moving right.
func renderColumns(symbols []models.Symbol, width int) string {
	columns := listColumns
	colWidth := 0
	if width > 0 {
		colWidth = width / listColumns
		if colWidth < 24 {
			columns = max(width/24, 1)
			colWidth = width / columns
		}
	}
	if colWidth <= 0 {
		colWidth = 30
	}

	rows := (len(symbols) + columns - 1) / columns

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			idx := col*rows + row
			if idx >= len(symbols) {
				continue
			}
			s := symbols[idx]
			cell := fmt.Sprintf("%s  %s",
				styles.CodeStyle.Render(s.Code),
				truncate(s.Description, colWidth-8))
			b.WriteString(padRight(cell, colWidth))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// padRight pads a styled cell to colWidth using its visible width.
func padRight(cell string, colWidth int) string {
	visible := lipgloss.Width(cell)
	if visible >= colWidth {
		return cell
	}
	return cell + strings.Repeat(" ", colWidth-visible)
}
