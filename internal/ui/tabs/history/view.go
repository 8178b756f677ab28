package history

import (
	"fmt"
	"strings"

	"github.com/r-ledesma/cambio/internal/ui/components"
	"github.com/r-ledesma/cambio/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	records := m.displayRecords()

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Conversion History"))
	b.WriteString("\n")
	b.WriteString("  " + styles.HelpStyle.Render(fmt.Sprintf("last %d conversions · newest first", len(records))))
	b.WriteString("\n\n")

	if len(records) == 0 {
		b.WriteString(styles.HelpStyle.Render("  No conversions yet. Make one from the Convert tab."))
		return b.String()
	}

	for i, r := range records {
		line := fmt.Sprintf("%s  %s",
			styles.HelpStyle.Render(r.Timestamp.Format("2006-01-02 15:04")),
			r.String())
		if i == m.cursor {
			b.WriteString(styles.SelectedListItemStyle.Render("> " + line))
		} else {
			b.WriteString(styles.ListItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.showChart && len(records) >= 2 {
		b.WriteString("\n")
		b.WriteString(m.renderChart())
	}

	return b.String()
}

// renderChart plots the converted amounts in chronological order.
func (m *Model) renderChart() string {
	records := m.state.GetRecords()

	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Result
	}

	chartWidth := max(m.width-10, 20)
	chart := components.RenderLineChart(values, chartWidth, 8, "Converted amounts (oldest to newest)")

	return styles.CardStyle.Render(chart)
}
