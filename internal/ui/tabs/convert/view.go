package convert

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/r-ledesma/cambio/internal/ui/styles"
)

var fieldLabels = [fieldCount]string{"From", "To", "Amount"}

// View renders the convert tab.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderForm())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(styles.ErrorTextStyle.Render("  " + m.errMsg))
		b.WriteString("\n")
	}

	if m.converting {
		b.WriteString("  " + m.spinner.ViewWithLabel())
		b.WriteString("\n")
	}

	if result := m.renderResult(); result != "" {
		b.WriteString("\n")
		b.WriteString(result)
		b.WriteString("\n")
	}

	content := styles.DocStyle.Render(b.String())

	if m.width > 0 {
		return lipgloss.Place(m.width, lipgloss.Height(content), lipgloss.Left, lipgloss.Top, content)
	}

	return content
}

func (m *Model) renderForm() string {
	var rows []string

	title := styles.CardTitleStyle.Render("Convert an amount")
	rows = append(rows, title, "")

	for i, input := range m.inputs {
		label := fieldLabels[i]
		labelStyle := styles.BlurredStyle
		cursor := " "
		if m.editing && m.focusIndex == i {
			labelStyle = styles.FocusedStyle
			cursor = ">"
		}
		rows = append(rows, fmt.Sprintf("%s %s %s",
			labelStyle.Render(cursor),
			labelStyle.Width(8).Render(label),
			input.View()))
	}

	rows = append(rows, "")
	if m.editing {
		rows = append(rows, styles.HelpStyle.Render("enter on Amount converts · ctrl+s swaps · esc leaves the form"))
	} else {
		rows = append(rows, styles.HelpStyle.Render("press e to edit the form"))
	}

	return styles.CardStyle.Render(strings.Join(rows, "\n"))
}

func (m *Model) renderResult() string {
	record := m.state.GetLastConversion()
	if record == nil {
		return ""
	}

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Last conversion"))
	rows = append(rows, "")
	rows = append(rows, styles.ResultStyle.Render(fmt.Sprintf("%.2f %s = %.2f %s",
		record.Amount, record.From, record.Result, record.To)))
	rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("rate %.6f · %s",
		record.Rate, record.Timestamp.Format("2006-01-02 15:04:05"))))

	return styles.CardStyle.Render(strings.Join(rows, "\n"))
}
