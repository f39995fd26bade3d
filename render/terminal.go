package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0D9488")).MarginBottom(1)
	headingStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	subHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	quoteStyle      = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#6B7280")).
			BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).PaddingLeft(1)
	bulletStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0D9488"))
)

// Terminal renders blocks for a terminal, one output line per block.
func Terminal(blocks []Block) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch b.Kind {
		case KindTitle:
			sb.WriteString(titleStyle.Render(b.Text))
		case KindHeading:
			sb.WriteString(headingStyle.Render(b.Text))
		case KindSubHeading:
			sb.WriteString(subHeadingStyle.Render(b.Text))
		case KindListItem:
			sb.WriteString(bulletStyle.Render("•") + " " + strings.TrimSpace(b.Text))
		case KindQuote:
			sb.WriteString(quoteStyle.Render(b.Text))
		case KindSpacer:
			// blank line
		default:
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}
