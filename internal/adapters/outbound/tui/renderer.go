package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/themecheck/internal/application"
	"github.com/abdidvp/themecheck/internal/domain"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	dimStyle       = lipgloss.NewStyle().Foreground(dim)
	passStyle      = lipgloss.NewStyle().Foreground(success)
	failStyle      = lipgloss.NewStyle().Foreground(danger)
	fileStyle      = lipgloss.NewStyle().Foreground(dim)
	checkNameStyle = lipgloss.NewStyle().Bold(true).Foreground(fg)
	correctedStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	reasonStyle    = lipgloss.NewStyle().Foreground(warning).Italic(true)
	summaryStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

// RenderReport renders the offenses of a run, one per line, followed by a
// summary line.
func RenderReport(report *application.Report) string {
	var b strings.Builder

	for _, o := range report.Offenses {
		renderOffense(&b, o)
	}
	if len(report.Offenses) > 0 {
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("%d files inspected, %d offenses detected", report.Files, len(report.Offenses))
	if len(report.Corrected) > 0 {
		summary += fmt.Sprintf(", %d corrected", len(report.Corrected))
	}
	if len(report.Uncorrectable) == 0 {
		b.WriteString(passStyle.Render(summary))
	} else {
		b.WriteString(summaryStyle.Render(summary))
	}
	b.WriteString("\n")
	return b.String()
}

func renderOffense(b *strings.Builder, o domain.Offense) {
	icon := failStyle.Render("●")
	if o.Status == domain.StatusCorrected {
		icon = passStyle.Render("●")
	}
	fmt.Fprintf(b, "%s %s %s %s",
		icon,
		fileStyle.Render(fmt.Sprintf("%s:%d:", o.File, o.Line)),
		checkNameStyle.Render(o.Check+":"),
		o.Message,
	)
	switch o.Status {
	case domain.StatusCorrected:
		b.WriteString(" " + correctedStyle.Render("[corrected]"))
	case domain.StatusUncorrectable:
		b.WriteString(" " + reasonStyle.Render("("+o.Reason+")"))
	}
	b.WriteString("\n")
}

// RenderBanner is printed before analysis starts.
func RenderBanner(root string) string {
	return dimStyle.Render(fmt.Sprintf("Checking %s ...", root)) + "\n"
}
