package tui

import (
	"strings"

	"github.com/abdidvp/themecheck/internal/domain"
)

// RenderCheckList lists check names, one per line.
func RenderCheckList(checks []domain.Check) string {
	var b strings.Builder
	for _, c := range checks {
		b.WriteString(c.Name())
		b.WriteString("\n")
	}
	return b.String()
}
