package checks

import (
	"github.com/abdidvp/themecheck/internal/domain"
)

// UnusedSnippet reports snippets that no template renders or includes.
// Nothing is reported once any template renders a snippet by variable,
// since any snippet could then be in use.
type UnusedSnippet struct {
	domain.CheckBase
}

func NewUnusedSnippet(opts domain.Options) (domain.Check, error) {
	if err := noOptions(opts); err != nil {
		return nil, err
	}
	return &UnusedSnippet{CheckBase: domain.NewCheckBase("UnusedSnippet", domain.CategoryLiquid)}, nil
}

func (c *UnusedSnippet) CheckTheme(theme *domain.Theme, _ []domain.Offense, r *domain.ThemeReporter) {
	used := make(map[string]bool)
	for _, ref := range references(theme) {
		if ref.node.Name == "section" {
			continue
		}
		if ref.target == "" {
			return
		}
		used[ref.target] = true
	}
	for _, snippet := range theme.Snippets() {
		if !used[snippet.Name()] {
			r.Report(&snippet.SourceFile, 0, 0, "This snippet is not used")
		}
	}
}
