package checks

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/abdidvp/themecheck/internal/domain"
)

// MatchingTranslations compares every locale file against the default
// locale (locales/*.default.json) and reports missing and extra keys.
type MatchingTranslations struct {
	domain.CheckBase
}

func NewMatchingTranslations(opts domain.Options) (domain.Check, error) {
	if err := noOptions(opts); err != nil {
		return nil, err
	}
	return &MatchingTranslations{CheckBase: domain.NewCheckBase("MatchingTranslations", domain.CategoryTranslation)}, nil
}

func (c *MatchingTranslations) CheckTheme(theme *domain.Theme, _ []domain.Offense, r *domain.ThemeReporter) {
	var def *domain.JSONFile
	var locales []*domain.JSONFile
	for _, f := range theme.JSONFiles {
		if path.Dir(f.RelativePath) != "locales" || strings.HasSuffix(f.RelativePath, ".schema.json") {
			continue
		}
		if strings.HasSuffix(f.RelativePath, ".default.json") {
			def = f
		} else {
			locales = append(locales, f)
		}
	}
	if def == nil {
		return
	}
	content, err := def.Content()
	if err != nil {
		return
	}
	want := flattenKeys(content, "")

	for _, f := range locales {
		content, err := f.Content()
		if err != nil {
			continue
		}
		have := flattenKeys(content, "")
		if missing := difference(want, have); len(missing) > 0 {
			r.Report(&f.SourceFile, 0, 0, fmt.Sprintf("Missing translation keys: %s", strings.Join(missing, ", ")))
		}
		if extra := difference(have, want); len(extra) > 0 {
			r.Report(&f.SourceFile, 0, 0, fmt.Sprintf("Extra translation keys: %s", strings.Join(extra, ", ")))
		}
	}
}

func flattenKeys(v any, prefix string) map[string]bool {
	out := make(map[string]bool)
	m, ok := v.(map[string]any)
	if !ok {
		if prefix != "" {
			out[prefix] = true
		}
		return out
	}
	for k, child := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		for ck := range flattenKeys(child, key) {
			out[ck] = true
		}
	}
	return out
}

// difference returns the sorted keys of a that are not in b.
func difference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
