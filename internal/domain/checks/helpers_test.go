package checks_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abdidvp/themecheck/internal/adapters/outbound/parser"
	"github.com/abdidvp/themecheck/internal/application"
	"github.com/abdidvp/themecheck/internal/domain"
)

// newTheme builds an in-memory theme from relative path -> source.
func newTheme(files map[string]string) *domain.Theme {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	theme := &domain.Theme{Root: "/theme"}
	for _, p := range paths {
		if strings.HasSuffix(p, ".json") {
			theme.JSONFiles = append(theme.JSONFiles, domain.NewJSONFile("/theme/"+p, p, files[p]))
		} else {
			theme.Templates = append(theme.Templates, domain.NewTemplate("/theme/"+p, p, files[p]))
		}
	}
	return theme
}

func build(t *testing.T, ctor domain.Constructor, opts domain.Options) domain.Check {
	t.Helper()
	c, err := ctor(opts)
	require.NoError(t, err)
	return c
}

func analyze(t *testing.T, files map[string]string, checks ...domain.Check) []domain.Offense {
	t.Helper()
	a := application.NewAnalyzer(newTheme(files), checks, parser.New(), false, nil)
	require.NoError(t, a.AnalyzeTheme(context.Background()))
	return a.Offenses()
}

func messages(offenses []domain.Offense) []string {
	out := make([]string, len(offenses))
	for i, o := range offenses {
		out[i] = o.Message
	}
	return out
}

// applyCorrections applies the edits of every offense to src, last first.
func applyCorrections(src string, offenses []domain.Offense) string {
	var edits []domain.Edit
	for _, o := range offenses {
		if o.Correction != nil {
			edits = append(edits, o.Correction.Edits...)
		}
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start > edits[j].Start })
	for _, e := range edits {
		src = src[:e.Start] + e.NewText + src[e.End:]
	}
	return src
}
