package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abdidvp/themecheck/internal/adapters/outbound/scanner"
	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
	"github.com/abdidvp/themecheck/internal/domain/checks"
)

// writeTheme lays files out under a temporary theme root.
func writeTheme(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func scanTheme(t *testing.T, root string) *domain.Theme {
	t.Helper()
	theme, err := scanner.New().Scan(root, nil)
	require.NoError(t, err)
	return theme
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(data)
}

func patternCheck(t *testing.T, name, pattern string, replacement *string) domain.Check {
	t.Helper()
	r, err := checks.PatternSpec{Name: name, Pattern: pattern, Message: name, Replacement: replacement}.Registration()
	require.NoError(t, err)
	c, err := r.Build(nil)
	require.NoError(t, err)
	return c
}

func builtin(t *testing.T, ctor domain.Constructor) domain.Check {
	t.Helper()
	c, err := ctor(nil)
	require.NoError(t, err)
	return c
}

func ptr(s string) *string { return &s }

// hookCheck is a template check assembled from a visitor in tests.
type hookCheck struct {
	domain.CheckBase
	visitor *domain.Visitor
}

func newHookCheck(name string, v *domain.Visitor) *hookCheck {
	return &hookCheck{CheckBase: domain.NewCheckBase(name, domain.CategoryLiquid), visitor: v}
}

func (c *hookCheck) Visitor() *domain.Visitor { return c.visitor }

// themeHook is a theme check calling fn.
type themeHook struct {
	domain.CheckBase
	fn func(theme *domain.Theme, offenses []domain.Offense, r *domain.ThemeReporter)
}

func (c *themeHook) CheckTheme(theme *domain.Theme, offenses []domain.Offense, r *domain.ThemeReporter) {
	c.fn(theme, offenses, r)
}

func nodeLabel(n *ast.Node) string {
	if n.Name != "" {
		return n.Kind.String() + ":" + n.Name
	}
	return n.Kind.String()
}
