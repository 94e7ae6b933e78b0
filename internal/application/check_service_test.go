package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/themecheck/internal/adapters/outbound/config"
	"github.com/abdidvp/themecheck/internal/adapters/outbound/parser"
	"github.com/abdidvp/themecheck/internal/adapters/outbound/plugin"
	"github.com/abdidvp/themecheck/internal/adapters/outbound/scanner"
	"github.com/abdidvp/themecheck/internal/application"
	"github.com/abdidvp/themecheck/internal/domain"
)

func newThemeCheckService(t *testing.T) *application.ThemeCheckService {
	t.Helper()
	defaults, err := config.Default()
	require.NoError(t, err)
	return application.NewThemeCheckService(
		config.New(defaults, plugin.New(), nil),
		scanner.New(),
		parser.New(),
		nil,
	)
}

func checkNames(checks []domain.Check) []string {
	out := make([]string, len(checks))
	for i, c := range checks {
		out[i] = c.Name()
	}
	return out
}

func TestThemeCheckService_Run(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"templates/index.liquid":  "{% render 'icon' %}{{x}}",
		"snippets/icon.liquid":    "<svg/>",
		"locales/en.default.json": `{"a": "b"}`,
	})
	svc := newThemeCheckService(t)

	report, err := svc.Run(context.Background(), root, application.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, root, report.Root)
	assert.Equal(t, 3, report.Files)
	assert.Len(t, report.Checks, 9)
	assert.Len(t, report.Offenses, 2)
	assert.Len(t, report.Uncorrectable, 2)
	assert.Empty(t, report.Corrected)
}

func TestThemeCheckService_NoTemplates(t *testing.T) {
	root := writeTheme(t, map[string]string{"locales/en.default.json": "{}"})
	svc := newThemeCheckService(t)

	_, err := svc.Run(context.Background(), root, application.RunOptions{})
	assert.ErrorIs(t, err, application.ErrNoTemplates)
}

func TestThemeCheckService_CategoryFilters(t *testing.T) {
	root := writeTheme(t, map[string]string{"templates/index.liquid": ""})
	svc := newThemeCheckService(t)

	_, checks, err := svc.Prepare(root, application.RunOptions{
		OnlyCategories: []domain.Category{domain.CategoryJSON, domain.CategoryTranslation},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ValidJSON", "MatchingTranslations"}, checkNames(checks))

	_, checks, err = svc.Prepare(root, application.RunOptions{
		ExcludeCategories: []domain.Category{domain.CategoryLiquid},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ValidJSON", "MatchingTranslations"}, checkNames(checks))
}

func TestThemeCheckService_ConfigDisablesChecks(t *testing.T) {
	root := writeTheme(t, map[string]string{
		".theme-check.yml":       "SpaceInsideBraces:\n  enabled: false\n",
		"templates/index.liquid": "{{x}}",
	})
	svc := newThemeCheckService(t)

	report, err := svc.Run(context.Background(), root, application.RunOptions{})
	require.NoError(t, err)
	assert.NotContains(t, checkNames(report.Checks), "SpaceInsideBraces")
	assert.Empty(t, report.Offenses)
}

func TestThemeCheckService_ConstructionErrorAborts(t *testing.T) {
	root := writeTheme(t, map[string]string{
		".theme-check.yml":       "TemplateLength:\n  max_length: -1\n",
		"templates/index.liquid": "",
	})
	svc := newThemeCheckService(t)

	_, err := svc.Run(context.Background(), root, application.RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constructing TemplateLength")
}

func TestThemeCheckService_AutoCorrect(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"templates/index.liquid": "{% include 'icon' %}{{x}}",
		"snippets/icon.liquid":   "<svg/>",
	})
	svc := newThemeCheckService(t)

	report, err := svc.Run(context.Background(), root, application.RunOptions{AutoCorrect: true})
	require.NoError(t, err)

	assert.Len(t, report.Corrected, 3)
	assert.Empty(t, report.Uncorrectable)
	assert.Equal(t, "{% render 'icon' %}{{ x }}", readFile(t, root, "templates/index.liquid"))
}

func TestThemeCheckService_RequiredPlugin(t *testing.T) {
	root := writeTheme(t, map[string]string{
		".theme-check.yml": "require:\n  - checks/custom.yml\nNoTodo:\n  enabled: true\n",
		"checks/custom.yml": "checks:\n  - name: NoTodo\n    pattern: TODO\n    message: Resolve TODO\n",
		"templates/index.liquid": "{{ a }} TODO",
	})
	svc := newThemeCheckService(t)

	report, err := svc.Run(context.Background(), root, application.RunOptions{})
	require.NoError(t, err)

	assert.Contains(t, checkNames(report.Checks), "NoTodo")
	require.Len(t, report.Offenses, 1)
	assert.Equal(t, "Resolve TODO", report.Offenses[0].Message)
}

func TestThemeCheckService_IgnorePatterns(t *testing.T) {
	root := writeTheme(t, map[string]string{
		".theme-check.yml":         "ignore:\n  - snippets/vendor/\n",
		"templates/index.liquid":   "{{ a }}",
		"snippets/vendor/x.liquid": "{{x}}",
	})
	svc := newThemeCheckService(t)

	report, err := svc.Run(context.Background(), root, application.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
	assert.Empty(t, report.Offenses)
}
