package application_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/themecheck/internal/adapters/outbound/parser"
	"github.com/abdidvp/themecheck/internal/application"
	"github.com/abdidvp/themecheck/internal/domain"
	"github.com/abdidvp/themecheck/internal/domain/ast"
	"github.com/abdidvp/themecheck/internal/domain/checks"
)

func correct(t *testing.T, root string, checksList ...domain.Check) *application.Analyzer {
	t.Helper()
	a := application.NewAnalyzer(scanTheme(t, root), checksList, parser.New(), true, nil)
	require.NoError(t, a.AnalyzeTheme(context.Background()))
	require.NoError(t, a.CorrectOffenses(context.Background()))
	return a
}

func reanalyze(t *testing.T, root string, checksList ...domain.Check) []domain.Offense {
	t.Helper()
	a := application.NewAnalyzer(scanTheme(t, root), checksList, parser.New(), false, nil)
	require.NoError(t, a.AnalyzeTheme(context.Background()))
	return a.Offenses()
}

func TestCorrectOffenses_Converges(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"templates/index.liquid": "<p>{{x}}</p>\n",
	})
	c := builtin(t, checks.NewSpaceInsideBraces)

	a := correct(t, root, c)

	assert.Equal(t, "<p>{{ x }}</p>\n", readFile(t, root, "templates/index.liquid"))
	assert.Len(t, a.CorrectedOffenses(), 2)
	assert.Empty(t, a.UncorrectableOffenses())
	for _, o := range a.Offenses() {
		assert.Equal(t, domain.StatusCorrected, o.Status)
	}
	assert.Empty(t, reanalyze(t, root, c))
}

func TestCorrectOffenses_MultiplePassesForOverlaps(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"templates/index.liquid": "foo bar",
	})
	first := patternCheck(t, "FooBar", "foo bar", ptr("foo baz"))
	second := patternCheck(t, "Bar", "bar", ptr("qux"))

	a := correct(t, root, first, second)

	// FooBar wins the first pass; Bar no longer matches afterwards.
	assert.Equal(t, "foo baz", readFile(t, root, "templates/index.liquid"))
	require.Len(t, a.CorrectedOffenses(), 1)
	assert.Equal(t, "FooBar", a.CorrectedOffenses()[0].Check)
	assert.Empty(t, a.UncorrectableOffenses())
}

func TestCorrectOffenses_DeferredCorrectionRunsNextPass(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"templates/index.liquid": "abc",
	})
	wide := patternCheck(t, "Wide", "abc", ptr("ABC"))
	narrow := patternCheck(t, "Narrow", "b", ptr("x"))
	upper := patternCheck(t, "Upper", "B", ptr("!"))

	a := correct(t, root, wide, narrow, upper)

	// Narrow conflicts with Wide and is deferred, then no longer matches.
	// Upper only matches once Wide has run.
	assert.Equal(t, "A!C", readFile(t, root, "templates/index.liquid"))
	assert.Len(t, a.CorrectedOffenses(), 2)
}

func TestCorrectOffenses_OverlappingCorrectionsKeepTemplateParsing(t *testing.T) {
	src := "{{x}} {%assign y = 1%}{{ y }}"
	root := writeTheme(t, map[string]string{"templates/index.liquid": src})
	checksList := []domain.Check{
		builtin(t, checks.NewSpaceInsideBraces),
		patternCheck(t, "AssignToCapture", `\{%assign y = 1%\}`, ptr("{% assign y = 2 %}")),
	}

	a := correct(t, root, checksList...)

	out := readFile(t, root, "templates/index.liquid")
	_, err := parser.New().Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "{{ x }} {% assign y = 2 %}{{ y }}", out)
	assert.Empty(t, a.UncorrectableOffenses())
}

func TestCorrectOffenses_SyntaxErrorIsReverted(t *testing.T) {
	src := "{{ a }} and {{ b }}"
	root := writeTheme(t, map[string]string{"templates/index.liquid": src})
	breaker := patternCheck(t, "Breaker", "and", ptr("{% if %}"))

	a := correct(t, root, breaker)

	assert.Equal(t, src, readFile(t, root, "templates/index.liquid"))
	uncorrectable := a.UncorrectableOffenses()
	require.Len(t, uncorrectable, 1)
	assert.Equal(t, domain.StatusUncorrectable, uncorrectable[0].Status)
	assert.Equal(t, domain.ReasonSyntaxError, uncorrectable[0].Reason)
	assert.Empty(t, a.CorrectedOffenses())
}

func TestCorrectOffenses_RecurringOffenseIsReverted(t *testing.T) {
	src := "{{ a }} todo"
	root := writeTheme(t, map[string]string{"templates/index.liquid": src})
	noop := patternCheck(t, "Todo", "todo", ptr("todo"))

	a := correct(t, root, noop)

	assert.Equal(t, src, readFile(t, root, "templates/index.liquid"))
	uncorrectable := a.UncorrectableOffenses()
	require.Len(t, uncorrectable, 1)
	assert.Equal(t, domain.ReasonUnresolved, uncorrectable[0].Reason)
}

func TestCorrectOffenses_FailedCorrectionDoesNotBlockOthers(t *testing.T) {
	src := "{{x}} todo"
	root := writeTheme(t, map[string]string{"templates/index.liquid": src})
	checksList := []domain.Check{
		builtin(t, checks.NewSpaceInsideBraces),
		patternCheck(t, "Todo", "todo", ptr("todo")),
	}

	a := correct(t, root, checksList...)

	assert.Equal(t, "{{ x }} todo", readFile(t, root, "templates/index.liquid"))
	assert.Len(t, a.CorrectedOffenses(), 2)
	uncorrectable := a.UncorrectableOffenses()
	require.Len(t, uncorrectable, 1)
	assert.Equal(t, "Todo", uncorrectable[0].Check)
	assert.Equal(t, domain.ReasonUnresolved, uncorrectable[0].Reason)
}

func TestCorrectOffenses_DivergenceIsFatal(t *testing.T) {
	root := writeTheme(t, map[string]string{"templates/index.liquid": "x"})
	grow := newHookCheck("Grow", domain.NewVisitor().OnEnter(ast.KindDocument, func(c *domain.Context, _ *ast.Node) {
		n := len(c.Document.Source)
		c.ReportRange(n, n, fmt.Sprintf("grow %d", n), domain.Edit{Start: n, End: n, NewText: "x"})
	}))

	a := application.NewAnalyzer(scanTheme(t, root), []domain.Check{grow}, parser.New(), true, nil)
	require.NoError(t, a.AnalyzeTheme(context.Background()))

	err := a.CorrectOffenses(context.Background())
	assert.ErrorIs(t, err, application.ErrCorrectionDiverged)
}

func TestCorrectOffenses_ManyTemplatesConcurrently(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 16; i++ {
		files[fmt.Sprintf("snippets/s%02d.liquid", i)] = "{{x}}{% include 'y' %}"
	}
	root := writeTheme(t, files)
	checksList := []domain.Check{
		builtin(t, checks.NewSpaceInsideBraces),
		builtin(t, checks.NewConvertIncludeToRender),
	}

	a := correct(t, root, checksList...)

	assert.Len(t, a.CorrectedOffenses(), 16*3)
	assert.Empty(t, a.UncorrectableOffenses())
	for rel := range files {
		assert.Equal(t, "{{ x }}{% render 'y' %}", readFile(t, root, rel))
	}
}

func TestCorrectOffenses_ThemeChecksRerunAfterCorrection(t *testing.T) {
	root := writeTheme(t, map[string]string{
		"templates/index.liquid": "{% render 'missing' %}",
		"snippets/icon.liquid":   "",
	})
	checksList := []domain.Check{
		patternCheck(t, "Rename", "missing", ptr("icon")),
		builtin(t, checks.NewMissingTemplate),
		builtin(t, checks.NewUnusedSnippet),
	}

	a := application.NewAnalyzer(scanTheme(t, root), checksList, parser.New(), true, nil)
	require.NoError(t, a.AnalyzeTheme(context.Background()))

	var before []string
	for _, o := range a.Offenses() {
		before = append(before, o.Check)
	}
	assert.ElementsMatch(t, []string{"Rename", "MissingTemplate", "UnusedSnippet"}, before)

	require.NoError(t, a.CorrectOffenses(context.Background()))
	assert.Empty(t, a.UncorrectableOffenses())
	assert.Len(t, a.CorrectedOffenses(), 1)
}

func TestCorrectOffenses_LongDependentChainConverges(t *testing.T) {
	var b strings.Builder
	b.WriteString("{% assign a0 = 1 %}")
	for i := 1; i < 12; i++ {
		fmt.Fprintf(&b, "{%% assign a%d = a%d %%}", i, i-1)
	}
	root := writeTheme(t, map[string]string{"templates/index.liquid": b.String()})

	a := correct(t, root, builtin(t, checks.NewUnusedAssign))

	assert.Equal(t, "", readFile(t, root, "templates/index.liquid"))
	assert.Len(t, a.CorrectedOffenses(), 12)
	assert.Empty(t, a.UncorrectableOffenses())
}

func TestCorrectOffenses_OpposingCorrectionsSettle(t *testing.T) {
	root := writeTheme(t, map[string]string{"templates/index.liquid": "foo"})
	forward := patternCheck(t, "Forward", "foo", ptr("bar"))
	backward := patternCheck(t, "Backward", "bar", ptr("foo"))

	a := correct(t, root, forward, backward)

	assert.Equal(t, "bar", readFile(t, root, "templates/index.liquid"))
	corrected := a.CorrectedOffenses()
	require.Len(t, corrected, 1)
	assert.Equal(t, "Forward", corrected[0].Check)
	uncorrectable := a.UncorrectableOffenses()
	require.Len(t, uncorrectable, 1)
	assert.Equal(t, "Backward", uncorrectable[0].Check)
	assert.Equal(t, domain.ReasonUnresolved, uncorrectable[0].Reason)
}
