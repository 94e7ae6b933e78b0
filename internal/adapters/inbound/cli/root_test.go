package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/themecheck/internal/adapters/inbound/cli"
)

func writeTheme(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := cli.ExecuteArgs(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_CleanTheme(t *testing.T) {
	dir := writeTheme(t, map[string]string{
		"templates/index.liquid": "{{ product.title }}\n",
	})

	out, _, err := run(dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Checking "+dir+" ...")
	assert.Contains(t, out, "1 files inspected, 0 offenses detected")
}

func TestRootCommand_OffensesFail(t *testing.T) {
	dir := writeTheme(t, map[string]string{
		"templates/index.liquid": "{% assign x = 1 %}\n",
	})

	out, stderr, err := run(dir)
	require.Error(t, err)

	var abort *cli.AbortError
	require.ErrorAs(t, err, &abort)
	assert.Empty(t, abort.Message)
	assert.Empty(t, stderr)
	assert.Contains(t, out, "templates/index.liquid:1: UnusedAssign: `x` is never used")
	assert.Contains(t, out, "1 offenses detected")
}

func TestRootCommand_AutoCorrect(t *testing.T) {
	dir := writeTheme(t, map[string]string{
		"templates/index.liquid": "{{x}}\n",
	})

	out, _, err := run(dir, "-a")
	require.NoError(t, err)
	assert.Contains(t, out, "[corrected]")
	assert.Contains(t, out, "2 corrected")

	data, err := os.ReadFile(filepath.Join(dir, "templates/index.liquid"))
	require.NoError(t, err)
	assert.Equal(t, "{{ x }}\n", string(data))
}

func TestRootCommand_Categories(t *testing.T) {
	dir := writeTheme(t, map[string]string{
		"templates/index.liquid": "{{x}}\n",
	})

	_, _, err := run(dir, "-x", "liquid")
	assert.NoError(t, err)

	_, _, err = run(dir, "--category", "json")
	assert.NoError(t, err)

	_, _, err = run(dir, "--category", "liquid")
	assert.Error(t, err)
}

func TestRootCommand_ExcludedCategoryHidesParseFailures(t *testing.T) {
	dir := writeTheme(t, map[string]string{
		"templates/broken.liquid": "{% if x %}\n",
	})

	_, _, err := run(dir)
	require.Error(t, err)

	out, _, err := run(dir, "-x", "liquid")
	require.NoError(t, err)
	assert.NotContains(t, out, "SyntaxError")
	assert.Contains(t, out, "1 files inspected, 0 offenses detected")
}

func TestRootCommand_List(t *testing.T) {
	dir := writeTheme(t, map[string]string{
		".theme-check.yml": "UnusedSnippet:\n  enabled: false\n",
	})

	out, _, err := run(dir, "-l")
	require.NoError(t, err)
	assert.Contains(t, out, "SyntaxError\n")
	assert.Contains(t, out, "TemplateLength\n")
	assert.NotContains(t, out, "UnusedSnippet")
	assert.NotContains(t, out, "Checking")
}

func TestRootCommand_JSON(t *testing.T) {
	dir := writeTheme(t, map[string]string{
		"templates/index.liquid": "{% include 'card' %}\n",
		"snippets/card.liquid":   "card\n",
	})

	out, _, err := run(dir, "--json")
	require.Error(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result), "output should be valid JSON")
	assert.Contains(t, result, "offenses")
	assert.Contains(t, result, "summary")
}

func TestRootCommand_NoTemplates(t *testing.T) {
	_, stderr, err := run(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, stderr, "No templates found.")
	assert.Contains(t, stderr, "Usage:")
}

func TestRootCommand_HelpExitsNonzero(t *testing.T) {
	out, _, err := run("--help")
	require.Error(t, err)
	assert.Contains(t, out, "--auto-correct")
	assert.Contains(t, out, "--exclude-category")
}

func TestRootCommand_UnknownCheckFails(t *testing.T) {
	dir := writeTheme(t, map[string]string{
		".theme-check.yml":       "MadeUp:\n  enabled: true\n",
		"templates/index.liquid": "ok\n",
	})

	_, stderr, err := run(dir)
	require.Error(t, err)
	assert.Contains(t, stderr, "MadeUp")
}

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "themecheck dev (none)")
}
