package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test_scenario
description: "Test scenario for validation"
input: "SELECT a, b x FROM t1 LEFT JOIN t2 ON t1.a = t2.a"
limits:
  max_tokens: 100
expect:
  statements: 1
  selects:
    - fields: ["a", "b AS x"]
      tables: ["T1", "T2"]
      joins: ["0 LEFT 1 ON t1.a = t2.a"]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	require.NotNil(t, scenario.Expect.Statements)
	assert.Equal(t, 1, *scenario.Expect.Statements)
	require.Len(t, scenario.Expect.Selects, 1)
	assert.Equal(t, []string{"a", "b AS x"}, scenario.Expect.Selects[0].Fields)
	require.NotNil(t, scenario.Limits)
	assert.Equal(t, 100, scenario.Limits.apply().MaxTokens)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: typo
description: "selcts is not a field"
input: "SELECT a FROM t"
expect:
  selcts: []
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_ResolvesCatalogRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "tables"), 0755))
	path := writeScenario(t, dir, `
name: with_catalog
description: "catalog path is relative"
input: "SELECT a FROM t"
catalog: tables
expect:
  bind_errors: [E401]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tables"), scenario.Catalog)
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "tables"), 0755))
	path := writeScenario(t, t.TempDir(), `
name: with_base
description: "catalog path resolves against the base"
input: "SELECT a FROM t"
catalog: tables
expect:
  statements: 1
`)

	scenario, err := LoadScenarioWithBasePath(path, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "tables"), scenario.Catalog)
}

func TestLoadScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{
			name:    "missing name",
			content: "description: d\ninput: x\nexpect: {statements: 0}\n",
			message: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\ninput: x\nexpect: {statements: 0}\n",
			message: "description is required",
		},
		{
			name:    "empty expect",
			content: "name: n\ndescription: d\ninput: x\nexpect: {}\n",
			message: "at least one clause",
		},
		{
			name:    "unknown error kind",
			content: "name: n\ndescription: d\ninput: x\nexpect: {error: {kind: semantic}}\n",
			message: `unknown kind "semantic"`,
		},
		{
			name:    "missing error kind",
			content: "name: n\ndescription: d\ninput: x\nexpect: {error: {offset: 1}}\n",
			message: "kind is required",
		},
		{
			name:    "error with selects",
			content: "name: n\ndescription: d\ninput: x\nexpect: {error: {kind: syntax}, statements: 1}\n",
			message: "cannot be combined",
		},
		{
			name:    "select without tables",
			content: "name: n\ndescription: d\ninput: x\nexpect: {selects: [{fields: [a]}]}\n",
			message: "selects[0]: tables is required",
		},
		{
			name:    "columns without catalog",
			content: "name: n\ndescription: d\ninput: x\nexpect: {columns: [T.A AS a]}\n",
			message: "require catalog",
		},
		{
			name:    "missing catalog directory",
			content: "name: n\ndescription: d\ninput: x\ncatalog: nowhere\nexpect: {statements: 1}\n",
			message: "catalog directory not found",
		},
		{
			name:    "negative limit",
			content: "name: n\ndescription: d\ninput: x\nlimits: {max_depth: -1}\nexpect: {statements: 1}\n",
			message: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLimitsClauseApply(t *testing.T) {
	var none *LimitsClause
	defaults := none.apply()

	l := (&LimitsClause{MaxStatements: 2}).apply()
	assert.Equal(t, 2, l.MaxStatements)
	assert.Equal(t, defaults.MaxTokens, l.MaxTokens)
	assert.Equal(t, defaults.MaxInputBytes, l.MaxInputBytes)
	assert.Equal(t, defaults.MaxDepth, l.MaxDepth)
}
