package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fatwin/paradoxdriver/internal/ast"
)

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     "statements",
		Expected: "2 statements",
		Actual:   "1 statements",
		Input:    "SELECT a FROM t",
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: statements")
	assert.Contains(t, msg, "Expected: 2 statements")
	assert.Contains(t, msg, "Actual: 1 statements")
	assert.Contains(t, msg, "SELECT a FROM t")
}

func TestRenderField(t *testing.T) {
	tests := []struct {
		field ast.FieldReference
		want  string
	}{
		{ast.FieldReference{Name: "*"}, "*"},
		{ast.FieldReference{Name: "*", Qualifier: "c"}, "c.*"},
		{ast.FieldReference{Name: "NOME", Alias: "n"}, "NOME AS n"},
		{ast.FieldReference{Name: "NOME", Qualifier: "estado", Alias: "nome"}, "estado.NOME AS nome"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RenderField(tt.field))
	}
}

func TestRenderTableAndJoin(t *testing.T) {
	assert.Equal(t, "CLIENTE", RenderTable(ast.TableReference{Name: "CLIENTE"}))
	assert.Equal(t, "CLIENTE c", RenderTable(ast.TableReference{Name: "CLIENTE", Alias: "c"}))

	assert.Equal(t, "0 CROSS 1", RenderJoin(ast.JoinClause{Left: 0, Right: 1, Type: ast.JoinCross}))
	assert.Equal(t, "1 RIGHT 2 ON a = b", RenderJoin(ast.JoinClause{
		Left: 1, Right: 2, Type: ast.JoinRight,
		On: &ast.Predicate{Offset: 40, Text: "a = b"},
	}))
}

func TestEvaluateExpect_PredicatesIgnoredWhenEmpty(t *testing.T) {
	result := NewResult()
	result.Statements = []ast.Statement{&ast.SelectStatement{
		Fields: []ast.FieldReference{{Name: "a"}},
		Tables: []ast.TableReference{{Name: "T"}},
		Where:  &ast.Predicate{Text: "a > 1"},
	}}

	failures := EvaluateExpect(result, ExpectClause{
		Selects: []SelectClause{{Fields: []string{"a"}, Tables: []string{"T"}}},
	})
	assert.Empty(t, failures)

	failures = EvaluateExpect(result, ExpectClause{
		Selects: []SelectClause{{Fields: []string{"a"}, Tables: []string{"T"}, OrderBy: "a"}},
	})
	assert.Len(t, failures, 1)
	assert.Contains(t, failures[0], `order_by "a", got "<none>"`)
}

func TestErrorKind_ForeignError(t *testing.T) {
	assert.Equal(t, "", errorKind(assert.AnError))
	assert.Equal(t, "unknown error", kindOrUnknown(""))
}
