package harness

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/binder"
	"github.com/fatwin/paradoxdriver/internal/parser"
)

// AssertionError is returned when an expectation fails.
// It includes the input to help debug the failure.
type AssertionError struct {
	Type     string // Expect clause for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Input    string // Scenario input for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Input != "" {
		fmt.Fprintf(&buf, "\nInput:\n  %s\n", e.Input)
	}

	return buf.String()
}

// EvaluateExpect checks every clause of expect against result and returns
// the failure messages. An unexpected parse error fails every clause that
// needs statements with a single message.
func EvaluateExpect(result *Result, expect ExpectClause) []string {
	var failures []string
	add := func(err error) {
		if err != nil {
			failures = append(failures, err.Error())
		}
	}

	input := result.Record.Source

	if expect.Error != nil {
		add(assertError(result.ParseErr, *expect.Error, input))
		return failures
	}

	if result.ParseErr != nil {
		add(&AssertionError{
			Type:     "parse",
			Expected: "successful parse",
			Actual:   result.ParseErr.Error(),
			Input:    input,
		})
		return failures
	}

	if expect.Statements != nil {
		add(assertStatementCount(result.Statements, *expect.Statements, input))
	}

	for i, sel := range expect.Selects {
		add(assertSelect(result.Statements, i, sel, input))
	}

	if expect.Columns != nil {
		add(assertColumns(result.Bound, expect.Columns, input))
	}

	if expect.BindErrors != nil || expect.Columns != nil {
		add(assertBindErrors(result.BindErrors, expect.BindErrors, input))
	}

	return failures
}

// errorKind classifies a parser error. Returns "" for foreign errors.
func errorKind(err error) string {
	var lex *parser.LexicalError
	var syn *parser.SyntaxError
	var uns *parser.UnsupportedStatementError
	var lim *parser.ResourceLimitError
	switch {
	case errors.As(err, &lex):
		return KindLexical
	case errors.As(err, &syn):
		return KindSyntax
	case errors.As(err, &uns):
		return KindUnsupported
	case errors.As(err, &lim):
		return KindLimit
	default:
		return ""
	}
}

func assertError(err error, want ErrorClause, input string) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: "error", Expected: expected, Actual: actual, Input: input}
	}

	if err == nil {
		return fail(want.Kind+" error", "successful parse")
	}

	kind := errorKind(err)
	if kind != want.Kind {
		return fail(want.Kind+" error", fmt.Sprintf("%s (%s)", kindOrUnknown(kind), err))
	}

	var perr parser.Error
	if want.Offset != nil && errors.As(err, &perr) && perr.Pos() != *want.Offset {
		return fail(fmt.Sprintf("offset %d", *want.Offset), fmt.Sprintf("offset %d (%s)", perr.Pos(), err))
	}

	if want.Keyword != "" {
		var uns *parser.UnsupportedStatementError
		if !errors.As(err, &uns) || uns.Keyword != want.Keyword {
			return fail("keyword "+want.Keyword, err.Error())
		}
	}

	if want.Limit != "" {
		var lim *parser.ResourceLimitError
		if !errors.As(err, &lim) || lim.Limit != want.Limit {
			return fail("limit "+want.Limit, err.Error())
		}
	}

	return nil
}

func kindOrUnknown(kind string) string {
	if kind == "" {
		return "unknown error"
	}
	return kind + " error"
}

func assertStatementCount(stmts []ast.Statement, want int, input string) error {
	if len(stmts) == want {
		return nil
	}
	return &AssertionError{
		Type:     "statements",
		Expected: fmt.Sprintf("%d statements", want),
		Actual:   fmt.Sprintf("%d statements", len(stmts)),
		Input:    input,
	}
}

func assertSelect(stmts []ast.Statement, index int, want SelectClause, input string) error {
	typ := fmt.Sprintf("selects[%d]", index)
	if index >= len(stmts) {
		return &AssertionError{
			Type:     typ,
			Expected: fmt.Sprintf("statement %d", index),
			Actual:   fmt.Sprintf("only %d statements", len(stmts)),
			Input:    input,
		}
	}
	sel, ok := stmts[index].(*ast.SelectStatement)
	if !ok {
		return &AssertionError{
			Type:     typ,
			Expected: "SELECT statement",
			Actual:   fmt.Sprintf("%T", stmts[index]),
			Input:    input,
		}
	}

	var diffs []string
	compare := func(part string, expected, actual []string) {
		if !slices.Equal(expected, actual) {
			diffs = append(diffs, fmt.Sprintf("%s %q, got %q", part, expected, actual))
		}
	}
	comparePredicate := func(part, expected string, actual *ast.Predicate) {
		if expected == "" {
			return
		}
		got := "<none>"
		if actual != nil {
			got = actual.Text
		}
		if got != expected {
			diffs = append(diffs, fmt.Sprintf("%s %q, got %q", part, expected, got))
		}
	}

	compare("fields", want.Fields, mapSlice(sel.Fields, RenderField))
	compare("tables", want.Tables, mapSlice(sel.Tables, RenderTable))
	if want.Joins != nil {
		compare("joins", want.Joins, mapSlice(sel.Joins, RenderJoin))
	}
	comparePredicate("where", want.Where, sel.Where)
	comparePredicate("group_by", want.GroupBy, sel.GroupBy)
	comparePredicate("order_by", want.OrderBy, sel.OrderBy)

	if len(diffs) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: "matching SELECT",
		Actual:   strings.Join(diffs, "; "),
		Input:    input,
	}
}

func assertColumns(bound []*binder.Bound, want []string, input string) error {
	var got []string
	if len(bound) > 0 {
		got = RenderColumns(bound[0])
	}
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     "columns",
		Expected: fmt.Sprintf("%q", want),
		Actual:   fmt.Sprintf("%q", got),
		Input:    input,
	}
}

func assertBindErrors(errs []binder.Error, want []string, input string) error {
	got := mapSlice(errs, func(e binder.Error) string { return e.Code })
	if len(want) == 0 && len(got) == 0 {
		return nil
	}
	if slices.Equal(want, got) {
		return nil
	}
	msgs := mapSlice(errs, binder.Error.Error)
	return &AssertionError{
		Type:     "bind_errors",
		Expected: fmt.Sprintf("%q", want),
		Actual:   fmt.Sprintf("%q %v", got, msgs),
		Input:    input,
	}
}

// RenderField renders a field as "[qualifier.]name[ AS alias]".
func RenderField(f ast.FieldReference) string {
	s := f.Name
	if f.Qualifier != "" {
		s = f.Qualifier + "." + s
	}
	if f.Alias != "" {
		s += " AS " + f.Alias
	}
	return s
}

// RenderTable renders a table as "NAME[ alias]".
func RenderTable(t ast.TableReference) string {
	if t.Alias != "" {
		return t.Name + " " + t.Alias
	}
	return t.Name
}

// RenderJoin renders a join as "left TYPE right[ ON text]".
func RenderJoin(j ast.JoinClause) string {
	s := fmt.Sprintf("%d %s %d", j.Left, j.Type, j.Right)
	if j.On != nil {
		s += " ON " + j.On.Text
	}
	return s
}

// RenderColumns renders bound output columns as "TABLE.FIELD AS output".
func RenderColumns(b *binder.Bound) []string {
	out := make([]string, len(b.Columns))
	for i, c := range b.Columns {
		out[i] = fmt.Sprintf("%s.%s AS %s", b.Sources[c.Source].Table.Name, c.Field.Name, c.Output)
	}
	return out
}

func mapSlice[T any](in []T, f func(T) string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
