// Package sqlfmt renders parsed statements back to SQL text.
//
// Output uses uppercase keywords, single spaces and ", " separators.
// Identifiers are written bare when the parser would read them back
// unchanged and double-quoted otherwise, so parsing the output yields the
// original statement (predicate offsets aside).
package sqlfmt

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/parser"
)

// Format renders one statement.
func Format(stmt ast.Statement) (string, error) {
	if stmt == nil {
		return "", fmt.Errorf("cannot format nil statement")
	}

	switch s := stmt.(type) {
	case *ast.SelectStatement:
		return formatSelect(s)
	default:
		return "", fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

// FormatAll renders a statement list, one statement per line, each
// terminated by ";". An empty list renders as "".
func FormatAll(stmts []ast.Statement) (string, error) {
	var b strings.Builder
	for i, stmt := range stmts {
		sql, err := Format(stmt)
		if err != nil {
			return "", fmt.Errorf("statement %d: %w", i, err)
		}
		b.WriteString(sql)
		b.WriteString(";\n")
	}
	return b.String(), nil
}

func formatSelect(s *ast.SelectStatement) (string, error) {
	if errs := ast.Validate([]ast.Statement{s}); len(errs) > 0 {
		return "", fmt.Errorf("invalid statement: %w", errs[0])
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatField(f))
	}

	joins, err := joinsByRight(s)
	if err != nil {
		return "", err
	}

	b.WriteString(" FROM ")
	for i, t := range s.Tables {
		j, joined := joins[i]
		switch {
		case i == 0:
		case !joined:
			b.WriteString(", ")
		default:
			b.WriteString(" " + joinKeyword(j.Type) + " ")
		}
		b.WriteString(formatTable(t))
		if joined && j.On != nil {
			b.WriteString(" ON " + j.On.Text)
		}
	}

	if s.Where != nil {
		b.WriteString(" WHERE " + s.Where.Text)
	}
	if s.GroupBy != nil {
		b.WriteString(" GROUP BY " + s.GroupBy.Text)
	}
	if s.OrderBy != nil {
		b.WriteString(" ORDER BY " + s.OrderBy.Text)
	}
	return b.String(), nil
}

// joinsByRight indexes joins by the table they introduce. Only joins whose
// left operand is the preceding table have a SQL spelling. The statement is
// already validated, so indices are in range and unique.
func joinsByRight(s *ast.SelectStatement) (map[int]ast.JoinClause, error) {
	joins := make(map[int]ast.JoinClause, len(s.Joins))
	for i, j := range s.Joins {
		if j.Left != j.Right-1 {
			return nil, fmt.Errorf("join %d: operands (%d, %d) do not name adjacent tables", i, j.Left, j.Right)
		}
		joins[j.Right] = j
	}
	return joins, nil
}

func joinKeyword(t ast.JoinType) string {
	switch t {
	case ast.JoinCross:
		return "CROSS JOIN"
	case ast.JoinLeft:
		return "LEFT JOIN"
	case ast.JoinRight:
		return "RIGHT JOIN"
	default:
		panic(fmt.Sprintf("sqlfmt: unknown join type %d", int(t)))
	}
}

func formatField(f ast.FieldReference) string {
	var b strings.Builder
	if f.Qualifier != "" {
		b.WriteString(QuoteIdent(f.Qualifier))
		b.WriteByte('.')
	}
	if f.IsWildcard() {
		b.WriteByte('*')
		return b.String()
	}
	b.WriteString(QuoteIdent(f.Name))
	if f.Alias != "" {
		b.WriteString(" AS " + QuoteIdent(f.Alias))
	}
	return b.String()
}

func formatTable(t ast.TableReference) string {
	if t.Alias == "" {
		return QuoteIdent(t.Name)
	}
	return QuoteIdent(t.Name) + " AS " + QuoteIdent(t.Alias)
}

// QuoteIdent returns name as a bare identifier when it lexes as one and is
// not a keyword, and as a double-quoted identifier otherwise.
func QuoteIdent(name string) string {
	if isBareIdent(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isBareIdent(name string) bool {
	if name == "" || parser.IsKeyword(name) {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
