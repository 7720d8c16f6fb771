package ast

import (
	"fmt"
	"strings"
)

// Structural validation error codes (E300-E399).
const (
	ErrUnsupportedStatement = "E300" // statement type not known to Validate
	ErrNoFields             = "E301" // SELECT without projection items
	ErrNoTables             = "E302" // SELECT without sources
	ErrEmptyName            = "E303" // field or table name is empty
	ErrTableNotUpper        = "E304" // table name not canonicalized
	ErrJoinIndex            = "E305" // join operand outside Tables
	ErrJoinOrder            = "E306" // join operands out of source order
	ErrJoinType             = "E307" // join type outside the closed set
	ErrCrossJoinOn          = "E308" // CROSS join carrying an ON predicate
	ErrEmptyPredicate       = "E309" // placeholder with no text
	ErrDuplicateJoin        = "E310" // two joins introduce the same table
)

// ValidationError is one violated tree invariant.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the structural invariants every consumer relies on and
// returns all violations (it does not stop at the first one). A tree built
// by the parser always validates cleanly; Validate exists for trees built
// or decoded elsewhere.
func Validate(stmts []Statement) []ValidationError {
	var errs []ValidationError
	for i, stmt := range stmts {
		prefix := fmt.Sprintf("statements[%d]", i)
		switch s := stmt.(type) {
		case *SelectStatement:
			errs = append(errs, validateSelect(prefix, s)...)
		default:
			errs = append(errs, ValidationError{
				Field:   prefix,
				Message: fmt.Sprintf("unsupported statement type: %T", stmt),
				Code:    ErrUnsupportedStatement,
			})
		}
	}
	return errs
}

func validateSelect(prefix string, s *SelectStatement) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   prefix + "." + field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		})
	}

	if len(s.Fields) == 0 {
		add("fields", ErrNoFields, "at least one field is required")
	}
	if len(s.Tables) == 0 {
		add("tables", ErrNoTables, "at least one table is required")
	}

	for i, f := range s.Fields {
		if f.Name == "" {
			add(fmt.Sprintf("fields[%d].name", i), ErrEmptyName, "field name is empty")
		}
	}

	for i, t := range s.Tables {
		if t.Name == "" {
			add(fmt.Sprintf("tables[%d].name", i), ErrEmptyName, "table name is empty")
		} else if t.Name != strings.ToUpper(t.Name) {
			add(fmt.Sprintf("tables[%d].name", i), ErrTableNotUpper, "table name %q is not uppercase", t.Name)
		}
	}

	introduced := make(map[int]bool)
	for i, j := range s.Joins {
		field := fmt.Sprintf("joins[%d]", i)
		if j.Left < 0 || j.Left >= len(s.Tables) || j.Right < 0 || j.Right >= len(s.Tables) {
			add(field, ErrJoinIndex, "operands (%d, %d) outside %d table(s)", j.Left, j.Right, len(s.Tables))
			continue
		}
		if j.Left >= j.Right {
			add(field, ErrJoinOrder, "left operand %d must precede right operand %d", j.Left, j.Right)
		}
		if introduced[j.Right] {
			add(field, ErrDuplicateJoin, "table %d is already joined", j.Right)
		}
		introduced[j.Right] = true
		if !j.Type.Valid() {
			add(field+".type", ErrJoinType, "invalid join type %d", int(j.Type))
		}
		if j.Type == JoinCross && j.On != nil {
			add(field+".on", ErrCrossJoinOn, "CROSS join cannot have an ON predicate")
		}
		if j.On != nil && strings.TrimSpace(j.On.Text) == "" {
			add(field+".on", ErrEmptyPredicate, "ON predicate is empty")
		}
	}

	clauses := []struct {
		field string
		pred  *Predicate
	}{
		{"where", s.Where},
		{"group_by", s.GroupBy},
		{"order_by", s.OrderBy},
	}
	for _, c := range clauses {
		if c.pred != nil && strings.TrimSpace(c.pred.Text) == "" {
			add(c.field, ErrEmptyPredicate, "%s clause is empty", strings.ReplaceAll(c.field, "_", " "))
		}
	}

	return errs
}
