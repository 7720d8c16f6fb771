package ast

import "strings"

// Statement is a parsed SQL statement.
//
// This is a sealed interface. Statement kinds:
//   - *SelectStatement
//
// Adding a kind means adding a case to every exhaustive switch over
// Statement (sqlfmt, plan, canonical encoding, Validate).
type Statement interface {
	statementNode()
}

// SelectStatement is a SELECT with its projection, sources and joins.
//
// Fields keep output projection order. Tables keep source order, which is
// also the default left-to-right combination order when no explicit join
// connects two tables. Joins lists explicit JOIN clauses in source order and
// may be empty.
type SelectStatement struct {
	Fields  []FieldReference
	Tables  []TableReference
	Joins   []JoinClause
	Where   *Predicate
	GroupBy *Predicate
	OrderBy *Predicate
}

func (*SelectStatement) statementNode() {}

// FieldReference is one projection item.
//
// Name is "*" for a wildcard. Qualifier holds the text of a "table." prefix
// and Alias the output rename; both are empty when absent. No field of a
// FieldReference is ever case-folded.
type FieldReference struct {
	Name      string
	Qualifier string
	Alias     string
}

// IsWildcard reports whether the reference is "*" or "qualifier.*".
func (f FieldReference) IsWildcard() bool {
	return f.Name == "*"
}

// OutputName is the column name visible in results: the alias when present,
// otherwise the field name.
func (f FieldReference) OutputName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// TableReference is one source in the FROM list.
//
// Name is always uppercase regardless of how it was written or quoted,
// because the catalog keys physical tables by uppercase name. Alias keeps
// its source spelling.
type TableReference struct {
	Name  string
	Alias string
}

// NewTableReference creates a TableReference with the name uppercased.
func NewTableReference(name, alias string) TableReference {
	return TableReference{Name: strings.ToUpper(name), Alias: alias}
}

// RefName is the name other clauses use to refer to this source: the alias
// when present, otherwise the table name.
func (t TableReference) RefName() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// JoinClause connects two entries of SelectStatement.Tables.
//
// Right is the index of the table introduced by the JOIN keyword and Left
// the index of the source written immediately before it. On is nil for
// CROSS joins and for LEFT/RIGHT joins written without ON.
type JoinClause struct {
	Left  int
	Right int
	Type  JoinType
	On    *Predicate
}

// Predicate is an unparsed clause body. Text is the body's source text with
// every run of whitespace and comments between tokens collapsed to a single
// space; Offset is the byte offset of the first token of the body.
type Predicate struct {
	Offset int
	Text   string
}
