package parser

import (
	"strings"

	"github.com/fatwin/paradoxdriver/internal/ast"
)

// Parser parses SQL source into statements under a fixed set of Limits.
// A Parser is immutable and may be shared between goroutines.
type Parser struct {
	limits Limits
}

// New creates a Parser with the given limits.
func New(limits Limits) *Parser {
	return &Parser{limits: limits}
}

// Limits returns the parser's limits.
func (p *Parser) Limits() Limits {
	return p.limits
}

// Tokenize splits src into tokens under the parser's limits.
func (p *Parser) Tokenize(src string) ([]Token, error) {
	return tokenize(src, p.limits)
}

// Parse parses src with DefaultLimits.
func Parse(src string) ([]ast.Statement, error) {
	return New(DefaultLimits()).Parse(src)
}

// Parse parses every statement in src, in source order.
//
// Empty input, or input holding only whitespace, comments and semicolons,
// yields an empty non-nil slice. On failure the returned slice is nil and
// err is one of the types listed in the package documentation.
func (p *Parser) Parse(src string) ([]ast.Statement, error) {
	tokens, err := tokenize(src, p.limits)
	if err != nil {
		return nil, err
	}
	c := &cursor{src: src, tokens: tokens, limits: p.limits}

	stmts := []ast.Statement{}
	for {
		for c.peek().IsPunct(";") {
			c.advance()
		}
		if c.peek().Kind == TokenEOF {
			return stmts, nil
		}
		if exceeds(len(stmts)+1, p.limits.MaxStatements) {
			return nil, &ResourceLimitError{Limit: "statements", Max: p.limits.MaxStatements, Offset: c.peek().Offset}
		}

		stmt, err := c.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		if tok := c.peek(); tok.Kind != TokenEOF && !tok.IsPunct(";") {
			return nil, c.errorf(tok, "expected \";\" or end of input")
		}
	}
}

// unsupportedKeywords lead statements that are recognized but not parsed.
var unsupportedKeywords = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true,
	"CREATE": true, "DROP": true, "ALTER": true,
}

// stopSet lists the clause boundaries that end a placeholder body. A body
// always also ends at ";" and at end of input.
type stopSet struct {
	comma    bool
	keywords map[string]bool
}

func (s stopSet) stops(tok Token) bool {
	if tok.IsPunct(";") || (s.comma && tok.IsPunct(",")) {
		return true
	}
	return tok.Kind == TokenKeyword && s.keywords[tok.Upper()]
}

func newStopSet(comma bool, words ...string) stopSet {
	set := stopSet{comma: comma, keywords: make(map[string]bool, len(words))}
	for _, w := range words {
		set.keywords[w] = true
	}
	return set
}

var (
	onStops = newStopSet(true, "JOIN", "CROSS", "LEFT", "RIGHT", "INNER", "FULL", "NATURAL",
		"WHERE", "GROUP", "ORDER", "HAVING", "UNION", "LIMIT")
	whereStops   = newStopSet(false, "GROUP", "ORDER", "HAVING", "UNION", "LIMIT")
	groupByStops = newStopSet(false, "ORDER", "UNION", "LIMIT")
	orderByStops = newStopSet(false, "UNION", "LIMIT")
)

// cursor walks the token slice of one Parse call.
type cursor struct {
	src    string
	tokens []Token
	pos    int
	limits Limits
}

// peek returns the current token. The tokenizer guarantees a trailing EOF,
// so peek never runs off the end.
func (c *cursor) peek() Token {
	return c.tokens[c.pos]
}

func (c *cursor) advance() Token {
	tok := c.tokens[c.pos]
	if tok.Kind != TokenEOF {
		c.pos++
	}
	return tok
}

func (c *cursor) errorf(tok Token, msg string) *SyntaxError {
	return &SyntaxError{Offset: tok.Offset, Token: tok.Source(c.src), Message: msg}
}

func (c *cursor) expectKeyword(kw string) error {
	tok := c.peek()
	if !tok.Is(kw) {
		return c.errorf(tok, "expected "+kw)
	}
	c.advance()
	return nil
}

func (c *cursor) parseStatement() (ast.Statement, error) {
	tok := c.peek()
	switch {
	case tok.Is("SELECT"):
		return c.parseSelect()
	case tok.Kind == TokenKeyword && unsupportedKeywords[tok.Upper()],
		tok.Kind == TokenIdentifier:
		return nil, &UnsupportedStatementError{Offset: tok.Offset, Keyword: tok.Upper()}
	default:
		return nil, c.errorf(tok, "statement expected")
	}
}

func (c *cursor) parseSelect() (*ast.SelectStatement, error) {
	c.advance() // SELECT
	stmt := &ast.SelectStatement{}

	for {
		field, err := c.parseField()
		if err != nil {
			return nil, err
		}
		stmt.Fields = append(stmt.Fields, field)
		if !c.peek().IsPunct(",") {
			break
		}
		c.advance()
	}

	if err := c.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	if err := c.parseSources(stmt); err != nil {
		return nil, err
	}

	var err error
	if c.peek().Is("WHERE") {
		c.advance()
		if stmt.Where, err = c.parsePlaceholder(whereStops); err != nil {
			return nil, err
		}
	}
	if c.peek().Is("GROUP") {
		c.advance()
		if err := c.expectKeyword("BY"); err != nil {
			return nil, err
		}
		if stmt.GroupBy, err = c.parsePlaceholder(groupByStops); err != nil {
			return nil, err
		}
	}
	if c.peek().Is("ORDER") {
		c.advance()
		if err := c.expectKeyword("BY"); err != nil {
			return nil, err
		}
		if stmt.OrderBy, err = c.parsePlaceholder(orderByStops); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// parseField parses "[qualifier .] (name | *) [alias]". A wildcard takes
// no alias.
func (c *cursor) parseField() (ast.FieldReference, error) {
	tok := c.peek()
	if tok.IsPunct("*") {
		c.advance()
		return ast.FieldReference{Name: "*"}, nil
	}
	if !tok.IsIdentifier() {
		return ast.FieldReference{}, c.errorf(tok, "field name expected")
	}
	c.advance()

	var field ast.FieldReference
	if c.peek().IsPunct(".") {
		c.advance()
		name := c.peek()
		switch {
		case name.IsPunct("*"):
			c.advance()
			return ast.FieldReference{Name: "*", Qualifier: tok.Text}, nil
		case name.IsIdentifier():
			c.advance()
			field = ast.FieldReference{Name: name.Text, Qualifier: tok.Text}
		default:
			return ast.FieldReference{}, c.errorf(name, "field name expected after \".\"")
		}
	} else {
		field = ast.FieldReference{Name: tok.Text}
	}

	alias, err := c.parseAlias()
	if err != nil {
		return ast.FieldReference{}, err
	}
	field.Alias = alias
	return field, nil
}

// parseAlias consumes "AS ident" or a bare following identifier. Keywords
// are never identifiers, so a clause boundary is never taken as an alias.
func (c *cursor) parseAlias() (string, error) {
	tok := c.peek()
	if tok.Is("AS") {
		c.advance()
		name := c.peek()
		if !name.IsIdentifier() {
			return "", c.errorf(name, "alias expected after AS")
		}
		c.advance()
		return name.Text, nil
	}
	if tok.IsIdentifier() {
		c.advance()
		return tok.Text, nil
	}
	return "", nil
}

func (c *cursor) parseTable() (ast.TableReference, error) {
	tok := c.peek()
	if !tok.IsIdentifier() {
		return ast.TableReference{}, c.errorf(tok, "table name expected")
	}
	c.advance()
	alias, err := c.parseAlias()
	if err != nil {
		return ast.TableReference{}, err
	}
	return ast.NewTableReference(tok.Text, alias), nil
}

func (c *cursor) parseSources(stmt *ast.SelectStatement) error {
	table, err := c.parseTable()
	if err != nil {
		return err
	}
	stmt.Tables = append(stmt.Tables, table)

	for {
		tok := c.peek()
		var join ast.JoinClause

		switch {
		case tok.IsPunct(","):
			c.advance()
			table, err := c.parseTable()
			if err != nil {
				return err
			}
			stmt.Tables = append(stmt.Tables, table)
			continue

		case tok.Is("CROSS"):
			c.advance()
			if err := c.expectKeyword("JOIN"); err != nil {
				return err
			}
			table, err := c.parseTable()
			if err != nil {
				return err
			}
			stmt.Tables = append(stmt.Tables, table)
			if on := c.peek(); on.Is("ON") {
				return c.errorf(on, "CROSS JOIN does not take ON")
			}
			join = ast.JoinClause{Type: ast.JoinCross}

		case tok.Is("LEFT"), tok.Is("RIGHT"):
			c.advance()
			join.Type = ast.JoinLeft
			if tok.Is("RIGHT") {
				join.Type = ast.JoinRight
			}
			if c.peek().Is("OUTER") {
				c.advance()
			}
			if err := c.expectKeyword("JOIN"); err != nil {
				return err
			}
			table, err := c.parseTable()
			if err != nil {
				return err
			}
			stmt.Tables = append(stmt.Tables, table)
			if c.peek().Is("ON") {
				c.advance()
				if join.On, err = c.parsePlaceholder(onStops); err != nil {
					return err
				}
			}

		case tok.Is("JOIN"), tok.Is("INNER"), tok.Is("FULL"), tok.Is("NATURAL"):
			return c.errorf(tok, "unsupported join; expected CROSS, LEFT or RIGHT JOIN")

		default:
			return nil
		}

		join.Right = len(stmt.Tables) - 1
		join.Left = join.Right - 1
		stmt.Joins = append(stmt.Joins, join)
	}
}

// parsePlaceholder captures a clause body up to the first boundary in stops
// found outside parentheses.
func (c *cursor) parsePlaceholder(stops stopSet) (*ast.Predicate, error) {
	start := c.peek()
	var text strings.Builder
	prevEnd := start.Offset
	depth := 0
	for {
		tok := c.peek()
		if tok.Kind == TokenEOF {
			if depth > 0 {
				return nil, c.errorf(tok, "expected \")\"")
			}
			break
		}
		if depth == 0 && stops.stops(tok) {
			break
		}
		switch {
		case tok.IsPunct("("):
			depth++
			if exceeds(depth, c.limits.MaxDepth) {
				return nil, &ResourceLimitError{Limit: "nesting depth", Max: c.limits.MaxDepth, Offset: tok.Offset}
			}
		case tok.IsPunct(")"):
			if depth == 0 {
				return nil, c.errorf(tok, "unbalanced \")\"")
			}
			depth--
		}
		if text.Len() > 0 && tok.Offset > prevEnd {
			text.WriteByte(' ')
		}
		text.WriteString(tok.Source(c.src))
		prevEnd = tok.End
		c.advance()
	}
	if text.Len() == 0 {
		return nil, c.errorf(c.peek(), "expression expected")
	}
	return &ast.Predicate{Offset: start.Offset, Text: text.String()}, nil
}
