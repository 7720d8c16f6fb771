package parser

import "fmt"

// Parse error codes (E200-E299).
const (
	ErrCodeLexical     = "E201"
	ErrCodeSyntax      = "E202"
	ErrCodeUnsupported = "E203"
	ErrCodeLimit       = "E204"
)

// Error is implemented by every error the parser returns.
// Use errors.As with the concrete types to inspect details.
type Error interface {
	error
	// Code is the stable error code (E201-E204).
	Code() string
	// Pos is the byte offset in the source the error refers to.
	Pos() int
}

// LexicalError reports a malformed token: an illegal character or an
// unterminated quote or comment.
type LexicalError struct {
	Offset  int
	Char    rune
	Message string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at offset %d: %s %q", e.Offset, e.Message, e.Char)
}

func (e *LexicalError) Code() string { return ErrCodeLexical }
func (e *LexicalError) Pos() int     { return e.Offset }

// SyntaxError reports a token sequence that violates the grammar. Token is
// the source text of the offending token, empty at end of input.
type SyntaxError struct {
	Offset  int
	Token   string
	Message string
}

func (e *SyntaxError) Error() string {
	found := "end of input"
	if e.Token != "" {
		found = fmt.Sprintf("%q", e.Token)
	}
	return fmt.Sprintf("syntax error at offset %d: %s, found %s", e.Offset, e.Message, found)
}

func (e *SyntaxError) Code() string { return ErrCodeSyntax }
func (e *SyntaxError) Pos() int     { return e.Offset }

// UnsupportedStatementError reports a statement kind this parser does not
// implement. Keyword is uppercased.
type UnsupportedStatementError struct {
	Offset  int
	Keyword string
}

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("unsupported statement at offset %d: %s", e.Offset, e.Keyword)
}

func (e *UnsupportedStatementError) Code() string { return ErrCodeUnsupported }
func (e *UnsupportedStatementError) Pos() int     { return e.Offset }

// ResourceLimitError reports input exceeding one of the configured Limits.
type ResourceLimitError struct {
	Limit  string // "input bytes", "tokens", "statements" or "nesting depth"
	Max    int
	Offset int
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("resource limit exceeded at offset %d: more than %d %s", e.Offset, e.Max, e.Limit)
}

func (e *ResourceLimitError) Code() string { return ErrCodeLimit }
func (e *ResourceLimitError) Pos() int     { return e.Offset }
