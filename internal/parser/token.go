package parser

import (
	"fmt"
	"strings"
)

// TokenKind classifies a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenKeyword
	TokenIdentifier
	TokenQuotedIdentifier
	TokenString
	TokenNumber
	TokenPunct
	TokenOperator
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:              "EOF",
	TokenKeyword:          "KEYWORD",
	TokenIdentifier:       "IDENTIFIER",
	TokenQuotedIdentifier: "QUOTED_IDENTIFIER",
	TokenString:           "STRING",
	TokenNumber:           "NUMBER",
	TokenPunct:            "PUNCT",
	TokenOperator:         "OPERATOR",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is one lexical unit.
//
// Text is the token's value: the source spelling for keywords, bare
// identifiers, numbers, punctuation and operators, and the unescaped content
// (without delimiters) for quoted identifiers and string literals. Offset and
// End delimit the token's source span in bytes.
type Token struct {
	Kind   TokenKind `json:"kind"`
	Text   string    `json:"text"`
	Offset int       `json:"offset"`
	End    int       `json:"end"`
}

// keywords are reserved words. None of them can be an implicit alias; a
// quoted spelling ("FROM") is an ordinary identifier.
var keywords = map[string]bool{
	"SELECT": true, "FROM": true, "AS": true,
	"JOIN": true, "CROSS": true, "LEFT": true, "RIGHT": true, "OUTER": true,
	"INNER": true, "FULL": true, "NATURAL": true, "ON": true, "USING": true,
	"WHERE": true, "GROUP": true, "ORDER": true, "BY": true, "HAVING": true,
	"UNION": true, "LIMIT": true, "DISTINCT": true,
	"AND": true, "OR": true, "NOT": true, "NULL": true, "IS": true, "IN": true, "LIKE": true,
	"INSERT": true, "UPDATE": true, "DELETE": true, "CREATE": true, "DROP": true, "ALTER": true,
	"INTO": true, "VALUES": true, "SET": true, "TABLE": true,
}

// IsKeyword reports whether word is reserved, ignoring case.
func IsKeyword(word string) bool {
	return keywords[strings.ToUpper(word)]
}

// Upper is the uppercased token text.
func (t Token) Upper() string {
	return strings.ToUpper(t.Text)
}

// Is reports whether t is the keyword kw (kw must be uppercase).
func (t Token) Is(kw string) bool {
	return t.Kind == TokenKeyword && t.Upper() == kw
}

// IsPunct reports whether t is the punctuation p.
func (t Token) IsPunct(p string) bool {
	return t.Kind == TokenPunct && t.Text == p
}

// IsIdentifier reports whether t is a bare or quoted identifier.
func (t Token) IsIdentifier() bool {
	return t.Kind == TokenIdentifier || t.Kind == TokenQuotedIdentifier
}

// Source returns the token's exact text in src.
func (t Token) Source(src string) string {
	return src[t.Offset:t.End]
}
