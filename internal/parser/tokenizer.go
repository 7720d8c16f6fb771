package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits src into tokens using DefaultLimits. The returned slice
// always ends with a TokenEOF whose Offset is len(src).
func Tokenize(src string) ([]Token, error) {
	return tokenize(src, DefaultLimits())
}

type tokenizer struct {
	src    string
	pos    int
	limits Limits
	tokens []Token
}

func tokenize(src string, limits Limits) ([]Token, error) {
	if exceeds(len(src), limits.MaxInputBytes) {
		return nil, &ResourceLimitError{Limit: "input bytes", Max: limits.MaxInputBytes, Offset: limits.MaxInputBytes}
	}
	t := &tokenizer{src: src, limits: limits}
	for {
		if err := t.skipSpaceAndComments(); err != nil {
			return nil, err
		}
		if t.pos >= len(t.src) {
			t.tokens = append(t.tokens, Token{Kind: TokenEOF, Offset: len(t.src), End: len(t.src)})
			return t.tokens, nil
		}
		tok, err := t.scan()
		if err != nil {
			return nil, err
		}
		if exceeds(len(t.tokens)+1, limits.MaxTokens) {
			return nil, &ResourceLimitError{Limit: "tokens", Max: limits.MaxTokens, Offset: tok.Offset}
		}
		t.tokens = append(t.tokens, tok)
	}
}

func (t *tokenizer) peek(offset int) (rune, int) {
	if offset >= len(t.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(t.src[offset:])
}

func (t *tokenizer) skipSpaceAndComments() error {
	for t.pos < len(t.src) {
		r, size := t.peek(t.pos)
		switch {
		case unicode.IsSpace(r):
			t.pos += size
		case strings.HasPrefix(t.src[t.pos:], "--"):
			end := strings.IndexByte(t.src[t.pos:], '\n')
			if end < 0 {
				t.pos = len(t.src)
			} else {
				t.pos += end + 1
			}
		case strings.HasPrefix(t.src[t.pos:], "/*"):
			end := strings.Index(t.src[t.pos+2:], "*/")
			if end < 0 {
				return &LexicalError{Offset: t.pos, Char: '/', Message: "unterminated comment"}
			}
			t.pos += 2 + end + 2
		default:
			return nil
		}
	}
	return nil
}

func (t *tokenizer) scan() (Token, error) {
	start := t.pos
	r, size := t.peek(start)

	switch {
	case r == utf8.RuneError && size == 1:
		return Token{}, &LexicalError{Offset: start, Char: r, Message: "invalid UTF-8"}
	case isIdentStart(r):
		return t.scanWord(), nil
	case isDigit(r):
		return t.scanNumber(), nil
	case r == '"':
		return t.scanQuoted('"', TokenQuotedIdentifier, "unterminated quoted identifier")
	case r == '\'':
		return t.scanQuoted('\'', TokenString, "unterminated string literal")
	case strings.ContainsRune(",.()*;", r):
		t.pos += size
		return Token{Kind: TokenPunct, Text: string(r), Offset: start, End: t.pos}, nil
	}

	for _, op := range []string{"<=", ">=", "<>", "!=", "||", "=", "<", ">", "+", "-", "/", "%"} {
		if strings.HasPrefix(t.src[start:], op) {
			t.pos += len(op)
			return Token{Kind: TokenOperator, Text: op, Offset: start, End: t.pos}, nil
		}
	}

	return Token{}, &LexicalError{Offset: start, Char: r, Message: "illegal character"}
}

func (t *tokenizer) scanWord() Token {
	start := t.pos
	for t.pos < len(t.src) {
		r, size := t.peek(t.pos)
		if !isIdentPart(r) {
			break
		}
		t.pos += size
	}
	text := t.src[start:t.pos]
	kind := TokenIdentifier
	if IsKeyword(text) {
		kind = TokenKeyword
	}
	return Token{Kind: kind, Text: text, Offset: start, End: t.pos}
}

func (t *tokenizer) scanNumber() Token {
	start := t.pos
	for t.pos < len(t.src) && isDigit(rune(t.src[t.pos])) {
		t.pos++
	}
	if t.pos+1 < len(t.src) && t.src[t.pos] == '.' && isDigit(rune(t.src[t.pos+1])) {
		t.pos++
		for t.pos < len(t.src) && isDigit(rune(t.src[t.pos])) {
			t.pos++
		}
	}
	return Token{Kind: TokenNumber, Text: t.src[start:t.pos], Offset: start, End: t.pos}
}

// scanQuoted reads a quote-delimited token. A doubled delimiter inside the
// token stands for one literal delimiter.
func (t *tokenizer) scanQuoted(quote byte, kind TokenKind, unterminated string) (Token, error) {
	start := t.pos
	var sb strings.Builder
	i := start + 1
	for {
		if i >= len(t.src) {
			return Token{}, &LexicalError{Offset: start, Char: rune(quote), Message: unterminated}
		}
		if t.src[i] == quote {
			if i+1 < len(t.src) && t.src[i+1] == quote {
				sb.WriteByte(quote)
				i += 2
				continue
			}
			break
		}
		sb.WriteByte(t.src[i])
		i++
	}
	t.pos = i + 1
	if kind == TokenQuotedIdentifier && sb.Len() == 0 {
		return Token{}, &LexicalError{Offset: start, Char: rune(quote), Message: "empty quoted identifier"}
	}
	return Token{Kind: kind, Text: sb.String(), Offset: start, End: t.pos}, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
