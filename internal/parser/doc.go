// Package parser turns SQL source text into an ordered list of ast.Statement.
//
// Parsing happens in two stages. The tokenizer produces an ordered token
// slice with byte offsets; the recursive-descent parser consumes it with one
// token of lookahead and never backtracks.
//
// Grammar (keywords are case-insensitive):
//
//	script     = [ statement ] { ";" [ statement ] }
//	statement  = select | unsupported
//	select     = SELECT field { "," field } FROM source { sourceStep }
//	             [ WHERE body ] [ GROUP BY body ] [ ORDER BY body ]
//	field      = [ ident "." ] ( ident | "*" ) [ alias ]
//	source     = ident [ alias ]
//	sourceStep = "," source
//	           | CROSS JOIN source
//	           | ( LEFT | RIGHT ) [ OUTER ] JOIN source [ ON body ]
//	alias      = AS ident | ident
//
// ident is a bare or double-quoted identifier. A keyword is never taken as
// an implicit alias, which keeps the alias lookahead from swallowing FROM,
// JOIN or any other clause boundary. Bodies of ON, WHERE, GROUP BY and ORDER
// BY are kept as opaque ast.Predicate placeholders.
//
// Every failure is returned as exactly one of *LexicalError, *SyntaxError,
// *UnsupportedStatementError or *ResourceLimitError, and a failed call never
// returns statements, even those that parsed before the failure.
//
// Parsing is pure: a Parser holds only its limits and is safe for concurrent
// use. Offsets are byte offsets into the source text.
package parser
