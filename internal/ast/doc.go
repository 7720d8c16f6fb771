// Package ast provides the immutable statement tree produced by the parser.
//
// This package contains node types and pure functions over them. All other
// internal packages may import ast; ast imports nothing internal. This keeps
// the tree the foundational layer shared by the parser, formatter, planner
// and binder.
//
// Key constraints:
//   - Statement is sealed: only types in this package implement it, so
//     consumers can switch exhaustively over statement kinds.
//   - Table names are uppercased on construction (NewTableReference); field
//     names, field aliases, field qualifiers and table aliases are kept
//     exactly as written. Case-insensitive resolution belongs to the binder.
//   - Nodes are never mutated after the parser returns them and are safe to
//     share between goroutines without synchronization.
//   - WHERE, GROUP BY, ORDER BY and ON bodies are opaque Predicate
//     placeholders holding the raw source span.
package ast
