// Package store keeps a SQLite log of parse invocations.
//
// Every call to WriteParse appends one row to the parses table recording
// the source text, and either the parsed statements or the parse error.
// Successful parses store:
//   - the statement fingerprint (see ast.Fingerprint)
//   - the canonical JSON of the statements
//   - the same tree as a protobuf structpb.ListValue blob
//
// # Identity and Ordering
//
// Record IDs are UUIDv7 strings. Records are ordered by seq, a logical
// clock that resumes from the highest stored value when the database is
// reopened, never by wall time. Every query orders by
// seq, then id COLLATE BINARY, so results are deterministic.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - single open connection: SQLite allows one writer
package store
