package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/parser"
)

// ParseError is the stored form of a failed parse.
type ParseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Offset  int    `json:"offset"`
}

// ParseRecord is one logged parse call. Exactly one of Fingerprint and
// Error is set.
type ParseRecord struct {
	ID             string      `json:"id"`
	Seq            int64       `json:"seq"`
	Source         string      `json:"source"`
	Fingerprint    string      `json:"fingerprint,omitempty"`
	StatementCount int         `json:"statement_count"`
	Canonical      string      `json:"canonical,omitempty"`
	Tree           []any       `json:"-"`
	Error          *ParseError `json:"error,omitempty"`
}

// WriteParse records the outcome of parsing source: stmts on success, or
// parseErr on failure. Errors that are not parser errors are stored with
// ErrCodeUnknown and offset 0.
func (s *Store) WriteParse(ctx context.Context, source string, stmts []ast.Statement, parseErr error) (ParseRecord, error) {
	rec := ParseRecord{
		ID:     s.ids.Generate(),
		Seq:    s.seq.Next(),
		Source: source,
	}

	var canonical, fingerprint sql.NullString
	var tree []byte
	var errCode, errMessage sql.NullString
	var errOffset sql.NullInt64

	if parseErr != nil {
		rec.Error = toParseError(parseErr)
		errCode = sql.NullString{String: rec.Error.Code, Valid: true}
		errMessage = sql.NullString{String: rec.Error.Message, Valid: true}
		errOffset = sql.NullInt64{Int64: int64(rec.Error.Offset), Valid: true}
	} else {
		data, err := ast.MarshalCanonical(stmts)
		if err != nil {
			return ParseRecord{}, fmt.Errorf("write parse: %w", err)
		}
		fp, err := ast.Fingerprint(stmts)
		if err != nil {
			return ParseRecord{}, fmt.Errorf("write parse: %w", err)
		}
		if tree, err = encodeTree(stmts); err != nil {
			return ParseRecord{}, fmt.Errorf("write parse: %w", err)
		}
		if rec.Tree, err = decodeTree(tree); err != nil {
			return ParseRecord{}, fmt.Errorf("write parse: %w", err)
		}
		rec.Canonical = string(data)
		rec.Fingerprint = fp
		rec.StatementCount = len(stmts)
		canonical = sql.NullString{String: rec.Canonical, Valid: true}
		fingerprint = sql.NullString{String: fp, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parses
		(id, seq, source, fingerprint, statement_count, canonical, tree, error_code, error_message, error_offset)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Seq,
		rec.Source,
		fingerprint,
		rec.StatementCount,
		canonical,
		tree,
		errCode,
		errMessage,
		errOffset,
	)
	if err != nil {
		return ParseRecord{}, fmt.Errorf("write parse: %w", err)
	}

	slog.Debug("parse recorded",
		"id", rec.ID,
		"seq", rec.Seq,
		"statements", rec.StatementCount,
		"failed", rec.Error != nil)
	return rec, nil
}

// ErrCodeUnknown is stored for failures that are not parser errors.
const ErrCodeUnknown = "E200"

func toParseError(err error) *ParseError {
	var pe parser.Error
	if errors.As(err, &pe) {
		return &ParseError{Code: pe.Code(), Message: pe.Error(), Offset: pe.Pos()}
	}
	return &ParseError{Code: ErrCodeUnknown, Message: err.Error()}
}
