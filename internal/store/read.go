package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
)

const parseColumns = `id, seq, source, fingerprint, statement_count, canonical, tree,
	error_code, error_message, error_offset`

// ReadParse retrieves one record by ID. Returns sql.ErrNoRows if not found.
func (s *Store) ReadParse(ctx context.Context, id string) (ParseRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+parseColumns+` FROM parses WHERE id = ?`, id)
	return scanParse(row)
}

// ReadHistory returns the most recent limit records, oldest first. A limit
// of zero or less returns every record.
//
// Returns an empty slice (not nil) when the log is empty.
func (s *Store) ReadHistory(ctx context.Context, limit int) ([]ParseRecord, error) {
	if limit <= 0 {
		return s.query(ctx, `SELECT `+parseColumns+` FROM parses
			ORDER BY seq ASC, id COLLATE BINARY ASC`)
	}
	records, err := s.query(ctx, `SELECT `+parseColumns+` FROM parses
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	slices.Reverse(records)
	return records, nil
}

// ReadByFingerprint returns every successful parse with the given
// fingerprint, oldest first.
func (s *Store) ReadByFingerprint(ctx context.Context, fingerprint string) ([]ParseRecord, error) {
	return s.query(ctx, `SELECT `+parseColumns+` FROM parses
		WHERE fingerprint = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC`, fingerprint)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]ParseRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query parses: %w", err)
	}
	defer rows.Close()

	records := []ParseRecord{}
	for rows.Next() {
		rec, err := scanParse(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parses: %w", err)
	}
	return records, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanParse(row scanner) (ParseRecord, error) {
	var rec ParseRecord
	var fingerprint, canonical, errCode, errMessage sql.NullString
	var errOffset sql.NullInt64
	var tree []byte

	err := row.Scan(
		&rec.ID,
		&rec.Seq,
		&rec.Source,
		&fingerprint,
		&rec.StatementCount,
		&canonical,
		&tree,
		&errCode,
		&errMessage,
		&errOffset,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return ParseRecord{}, err
		}
		return ParseRecord{}, fmt.Errorf("scan parse: %w", err)
	}

	rec.Fingerprint = fingerprint.String
	rec.Canonical = canonical.String
	if fingerprint.Valid {
		if rec.Tree, err = decodeTree(tree); err != nil {
			return ParseRecord{}, err
		}
	}
	if errCode.Valid {
		rec.Error = &ParseError{
			Code:    errCode.String,
			Message: errMessage.String,
			Offset:  int(errOffset.Int64),
		}
	}
	return rec, nil
}
