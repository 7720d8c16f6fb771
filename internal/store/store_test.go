package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatwin/paradoxdriver/internal/parser"
)

func TestOpenAppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpenCreatesFingerprintIndex(t *testing.T) {
	s := createTestStore(t)

	var name string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_parses_fingerprint'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_parses_fingerprint", name)
}

func TestReopenResumesClock(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "log.db")

	s, err := Open(path)
	require.NoError(t, err)
	for _, src := range []string{"SELECT a FROM t", "SELECT b FROM u"} {
		stmts, parseErr := parser.Parse(src)
		_, err := s.WriteParse(ctx, src, stmts, parseErr)
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	rec, err := s.WriteParse(ctx, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Seq)

	id, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCloseNil(t *testing.T) {
	var s Store
	assert.NoError(t, s.Close())
}
