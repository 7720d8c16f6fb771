package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatwin/paradoxdriver/internal/testutil"
)

// createTestStore opens a store in a temp directory with deterministic IDs
// and sequence numbers.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithSequencer(testutil.NewDeterministicClock()),
		WithIDGenerator(testutil.NewSequentialIDGenerator("parse")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
