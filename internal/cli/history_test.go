package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordParses runs "parse --db" for each source and returns the
// database path. Parse failures are recorded and ignored.
func recordParses(t *testing.T, sources ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "parses.db")
	for _, src := range sources {
		_, _, _ = execute(t, "", "parse", "--db", dbPath, src)
	}
	return dbPath
}

func TestHistoryCommandEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	out, _, err := execute(t, "", "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No parses recorded.")
}

func TestHistoryCommandRequiresDatabase(t *testing.T) {
	_, _, err := execute(t, "", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestHistoryCommandStats(t *testing.T) {
	dbPath := recordParses(t,
		"SELECT a FROM t",
		"select   a\nfrom T",
		"SELECT b FROM t",
		"DELETE FROM t",
	)

	out, _, err := execute(t, "", "--format", "json", "history", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Records, 4)
	assert.Equal(t, HistoryStats{Total: 4, Succeeded: 3, Failed: 1, Distinct: 2}, resp.Data.Stats)
	assert.Equal(t, resp.Data.Records[0].Fingerprint, resp.Data.Records[1].Fingerprint)
	require.NotNil(t, resp.Data.Records[3].Error)
	assert.Equal(t, "E203", resp.Data.Records[3].Error.Code)
}

func TestHistoryCommandLimit(t *testing.T) {
	dbPath := recordParses(t, "SELECT a FROM t", "SELECT b FROM t", "SELECT c FROM t")

	out, _, err := execute(t, "", "history", "--db", dbPath, "--limit", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "SELECT a FROM t")
	assert.Contains(t, out, "SELECT b FROM t")
	assert.Contains(t, out, "SELECT c FROM t")
	assert.Contains(t, out, "2 parse(s): 2 ok, 0 failed, 2 distinct statement(s)")
}

func TestHistoryCommandFingerprintAndID(t *testing.T) {
	dbPath := recordParses(t, "SELECT a FROM t", "SELECT b FROM t", "select a from T")

	out, _, err := execute(t, "", "--format", "json", "history", "--db", dbPath, "--limit", "0")
	require.NoError(t, err)
	var all struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	require.Len(t, all.Data.Records, 3)

	fp := all.Data.Records[0].Fingerprint
	out, _, err = execute(t, "", "--format", "json", "history", "--db", dbPath, "--fingerprint", fp)
	require.NoError(t, err)
	var byFP struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &byFP))
	require.Len(t, byFP.Data.Records, 2)
	assert.Equal(t, "select a from T", byFP.Data.Records[1].Source)

	id := all.Data.Records[1].ID
	out, _, err = execute(t, "", "history", "--db", dbPath, "--id", id)
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT b FROM t")
	assert.Contains(t, out, "1 parse(s): 1 ok, 0 failed, 1 distinct statement(s)")
}

func TestHistoryCommandIDNotFound(t *testing.T) {
	dbPath := recordParses(t, "SELECT a FROM t")

	out, _, err := execute(t, "", "history", "--db", dbPath, "--id", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestHistoryCommandExclusiveFlags(t *testing.T) {
	dbPath := recordParses(t, "SELECT a FROM t")

	_, _, err := execute(t, "", "history", "--db", dbPath, "--id", "x", "--fingerprint", "y")
	require.Error(t, err)
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "SELECT a FROM t", oneLine("SELECT a\n\tFROM   t", 60))
	assert.Equal(t, "SELEC…", oneLine("SELECT a FROM t", 6))
}
