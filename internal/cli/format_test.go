package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCommandText(t *testing.T) {
	out, _, err := execute(t, "", "format", "select a x from t1 left outer join t2 on t1.id=t2.id")
	require.NoError(t, err)
	assert.Equal(t, "SELECT a AS x FROM T1 LEFT JOIN T2 ON t1.id=t2.id;\n", out)
}

func TestFormatCommandIdempotent(t *testing.T) {
	first, _, err := execute(t, "", "format", "select c.* from cliente c , estado where c.uf = estado.uf order by 1")
	require.NoError(t, err)

	second, _, err := execute(t, first, "format", "-")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFormatCommandJSON(t *testing.T) {
	out, _, err := execute(t, "", "--format", "json", "format", "SELECT a FROM t; select b from u")
	require.NoError(t, err)

	var resp struct {
		Data FormatResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "SELECT a FROM T;\nSELECT b FROM U;\n", resp.Data.SQL)
	assert.Len(t, resp.Data.Fingerprint, 64)
}

func TestFormatCommandParseError(t *testing.T) {
	_, _, err := execute(t, "", "format", "UPDATE t SET a = 1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
