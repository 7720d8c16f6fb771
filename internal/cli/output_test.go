package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatwin/paradoxdriver/internal/parser"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"result": "success"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E202", "syntax error", map[string]int{"offset": 17})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E202", resp.Error.Code)
	assert.Equal(t, "syntax error", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("E005", "catalog directory not found", map[string]string{"dir": "x"}))
	assert.Contains(t, buf.String(), "Error [E005]: catalog directory not found")
	assert.NotContains(t, buf.String(), "Details:")

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error("E005", "catalog directory not found", map[string]string{"dir": "x"}))
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Binding statement %d", 1)

			assert.Empty(t, out.String(), "diagnostics never go to the result writer")
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "Binding statement 1")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "E202", errors.New("inner")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Equal(t, "outer: E202: inner", wrapped.Error())
}

func TestLineColumn(t *testing.T) {
	src := "SELECT a\nFROM t1,\n"
	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{7, 1, 8},
		{9, 2, 1},
		{16, 2, 8},
		{17, 2, 9},
		{-5, 1, 1},
		{100, 3, 1},
	}
	for _, tt := range tests {
		line, col := lineColumn(src, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
	}
}

func TestPrintCaret(t *testing.T) {
	buf := &bytes.Buffer{}
	printCaret(buf, "SELECT a\nFROM t1,\nWHERE", 17)
	assert.Equal(t, "  FROM t1,\n          ^\n", buf.String())
}

func TestOutputParseError(t *testing.T) {
	src := "SELECT a FROM t1,"
	_, parseErr := parser.Parse(src)
	require.Error(t, parseErr)

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := outputParseError(&OutputFormatter{Format: "text", Writer: buf}, src, parseErr)

		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, buf.String(), "Error [E202]")
		assert.Contains(t, buf.String(), "  SELECT a FROM t1,\n                   ^\n")
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := outputParseError(&OutputFormatter{Format: "json", Writer: buf}, src, parseErr)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		var resp struct {
			Status string `json:"status"`
			Error  struct {
				Code    string            `json:"code"`
				Details ParseErrorDetails `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "E202", resp.Error.Code)
		assert.Equal(t, ParseErrorDetails{Offset: 17, Line: 1, Column: 18}, resp.Error.Details)
	})

	t.Run("unsupported keyword", func(t *testing.T) {
		_, err := parser.Parse("DELETE FROM t")
		buf := &bytes.Buffer{}
		_ = outputParseError(&OutputFormatter{Format: "json", Writer: buf}, "DELETE FROM t", err)
		assert.Contains(t, buf.String(), `"keyword":"DELETE"`)
	})

	t.Run("foreign error", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := outputParseError(&OutputFormatter{Format: "text", Writer: buf}, src, errors.New("boom"))
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, buf.String(), "Error [E001]: boom")
	})
}
