package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatwin/paradoxdriver/internal/catalog"
	"github.com/fatwin/paradoxdriver/internal/parser"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Parse, binding or scenario failure
	ExitCommandError = 2 // Command error (invalid paths, unreadable input, database errors)
)

// Command error codes. Load codes are shared with the catalog package;
// parse errors carry their own E2xx codes.
const (
	ErrCodeGeneric    = catalog.ErrCodeGeneric  // Generic/unknown error
	ErrCodeNotFound   = catalog.ErrCodeNotFound // Path not found
	ErrCodeReadFailed = "E008"                  // Input could not be read
	ErrCodeStore      = "E009"                  // Statement log error
	ErrCodeBind       = "E400"                  // One or more binding errors
	ErrCodeCatalog    = "E100"                  // Catalog failed validation
	ErrCodeTestFailed = "E_TEST_FAILED"         // One or more scenarios failed
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an
// ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// newFormatter builds the formatter every command uses: results on the
// command's stdout, diagnostics on its stderr.
func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
	}
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E202", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// IsJSON reports whether output is JSON.
func (f *OutputFormatter) IsJSON() bool {
	return f.Format == "json"
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.IsJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.IsJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// ParseErrorDetails is the details payload of a reported parse error.
type ParseErrorDetails struct {
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Keyword string `json:"keyword,omitempty"`
	Limit   string `json:"limit,omitempty"`
}

// outputParseError reports a parse failure and returns the matching exit
// error. Parse failures exit with ExitFailure; anything else is a command
// error.
func outputParseError(f *OutputFormatter, src string, err error) error {
	var perr parser.Error
	if !errors.As(err, &perr) {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse failed", err)
	}

	line, col := lineColumn(src, perr.Pos())
	details := ParseErrorDetails{Offset: perr.Pos(), Line: line, Column: col}
	var uns *parser.UnsupportedStatementError
	if errors.As(err, &uns) {
		details.Keyword = uns.Keyword
	}
	var lim *parser.ResourceLimitError
	if errors.As(err, &lim) {
		details.Limit = lim.Limit
	}

	_ = f.Error(perr.Code(), perr.Error(), details)
	if !f.IsJSON() {
		printCaret(f.Writer, src, perr.Pos())
	}
	return WrapExitError(ExitFailure, perr.Code(), err)
}

// lineColumn converts a byte offset to a 1-based line and byte column.
func lineColumn(src string, offset int) (int, int) {
	offset = min(max(offset, 0), len(src))
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// printCaret prints the source line holding offset with a caret under it.
func printCaret(w io.Writer, src string, offset int) {
	offset = min(max(offset, 0), len(src))
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(src) && src[end] != '\n' {
		end++
	}
	fmt.Fprintf(w, "  %s\n", src[start:end])
	fmt.Fprintf(w, "  %*s^\n", offset-start, "")
}
