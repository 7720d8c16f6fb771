package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fatwin/paradoxdriver/internal/catalog"
	"github.com/fatwin/paradoxdriver/internal/parser"
)

// LimitOptions holds the parser limit flags shared by commands that parse.
type LimitOptions struct {
	MaxInputBytes int
	MaxTokens     int
}

// addLimitFlags registers --max-input-bytes and --max-tokens on cmd.
func addLimitFlags(cmd *cobra.Command, opts *LimitOptions) {
	cmd.Flags().IntVar(&opts.MaxInputBytes, "max-input-bytes", parser.DefaultMaxInputBytes, "maximum input size in bytes (0 = unlimited)")
	cmd.Flags().IntVar(&opts.MaxTokens, "max-tokens", parser.DefaultMaxTokens, "maximum number of tokens (0 = unlimited)")
}

// Parser builds a parser with the flag limits applied over the defaults.
func (o LimitOptions) Parser() *parser.Parser {
	limits := parser.DefaultLimits()
	limits.MaxInputBytes = o.MaxInputBytes
	limits.MaxTokens = o.MaxTokens
	return parser.New(limits)
}

// readSQL returns the SQL named by arg: the argument text itself, or the
// whole of the command's stdin when arg is "-".
func readSQL(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", WrapExitError(ExitCommandError, fmt.Sprintf("%s: reading stdin", ErrCodeReadFailed), err)
	}
	return string(data), nil
}

// loadCatalog loads and validates the catalog in dir. Load errors and
// validation problems are reported through f and returned as a command
// error.
func loadCatalog(f *OutputFormatter, dir string) (*catalog.Catalog, error) {
	cat, loadErrors := catalog.Load(dir, catalog.LoadModeCollectAll)
	if len(loadErrors) > 0 {
		return nil, outputLoadErrors(f, loadErrors)
	}
	f.VerboseLog("Loaded %d table(s) from %s", cat.Len(), dir)

	if problems := catalog.Validate(cat); len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Error()
		}
		_ = f.Error(ErrCodeCatalog, fmt.Sprintf("catalog has %d problem(s)", len(problems)), problems)
		if !f.IsJSON() {
			fmt.Fprintf(f.Writer, "  %s\n", strings.Join(msgs, "\n  "))
		}
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("catalog validation failed with %d error(s)", len(problems)))
	}
	return cat, nil
}

// outputLoadErrors reports catalog load errors. The first error's code is
// the response code; every message is listed.
func outputLoadErrors(f *OutputFormatter, errs []error) error {
	code, message := loadErrorCode(errs[0])
	if len(errs) == 1 {
		_ = f.Error(code, message, nil)
		return WrapExitError(ExitCommandError, code, errs[0])
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	_ = f.Error(code, fmt.Sprintf("catalog load failed with %d error(s)", len(errs)), msgs)
	if !f.IsJSON() {
		fmt.Fprintf(f.Writer, "  %s\n", strings.Join(msgs, "\n  "))
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("catalog load failed with %d error(s)", len(errs)))
}

// loadErrorCode extracts error code and message from a load error.
func loadErrorCode(err error) (string, string) {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
