package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/sqlfmt"
)

// FormatOptions holds flags for the format command.
type FormatOptions struct {
	*RootOptions
	LimitOptions
}

// FormatResult is the JSON payload of the format command.
type FormatResult struct {
	SQL         string `json:"sql"`
	Fingerprint string `json:"fingerprint"`
}

// NewFormatCommand creates the format command.
func NewFormatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FormatOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "format <sql|->",
		Short: "Re-print SQL in canonical form",
		Long: `Parse SQL and print it back in canonical form: uppercase keywords,
uppercase table names, quoted identifiers where needed, and one statement
per line. Formatting the output again yields the same text.

Example:
  paradox format 'select a x from t1 left outer join t2 on t1.id=t2.id'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(opts, args[0], cmd)
		},
	}

	addLimitFlags(cmd, &opts.LimitOptions)

	return cmd
}

func runFormat(opts *FormatOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	src, err := readSQL(cmd, arg)
	if err != nil {
		return err
	}

	stmts, err := opts.Parser().Parse(src)
	if err != nil {
		return outputParseError(formatter, src, err)
	}

	out, err := sqlfmt.FormatAll(stmts)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "format failed", err)
	}

	if formatter.IsJSON() {
		fp, err := ast.Fingerprint(stmts)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to fingerprint statements", err)
		}
		return formatter.Success(FormatResult{SQL: out, Fingerprint: fp})
	}

	fmt.Fprint(formatter.Writer, out)
	return nil
}
