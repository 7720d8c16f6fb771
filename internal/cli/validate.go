package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/binder"
	"github.com/fatwin/paradoxdriver/internal/harness"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	LimitOptions
	Catalog string // directory of CUE table definitions
}

// BoundStatement is the binding of one statement.
type BoundStatement struct {
	Columns []string       `json:"columns"`
	Errors  []binder.Error `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool             `json:"valid"`
	Statements []BoundStatement `json:"statements"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate --catalog <dir> <sql|->",
		Short: "Check SQL names against a table catalog",
		Long: `Parse SQL and bind every table and field name against a catalog of
CUE table definitions.

Reports unknown tables, unknown or ambiguous fields, and qualifiers that
name no table. On success prints the output columns with their tables.

Exit codes:
  0 - Every name resolved
  1 - Parse error or binding errors
  2 - Command error (catalog not found or invalid)

Example:
  paradox validate --catalog ./catalog 'SELECT c.nome, e.* FROM cliente c, estado e'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog directory (required)")
	_ = cmd.MarkFlagRequired("catalog")
	addLimitFlags(cmd, &opts.LimitOptions)

	return cmd
}

func runValidate(opts *ValidateOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, err := loadCatalog(formatter, opts.Catalog)
	if err != nil {
		return err
	}

	src, err := readSQL(cmd, arg)
	if err != nil {
		return err
	}

	stmts, err := opts.Parser().Parse(src)
	if err != nil {
		return outputParseError(formatter, src, err)
	}

	result := ValidationResult{Valid: true, Statements: make([]BoundStatement, 0, len(stmts))}
	errCount := 0
	for i, stmt := range stmts {
		sel, ok := stmt.(*ast.SelectStatement)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("statement %d: unsupported statement type %T", i, stmt))
		}
		formatter.VerboseLog("Binding statement %d", i+1)

		bound, errs := binder.Bind(cat, sel)
		bs := BoundStatement{Columns: []string{}, Errors: errs}
		if len(errs) == 0 {
			bs.Columns = harness.RenderColumns(bound)
		} else {
			result.Valid = false
			errCount += len(errs)
		}
		result.Statements = append(result.Statements, bs)
	}

	if formatter.IsJSON() {
		if !result.Valid {
			_ = formatter.Error(ErrCodeBind, fmt.Sprintf("binding failed with %d error(s)", errCount), result)
			return NewExitError(ExitFailure, fmt.Sprintf("binding failed with %d error(s)", errCount))
		}
		return formatter.Success(result)
	}

	w := formatter.Writer
	if !result.Valid {
		fmt.Fprintln(w, "✗ Binding failed")
		for i, bs := range result.Statements {
			for _, e := range bs.Errors {
				fmt.Fprintf(w, "  statement %d: %s\n", i+1, e.Error())
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("binding failed with %d error(s)", errCount))
	}

	fmt.Fprintf(w, "✓ %d statement(s) valid\n", len(result.Statements))
	for i, bs := range result.Statements {
		fmt.Fprintf(w, "\nStatement %d columns:\n", i+1)
		for _, c := range bs.Columns {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
	return nil
}
