package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/harness"
	"github.com/fatwin/paradoxdriver/internal/store"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	LimitOptions
	Database string // optional statement log
}

// ParseResult is the JSON payload of a successful parse.
type ParseResult struct {
	Statements  []any  `json:"statements"`
	Fingerprint string `json:"fingerprint"`
	RecordID    string `json:"record_id,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <sql|->",
		Short: "Parse SQL and print the syntax tree",
		Long: `Parse one or more SELECT statements and print their syntax tree.

The SQL is taken from the argument, or from stdin when the argument is "-".
With --db every parse, successful or not, is appended to the statement log.

Exit codes:
  0 - Input parsed
  1 - Lexical, syntax, unsupported statement or resource limit error
  2 - Command error (unreadable input, database error)

Examples:
  paradox parse 'SELECT * FROM "cliente.db"'
  echo 'SELECT a FROM t1 LEFT JOIN t2 ON t1.id = t2.id' | paradox parse -
  paradox parse --db ./parses.db --format json 'SELECT codigo FROM cliente'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite statement log (optional)")
	addLimitFlags(cmd, &opts.LimitOptions)

	return cmd
}

func runParse(opts *ParseOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	src, err := readSQL(cmd, arg)
	if err != nil {
		return err
	}

	stmts, parseErr := opts.Parser().Parse(src)

	var rec store.ParseRecord
	if opts.Database != "" {
		rec, err = recordParse(cmd.Context(), opts.Database, src, stmts, parseErr)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record parse", err)
		}
		formatter.VerboseLog("Recorded parse %s (seq %d)", rec.ID, rec.Seq)
	}

	if parseErr != nil {
		return outputParseError(formatter, src, parseErr)
	}

	tree, err := ast.ToList(stmts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode statements", err)
	}
	fp, err := ast.Fingerprint(stmts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint statements", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(ParseResult{Statements: tree, Fingerprint: fp, RecordID: rec.ID})
	}
	return outputParseText(formatter, stmts, fp)
}

// recordParse appends one parse outcome to the statement log at path.
func recordParse(ctx context.Context, path, src string, stmts []ast.Statement, parseErr error) (store.ParseRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(path)
	if err != nil {
		return store.ParseRecord{}, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	return st.WriteParse(ctx, src, stmts, parseErr)
}

// outputParseText prints each statement as an indented outline.
func outputParseText(f *OutputFormatter, stmts []ast.Statement, fingerprint string) error {
	w := f.Writer
	fmt.Fprintf(w, "✓ Parsed %d statement(s)\n", len(stmts))

	for i, stmt := range stmts {
		sel, ok := stmt.(*ast.SelectStatement)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("unsupported statement type %T", stmt))
		}
		fmt.Fprintf(w, "\nStatement %d: SELECT\n", i+1)

		fmt.Fprintln(w, "  Fields:")
		for _, field := range sel.Fields {
			fmt.Fprintf(w, "    %s\n", harness.RenderField(field))
		}

		fmt.Fprintln(w, "  Tables:")
		for j, table := range sel.Tables {
			if table.Alias != "" {
				fmt.Fprintf(w, "    [%d] %s AS %s\n", j, table.Name, table.Alias)
			} else {
				fmt.Fprintf(w, "    [%d] %s\n", j, table.Name)
			}
		}

		if len(sel.Joins) > 0 {
			fmt.Fprintln(w, "  Joins:")
			for _, join := range sel.Joins {
				fmt.Fprintf(w, "    %s JOIN [%d] -> [%d]", join.Type, join.Left, join.Right)
				if join.On != nil {
					fmt.Fprintf(w, " ON %s", join.On.Text)
				}
				fmt.Fprintln(w)
			}
		}

		printPredicate(f, "Where", sel.Where)
		printPredicate(f, "Group by", sel.GroupBy)
		printPredicate(f, "Order by", sel.OrderBy)
	}

	if len(stmts) > 0 {
		fmt.Fprintf(w, "\nFingerprint: %s\n", fingerprint)
	}
	return nil
}

func printPredicate(f *OutputFormatter, label string, p *ast.Predicate) {
	if p == nil {
		return
	}
	fmt.Fprintf(f.Writer, "  %s: %s\n", label, p.Text)
}
