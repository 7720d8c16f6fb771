package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/plan"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	LimitOptions
}

// StatementPlan is the plan of one statement.
type StatementPlan struct {
	Explain   string   `json:"explain"`
	ScanOrder []string `json:"scan_order"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <sql|->",
		Short: "Show the join tree of each statement",
		Long: `Parse SQL and print the left-deep join tree of each statement.

Comma-separated tables appear as implicit CROSS joins; explicit joins keep
their type and ON predicate. The scan order lists tables from the
outermost loop inwards.

Example:
  paradox plan 'SELECT * FROM cliente c, estado e LEFT JOIN pais p ON e.pais = p.id'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	addLimitFlags(cmd, &opts.LimitOptions)

	return cmd
}

func runPlan(opts *PlanOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	src, err := readSQL(cmd, arg)
	if err != nil {
		return err
	}

	stmts, err := opts.Parser().Parse(src)
	if err != nil {
		return outputParseError(formatter, src, err)
	}

	plans := make([]StatementPlan, 0, len(stmts))
	for i, stmt := range stmts {
		sel, ok := stmt.(*ast.SelectStatement)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("statement %d: unsupported statement type %T", i, stmt))
		}
		root, err := plan.Build(sel)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("statement %d: plan failed", i), err)
		}

		var order []string
		for _, scan := range plan.ScanOrder(root) {
			order = append(order, scan.Table)
		}
		plans = append(plans, StatementPlan{Explain: plan.Explain(root), ScanOrder: order})
	}

	if formatter.IsJSON() {
		return formatter.Success(plans)
	}

	for i, p := range plans {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "Statement %d:\n", i+1)
		fmt.Fprint(formatter.Writer, p.Explain)
		fmt.Fprintf(formatter.Writer, "Scan order: %s\n", strings.Join(p.ScanOrder, ", "))
	}
	return nil
}
