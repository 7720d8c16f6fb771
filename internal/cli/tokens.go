package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// TokensOptions holds flags for the tokens command.
type TokensOptions struct {
	*RootOptions
	LimitOptions
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokensOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tokens <sql|->",
		Short: "Print the token stream of SQL",
		Long: `Tokenize SQL and print one token per line with its byte offset and kind.

Whitespace and comments are skipped; the final EOF token is included.

Example:
  paradox tokens 'SELECT "nome" FROM cliente -- all rows'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(opts, args[0], cmd)
		},
	}

	addLimitFlags(cmd, &opts.LimitOptions)

	return cmd
}

func runTokens(opts *TokensOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	src, err := readSQL(cmd, arg)
	if err != nil {
		return err
	}

	tokens, err := opts.Parser().Tokenize(src)
	if err != nil {
		return outputParseError(formatter, src, err)
	}

	if formatter.IsJSON() {
		return formatter.Success(tokens)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tKIND\tTEXT")
	for _, tok := range tokens {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", tok.Offset, tok.Kind, tok.Text)
	}
	return tw.Flush()
}
