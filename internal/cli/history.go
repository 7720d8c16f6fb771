package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fatwin/paradoxdriver/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database    string
	Limit       int
	Fingerprint string // optional - only parses with this fingerprint
	ID          string // optional - a single record
}

// HistoryResult holds the history output.
type HistoryResult struct {
	Records []store.ParseRecord `json:"records"`
	Stats   HistoryStats        `json:"stats"`
}

// HistoryStats holds summary statistics for the listed records.
type HistoryStats struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Distinct  int `json:"distinct_fingerprints"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded parses",
		Long: `List parses recorded in a statement log by "paradox parse --db".

Records are listed oldest first. Successful parses show their fingerprint;
failed ones show their error code and offset. Parses of the same statement
written differently share a fingerprint.

Examples:
  paradox history --db ./parses.db
  paradox history --db ./parses.db --limit 5
  paradox history --db ./parses.db --fingerprint 3f2a...
  paradox history --db ./parses.db --id 01920c7e-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite statement log (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "show the most recent N records (0 = all)")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "only parses with this fingerprint")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single record")
	cmd.MarkFlagsMutuallyExclusive("fingerprint", "id")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	records, err := readRecords(ctx, st, opts)
	if errors.Is(err, sql.ErrNoRows) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("no record with id %s", opts.ID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("record not found: %s", opts.ID))
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	result := HistoryResult{Records: records, Stats: historyStats(records)}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	return outputHistoryText(formatter, result)
}

func readRecords(ctx context.Context, st *store.Store, opts *HistoryOptions) ([]store.ParseRecord, error) {
	switch {
	case opts.ID != "":
		rec, err := st.ReadParse(ctx, opts.ID)
		if err != nil {
			return nil, err
		}
		return []store.ParseRecord{rec}, nil
	case opts.Fingerprint != "":
		return st.ReadByFingerprint(ctx, opts.Fingerprint)
	default:
		return st.ReadHistory(ctx, opts.Limit)
	}
}

func historyStats(records []store.ParseRecord) HistoryStats {
	stats := HistoryStats{Total: len(records)}
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.Error != nil {
			stats.Failed++
			continue
		}
		stats.Succeeded++
		if !seen[rec.Fingerprint] {
			seen[rec.Fingerprint] = true
			stats.Distinct++
		}
	}
	return stats
}

func outputHistoryText(f *OutputFormatter, result HistoryResult) error {
	w := f.Writer
	if len(result.Records) == 0 {
		fmt.Fprintln(w, "No parses recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRESULT\tSOURCE")
	for _, rec := range result.Records {
		outcome := "ok " + shortFingerprint(rec.Fingerprint)
		if rec.Error != nil {
			outcome = fmt.Sprintf("%s @%d", rec.Error.Code, rec.Error.Offset)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", rec.Seq, outcome, oneLine(rec.Source, 60))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := result.Stats
	fmt.Fprintf(w, "\n%d parse(s): %d ok, %d failed, %d distinct statement(s)\n",
		s.Total, s.Succeeded, s.Failed, s.Distinct)
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// oneLine collapses whitespace runs in s and truncates it to width runes.
func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}
