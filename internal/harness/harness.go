package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/binder"
	"github.com/fatwin/paradoxdriver/internal/catalog"
	"github.com/fatwin/paradoxdriver/internal/parser"
	"github.com/fatwin/paradoxdriver/internal/store"
	"github.com/fatwin/paradoxdriver/internal/testutil"
)

// defaultParses is shared by every scenario that keeps the default limits,
// so suites that repeat an input parse it once.
var defaultParses = parser.NewCache(nil, 0)

// Harness is the scenario execution environment.
// It runs scenarios with a deterministic clock and record IDs.
type Harness struct {
	store  *store.Store
	clock  *testutil.DeterministicClock
	ids    *testutil.SequentialIDGenerator
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory statement log for
// isolation. Deterministic helpers make the logged record reproducible.
//
// Execution flow:
// 1. Create fresh in-memory store
// 2. Parse the input with the scenario's limits
// 3. Record the parse in the store
// 4. Bind against the catalog, if one is named
// 5. Evaluate expect clauses and return the result
//
// A returned error means the scenario could not run (bad catalog, store
// failure); a mismatch between input and expectations is reported through
// Result.Pass and Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(context.Background(), scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with a caller-supplied context and logger.
func RunWithLogger(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	clock := testutil.NewDeterministicClock()
	ids := testutil.NewSequentialIDGenerator("parse")

	st, err := store.Open(":memory:", store.WithSequencer(clock), store.WithIDGenerator(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  clock,
		ids:    ids,
		logger: logger.With("scenario", scenario.Name),
	}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	var cat *catalog.Catalog
	if scenario.Catalog != "" {
		c, errs := catalog.Load(scenario.Catalog, catalog.LoadModeFailFast)
		if len(errs) > 0 {
			return nil, fmt.Errorf("failed to load catalog: %w", errs[0])
		}
		cat = c
		h.logger.Debug("catalog loaded", "dir", scenario.Catalog, "tables", cat.Len())
	}

	result := NewResult()

	stmts, parseErr := parse(scenario)
	result.Statements = stmts
	result.ParseErr = parseErr

	rec, err := h.store.WriteParse(ctx, scenario.Input, stmts, parseErr)
	if err != nil {
		return nil, fmt.Errorf("failed to record parse: %w", err)
	}
	result.Record = rec
	h.logger.Debug("input parsed", "statements", len(stmts), "error", parseErr, "cache", defaultParses.Stats())

	if cat != nil && parseErr == nil {
		h.bind(cat, result)
	}

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

// parse parses the scenario input, through defaultParses unless the
// scenario overrides a limit.
func parse(scenario *Scenario) ([]ast.Statement, error) {
	if scenario.Limits == nil {
		return defaultParses.Parse(scenario.Input)
	}
	return parser.New(scenario.Limits.apply()).Parse(scenario.Input)
}

// bind binds every statement, collecting errors with a statement prefix
// when the input holds more than one.
func (h *Harness) bind(cat *catalog.Catalog, result *Result) {
	for i, stmt := range result.Statements {
		sel, ok := stmt.(*ast.SelectStatement)
		if !ok {
			continue
		}
		bound, errs := binder.Bind(cat, sel)
		result.Bound = append(result.Bound, bound)
		for _, e := range errs {
			if len(result.Statements) > 1 {
				e.Field = fmt.Sprintf("statement[%d].%s", i, e.Field)
			}
			result.BindErrors = append(result.BindErrors, e)
		}
	}
	h.logger.Debug("statements bound", "errors", len(result.BindErrors))
}
