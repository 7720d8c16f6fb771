package harness

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/parser"
	"github.com/fatwin/paradoxdriver/internal/store"
)

// Snapshot renders a result for golden comparison: the canonical JSON of
// the statements on success, or "CODE message" on a parse failure.
func Snapshot(result *Result) ([]byte, error) {
	if result.ParseErr != nil {
		code := store.ErrCodeUnknown
		var perr parser.Error
		if errors.As(result.ParseErr, &perr) {
			code = perr.Code()
		}
		return []byte(fmt.Sprintf("%s %s", code, result.ParseErr)), nil
	}
	return ast.MarshalCanonical(result.Statements)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
