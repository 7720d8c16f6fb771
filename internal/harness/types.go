package harness

import (
	"github.com/fatwin/paradoxdriver/internal/ast"
	"github.com/fatwin/paradoxdriver/internal/binder"
	"github.com/fatwin/paradoxdriver/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	// True if every expect clause matches.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Statements is the parsed input. Nil when parsing failed.
	Statements []ast.Statement `json:"-"`

	// ParseErr is the parse failure, if any.
	ParseErr error `json:"-"`

	// Bound holds one binding per statement when the scenario names a
	// catalog and parsing succeeded.
	Bound []*binder.Bound `json:"-"`

	// BindErrors collects binding problems across all statements.
	BindErrors []binder.Error `json:"bind_errors,omitempty"`

	// Record is the statement log entry written for this run.
	Record store.ParseRecord `json:"record"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
