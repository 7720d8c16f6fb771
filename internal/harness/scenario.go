package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fatwin/paradoxdriver/internal/parser"
)

// Scenario defines a parse conformance scenario.
// A scenario feeds one SQL input to the parser and asserts on the
// statements, the error, or the binding against a catalog.
type Scenario struct {
	// Name uniquely identifies this scenario.
	// Also used as the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the SQL source handed to the parser.
	Input string `yaml:"input"`

	// Catalog is an optional directory of CUE table definitions.
	// When set, every parsed statement is bound against it.
	// Relative paths resolve against the scenario file location.
	Catalog string `yaml:"catalog,omitempty"`

	// Limits overrides individual parser limits. Unset fields keep
	// their defaults.
	Limits *LimitsClause `yaml:"limits,omitempty"`

	// Expect holds the expected outcome.
	Expect ExpectClause `yaml:"expect"`
}

// LimitsClause overrides parser.DefaultLimits.
type LimitsClause struct {
	MaxInputBytes int `yaml:"max_input_bytes,omitempty"`
	MaxTokens     int `yaml:"max_tokens,omitempty"`
	MaxStatements int `yaml:"max_statements,omitempty"`
	MaxDepth      int `yaml:"max_depth,omitempty"`
}

// apply returns the default limits with every set field replaced.
func (l *LimitsClause) apply() parser.Limits {
	limits := parser.DefaultLimits()
	if l == nil {
		return limits
	}
	if l.MaxInputBytes > 0 {
		limits.MaxInputBytes = l.MaxInputBytes
	}
	if l.MaxTokens > 0 {
		limits.MaxTokens = l.MaxTokens
	}
	if l.MaxStatements > 0 {
		limits.MaxStatements = l.MaxStatements
	}
	if l.MaxDepth > 0 {
		limits.MaxDepth = l.MaxDepth
	}
	return limits
}

// ExpectClause specifies the expected parse outcome.
// Error and Selects are mutually exclusive.
type ExpectClause struct {
	// Statements is the expected statement count.
	Statements *int `yaml:"statements,omitempty"`

	// Error is the expected parse failure.
	Error *ErrorClause `yaml:"error,omitempty"`

	// Selects lists expectations for the first len(Selects) statements.
	Selects []SelectClause `yaml:"selects,omitempty"`

	// Columns lists the bound output columns of the first statement, each
	// rendered as "TABLE.FIELD AS output". Requires Catalog.
	Columns []string `yaml:"columns,omitempty"`

	// BindErrors lists the expected binding error codes in report order.
	// Requires Catalog.
	BindErrors []string `yaml:"bind_errors,omitempty"`
}

// ErrorClause specifies an expected parse error.
type ErrorClause struct {
	// Kind is one of "lexical", "syntax", "unsupported" or "limit".
	Kind string `yaml:"kind"`

	// Offset is the expected byte offset, when given.
	Offset *int `yaml:"offset,omitempty"`

	// Keyword is the expected keyword of an unsupported statement.
	Keyword string `yaml:"keyword,omitempty"`

	// Limit is the expected limit name of a resource limit error.
	Limit string `yaml:"limit,omitempty"`
}

// SelectClause specifies one expected SELECT statement.
// Every list is compared exactly; empty predicate strings are not compared.
type SelectClause struct {
	// Fields are rendered "[qualifier.]name[ AS alias]".
	Fields []string `yaml:"fields"`

	// Tables are rendered "NAME[ alias]".
	Tables []string `yaml:"tables"`

	// Joins are rendered "left TYPE right[ ON text]", e.g. "0 LEFT 1 ON a = b".
	// A nil list is not compared; an empty list asserts no joins.
	Joins []string `yaml:"joins"`

	Where   string `yaml:"where,omitempty"`
	GroupBy string `yaml:"group_by,omitempty"`
	OrderBy string `yaml:"order_by,omitempty"`
}

// Error kinds accepted by ErrorClause.Kind.
const (
	KindLexical     = "lexical"
	KindSyntax      = "syntax"
	KindUnsupported = "unsupported"
	KindLimit       = "limit"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Catalog path resolves against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative catalog path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := parseScenario(data)
	if err != nil {
		return nil, err
	}

	// Resolve the catalog path BEFORE validation
	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) && basePath != "" {
		scenario.Catalog = filepath.Join(basePath, scenario.Catalog)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

func parseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "selcts:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	e := s.Expect
	if e.Statements == nil && e.Error == nil && len(e.Selects) == 0 &&
		len(e.Columns) == 0 && len(e.BindErrors) == 0 {
		return fmt.Errorf("expect must contain at least one clause")
	}

	if e.Error != nil {
		switch e.Error.Kind {
		case KindLexical, KindSyntax, KindUnsupported, KindLimit:
		case "":
			return fmt.Errorf("expect.error: kind is required")
		default:
			return fmt.Errorf("expect.error: unknown kind %q", e.Error.Kind)
		}
		if len(e.Selects) > 0 || e.Statements != nil {
			return fmt.Errorf("expect.error cannot be combined with statements or selects")
		}
	}

	for i, sel := range e.Selects {
		if len(sel.Fields) == 0 {
			return fmt.Errorf("expect.selects[%d]: fields is required", i)
		}
		if len(sel.Tables) == 0 {
			return fmt.Errorf("expect.selects[%d]: tables is required", i)
		}
	}

	if (len(e.Columns) > 0 || len(e.BindErrors) > 0) && s.Catalog == "" {
		return fmt.Errorf("expect.columns and expect.bind_errors require catalog")
	}

	if s.Catalog != "" {
		info, err := os.Stat(s.Catalog)
		if os.IsNotExist(err) {
			return fmt.Errorf("catalog directory not found: %s", s.Catalog)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("catalog is not a directory: %s", s.Catalog)
		}
	}

	if s.Limits != nil {
		l := s.Limits
		if l.MaxInputBytes < 0 || l.MaxTokens < 0 || l.MaxStatements < 0 || l.MaxDepth < 0 {
			return fmt.Errorf("limits must not be negative")
		}
	}

	return nil
}
