package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/relalg/internal/algebra"
	"github.com/roach88/relalg/internal/table"
)

// Scenario defines a relational algebra test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the CUE directory holding the table definitions.
	// Relative paths are resolved against the scenario file location.
	Schema string `yaml:"schema"`

	// Persist saves every table to an in-memory store and loads it back
	// after the inserts, so queries run against reloaded tables.
	Persist bool `yaml:"persist,omitempty"`

	// Inserts are applied in order after the schema rows.
	Inserts []InsertStep `yaml:"inserts,omitempty"`

	// Queries are evaluated in order against the resulting catalog.
	Queries []QueryStep `yaml:"queries"`
}

// InsertStep inserts one tuple.
type InsertStep struct {
	// Table names the target table.
	Table string `yaml:"table"`

	// Values are plain YAML scalars, converted to the attribute domains.
	Values []any `yaml:"values"`

	// ExpectError is the error code the insert must fail with.
	// Empty means the insert must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// QueryStep evaluates one expression.
type QueryStep struct {
	// Name identifies the query in results and transcripts.
	Name string `yaml:"name"`

	// Expr is the expression in the YAML form of package algebra.
	Expr algebra.Node `yaml:"expr"`

	// Expect validates the result. If nil, the query must only succeed.
	Expect *Expectation `yaml:"expect,omitempty"`
}

// Expectation specifies the expected outcome of a query.
// Only the fields that are set are checked.
type Expectation struct {
	Count      *int     `yaml:"count,omitempty"`
	Attributes []string `yaml:"attributes,omitempty"`
	Key        []string `yaml:"key,omitempty"`
	Contains   [][]any  `yaml:"contains,omitempty"`
	Absent     [][]any  `yaml:"absent,omitempty"`
	Error      string   `yaml:"error,omitempty"`
}

// Error codes for query failures that do not come from a table operator.
const (
	CodeUnknownTable      = "UNKNOWN_TABLE"
	CodeInvalidExpression = "INVALID_EXPRESSION"
)

var knownCodes = map[string]bool{
	string(table.ErrCodeAttributeNotFound):   true,
	string(table.ErrCodeArityMismatch):       true,
	string(table.ErrCodeDomainMismatch):      true,
	string(table.ErrCodeTypeMismatch):        true,
	string(table.ErrCodeDuplicateKey):        true,
	string(table.ErrCodeIncompatibleSchemas): true,
	string(table.ErrCodeDuplicateAttribute):  true,
	string(table.ErrCodeInvalidSchema):       true,
	CodeUnknownTable:                         true,
	CodeInvalidExpression:                    true,
}

// LoadScenario reads and parses a scenario YAML file, resolving the schema
// directory relative to the file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML, resolving a relative schema path
// against basePath.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	// Strict field validation catches typos like "querys:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the schema path BEFORE validation
	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) && basePath != "" {
		scenario.Schema = filepath.Join(basePath, scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema directory not found: %s", s.Schema)
	}

	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	for i, step := range s.Inserts {
		if step.Table == "" {
			return fmt.Errorf("inserts[%d]: table is required", i)
		}
		if len(step.Values) == 0 {
			return fmt.Errorf("inserts[%d]: values are required", i)
		}
		if step.ExpectError != "" && !knownCodes[step.ExpectError] {
			return fmt.Errorf("inserts[%d]: unknown error code %q", i, step.ExpectError)
		}
	}

	names := make(map[string]bool, len(s.Queries))
	for i, q := range s.Queries {
		if q.Name == "" {
			return fmt.Errorf("queries[%d]: name is required", i)
		}
		if names[q.Name] {
			return fmt.Errorf("queries[%d]: duplicate name %q", i, q.Name)
		}
		names[q.Name] = true

		if q.Expr.Expr == nil {
			return fmt.Errorf("queries[%d]: expr is required", i)
		}
		if err := validateExpectation(i, q.Expect); err != nil {
			return err
		}
	}

	return nil
}

// validateExpectation rejects expectations that can never hold.
func validateExpectation(index int, e *Expectation) error {
	if e == nil {
		return nil
	}
	if e.Error != "" {
		if !knownCodes[e.Error] {
			return fmt.Errorf("queries[%d].expect: unknown error code %q", index, e.Error)
		}
		if e.Count != nil || e.Attributes != nil || e.Key != nil || e.Contains != nil || e.Absent != nil {
			return fmt.Errorf("queries[%d].expect: error cannot be combined with result checks", index)
		}
	}
	if e.Count != nil && *e.Count < 0 {
		return fmt.Errorf("queries[%d].expect: count must be non-negative", index)
	}
	return nil
}
