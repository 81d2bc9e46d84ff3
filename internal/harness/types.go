package harness

import (
	"github.com/roach88/relalg/internal/table"
)

// Step kinds recorded in a Result.
const (
	StepInsert = "insert"
	StepQuery  = "query"
)

// StepResult records the outcome of one insert or query.
type StepResult struct {
	// Kind is StepInsert or StepQuery.
	Kind string

	// Name is the target table of an insert or the name of a query.
	Name string

	// Detail is the inserted values or the formatted expression.
	Detail string

	// Code is the error code of a failed step, empty on success.
	Code string

	// Output is the table a successful query produced.
	Output *table.Table
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario is the name of the scenario that ran.
	Scenario string

	// Pass indicates overall test success.
	// True if every step behaved as expected.
	Pass bool

	// Steps lists inserts, then queries, in scenario order.
	Steps []StepResult

	// Errors contains expectation failures.
	// Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Steps:    []StepResult{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Query returns the step of the named query.
func (r *Result) Query(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Kind == StepQuery && s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}
