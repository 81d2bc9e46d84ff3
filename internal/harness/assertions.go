package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/value"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Query    string // Query the expectation belongs to
	Type     string // Expectation kind for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "query %s: %s failed\n", e.Query, e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// checkExpectation compares a query outcome against its expectation and
// returns one message per failed check.
func checkExpectation(step QueryStep, sr StepResult) []string {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	e := step.Expect
	switch {
	case e == nil || e.Error == "":
		if sr.Code != "" {
			add(&AssertionError{Query: step.Name, Type: "success", Expected: "success", Actual: sr.Code})
			break
		}
		if e == nil {
			break
		}
		add(assertCount(step.Name, e, sr.Output))
		add(assertNames(step.Name, "attributes", e.Attributes, sr.Output.Attributes()))
		add(assertNames(step.Name, "key", e.Key, sr.Output.Key()))
		for _, row := range e.Contains {
			add(assertTuple(step.Name, "contains", row, sr.Output, true))
		}
		for _, row := range e.Absent {
			add(assertTuple(step.Name, "absent", row, sr.Output, false))
		}
	default:
		if sr.Code != e.Error {
			add(&AssertionError{Query: step.Name, Type: "error", Expected: e.Error, Actual: outcome(sr.Code)})
		}
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return msgs
}

func assertCount(query string, e *Expectation, out *table.Table) error {
	if e.Count == nil || *e.Count == out.Len() {
		return nil
	}
	return &AssertionError{
		Query:    query,
		Type:     "count",
		Expected: fmt.Sprintf("%d tuples", *e.Count),
		Actual:   fmt.Sprintf("%d tuples", out.Len()),
	}
}

func assertNames(query, kind string, want, got []string) error {
	if want == nil || slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Query:    query,
		Type:     kind,
		Expected: fmt.Sprintf("%v", want),
		Actual:   fmt.Sprintf("%v", got),
	}
}

// assertTuple checks whether the literal row is (present) or is not
// (!present) a tuple of out. Literals are converted to out's domains.
func assertTuple(query, kind string, row []any, out *table.Table, present bool) error {
	tup, err := literalTuple(row, out.Domains())
	if err != nil {
		return &AssertionError{Query: query, Type: kind, Expected: formatValues(row), Actual: err.Error()}
	}

	found := slices.ContainsFunc(out.Tuples(), tup.Equal)
	if found == present {
		return nil
	}

	actual := "not found in output"
	if found {
		actual = "found in output"
	}
	return &AssertionError{Query: query, Type: kind, Expected: tup.String(), Actual: actual}
}

func literalTuple(row []any, domains []value.Domain) (value.Tuple, error) {
	if len(row) != len(domains) {
		return nil, fmt.Errorf("row has %d values, output has %d attributes", len(row), len(domains))
	}
	tup := make(value.Tuple, len(row))
	for i, x := range row {
		v, err := value.FromAnyAs(x, domains[i])
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		tup[i] = v
	}
	return tup, nil
}
