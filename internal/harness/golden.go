package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/relalg/internal/render"
)

// Transcript renders a result as text: one line per insert, then every
// query with its formatted expression followed by the printed output table
// or the error code.
//
//	scenario: movies
//	insert Movie [Star_Wars, 1977, 121, Fox]: DUPLICATE_KEY
//
//	query fox_titles: project[title, year](select[studioName = "Fox"](Movie))
//
//	 Table Movie01
//	...
//
// Derived table names come from the scenario's namer, so transcripts are
// stable across runs.
func Transcript(result *Result) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", result.Scenario)

	for _, s := range result.Steps {
		switch s.Kind {
		case StepInsert:
			fmt.Fprintf(&b, "insert %s %s: %s\n", s.Name, s.Detail, insertOutcome(s.Code))
		case StepQuery:
			fmt.Fprintf(&b, "\nquery %s: %s\n", s.Name, s.Detail)
			if s.Code != "" {
				fmt.Fprintf(&b, "error: %s\n", s.Code)
				continue
			}
			if err := render.Print(&b, s.Output); err != nil {
				return nil, err
			}
		}
	}
	return []byte(b.String()), nil
}

func insertOutcome(code string) string {
	if code == "" {
		return "ok"
	}
	return code
}

// RunWithGolden executes a scenario and compares its transcript against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the transcript doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the transcript of an existing result against a
// golden file without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Transcript(result)
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
