package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/relalg/internal/algebra"
	"github.com/roach88/relalg/internal/schema"
	"github.com/roach88/relalg/internal/store"
	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs scenarios with a deterministic namer and snapshot ids.
type Harness struct {
	catalog algebra.Tables
	options []table.Option
	ids     store.IDGenerator
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against freshly built tables and, when it persists,
// a fresh in-memory database. Deterministic helpers ensure reproducible
// results.
//
// Execution flow:
// 1. Load and compile the schema directory
// 2. Execute inserts, checking expected error codes
// 3. Optionally round-trip every table through the store
// 4. Evaluate queries and check their expectations
//
// The returned error reports a scenario that could not be executed at all
// (unloadable schema, store failure, canceled context); expectation
// failures are recorded in the result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := testutil.DiscardLogger()
	h := &Harness{
		catalog: algebra.Tables{},
		options: []table.Option{table.WithNamer(table.NewNamer()), table.WithLogger(logger)},
		ids:     testutil.NewSequenceIDGenerator(),
		logger:  logger,
	}

	if err := h.loadSchema(scenario.Schema); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	result := NewResult(scenario.Name)
	h.executeInserts(scenario.Inserts, result)

	if scenario.Persist {
		if err := h.roundTrip(ctx); err != nil {
			return nil, fmt.Errorf("failed to persist tables: %w", err)
		}
	}

	if err := h.executeQueries(ctx, scenario.Queries, result); err != nil {
		return nil, fmt.Errorf("failed to execute queries: %w", err)
	}

	return result, nil
}

// RunAll runs scenarios concurrently, at most limit at a time (limit <= 0
// means no limit). Results are returned in scenario order. The first
// execution error cancels the remaining runs.
func RunAll(ctx context.Context, scenarios []*Scenario, limit int) ([]*Result, error) {
	results := make([]*Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, s := range scenarios {
		i, s := i, s
		g.Go(func() error {
			r, err := Run(ctx, s)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (h *Harness) loadSchema(dir string) error {
	res, errs := schema.LoadDir(dir, schema.LoadModeFailFast)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	for _, def := range res.Definitions {
		t, err := schema.Build(def, h.options...)
		if err != nil {
			return err
		}
		h.catalog[t.Name()] = t
	}
	return nil
}

// executeInserts runs every insert step. A step that fails with an
// unexpected code, or succeeds when a failure was expected, is recorded as
// an error and does not stop the run.
func (h *Harness) executeInserts(steps []InsertStep, result *Result) {
	for i, step := range steps {
		sr := StepResult{Kind: StepInsert, Name: step.Table, Detail: formatValues(step.Values)}

		t, ok := h.catalog[step.Table]
		if !ok {
			sr.Code = CodeUnknownTable
		} else if err := t.InsertValues(step.Values...); err != nil {
			sr.Code = ErrorCode(err)
		}
		result.Steps = append(result.Steps, sr)

		if sr.Code != step.ExpectError {
			result.AddError(fmt.Sprintf("inserts[%d] into %s: expected %s, got %s",
				i, step.Table, outcome(step.ExpectError), outcome(sr.Code)))
		}
	}
}

// roundTrip saves every table to an in-memory store and replaces the
// catalog with the reloaded tables.
func (h *Harness) roundTrip(ctx context.Context) error {
	st, err := store.Open(":memory:", store.WithIDGenerator(h.ids), store.WithLogger(h.logger))
	if err != nil {
		return err
	}
	defer st.Close()

	names := make([]string, 0, len(h.catalog))
	for name := range h.catalog {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if _, err := st.Save(ctx, h.catalog[name]); err != nil {
			return err
		}
	}
	for _, name := range names {
		t, err := st.Load(ctx, name, h.options...)
		if err != nil {
			return err
		}
		h.catalog[name] = t
	}
	return nil
}

func (h *Harness) executeQueries(ctx context.Context, steps []QueryStep, result *Result) error {
	ev := algebra.NewEvaluator(h.catalog, h.logger)
	for _, step := range steps {
		sr := StepResult{Kind: StepQuery, Name: step.Name, Detail: algebra.Format(step.Expr.Expr)}

		out, err := ev.Eval(ctx, step.Expr.Expr)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			sr.Code = ErrorCode(err)
		} else {
			sr.Output = out
		}
		result.Steps = append(result.Steps, sr)

		for _, msg := range checkExpectation(step, sr) {
			result.AddError(msg)
		}
	}
	return nil
}

// ErrorCode maps an operation error to the code scenarios (and the CLI)
// refer to it by: the table error code, UNKNOWN_TABLE, INVALID_EXPRESSION
// or ERROR.
func ErrorCode(err error) string {
	var verr *algebra.ValidationError
	switch {
	case table.CodeOf(err) != "":
		return string(table.CodeOf(err))
	case errors.Is(err, algebra.ErrUnknownTable):
		return CodeUnknownTable
	case errors.As(err, &verr):
		return CodeInvalidExpression
	default:
		return "ERROR"
	}
}

func outcome(code string) string {
	if code == "" {
		return "success"
	}
	return code
}

func formatValues(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
