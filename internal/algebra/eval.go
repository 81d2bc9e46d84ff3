package algebra

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/value"
)

// ErrUnknownTable is returned when a Scan names a table the catalog does
// not hold.
var ErrUnknownTable = errors.New("unknown table")

// Catalog resolves table names for Scan.
type Catalog interface {
	Table(name string) (*table.Table, bool)
}

// Tables is a Catalog backed by a map from name to table.
type Tables map[string]*table.Table

// NewTables returns a catalog holding ts under their names.
func NewTables(ts ...*table.Table) Tables {
	out := make(Tables, len(ts))
	for _, t := range ts {
		out[t.Name()] = t
	}
	return out
}

// Table implements Catalog.
func (c Tables) Table(name string) (*table.Table, bool) {
	t, ok := c[name]
	return t, ok
}

// Evaluator evaluates expressions against a catalog.
type Evaluator struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewEvaluator creates an evaluator over cat. A nil logger means
// slog.Default().
func NewEvaluator(cat Catalog, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{catalog: cat, logger: logger}
}

// Eval evaluates e against cat with the default logger.
func Eval(ctx context.Context, cat Catalog, e Expr) (*table.Table, error) {
	return NewEvaluator(cat, nil).Eval(ctx, e)
}

// Eval validates e, then evaluates it bottom-up. Catalog tables are never
// modified; every operator returns a new derived table.
//
// Errors are *ValidationError for a malformed expression, ErrUnknownTable
// (wrapped) for a missing table, the *table.Error of a failing operator, or
// ctx.Err() when the context is done before evaluation completes.
func (ev *Evaluator) Eval(ctx context.Context, e Expr) (*table.Table, error) {
	if err := Validate(e).Err(); err != nil {
		return nil, err
	}
	ev.logger.DebugContext(ctx, "RA", "expr", Format(e))
	return ev.eval(ctx, e)
}

func (ev *Evaluator) eval(ctx context.Context, e Expr) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch expr := e.(type) {
	case *Scan:
		t, ok := ev.catalog.Table(expr.Table)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTable, expr.Table)
		}
		return t, nil

	case *Project:
		from, err := ev.eval(ctx, expr.From)
		if err != nil {
			return nil, err
		}
		return from.Project(expr.Attributes...)

	case *Select:
		from, err := ev.eval(ctx, expr.From)
		if err != nil {
			return nil, err
		}
		if expr.Where == nil {
			return from.Select(nil), nil
		}
		pred, err := compilePredicate(from, expr.Where)
		if err != nil {
			return nil, err
		}
		return from.Select(pred), nil

	case *KeySelect:
		from, err := ev.eval(ctx, expr.From)
		if err != nil {
			return nil, err
		}
		return from.SelectKey(coerceKey(from, expr.Key)...)

	case *Union:
		left, right, err := ev.pair(ctx, expr.Left, expr.Right)
		if err != nil {
			return nil, err
		}
		return left.Union(right)

	case *Minus:
		left, right, err := ev.pair(ctx, expr.Left, expr.Right)
		if err != nil {
			return nil, err
		}
		return left.Minus(right)

	case *Join:
		left, right, err := ev.pair(ctx, expr.Left, expr.Right)
		if err != nil {
			return nil, err
		}
		return left.Join(expr.LeftAttributes, expr.RightAttributes, right)

	case *NaturalJoin:
		left, right, err := ev.pair(ctx, expr.Left, expr.Right)
		if err != nil {
			return nil, err
		}
		return left.NaturalJoin(right)

	default:
		return nil, fmt.Errorf("unknown expression type %T", e)
	}
}

func (ev *Evaluator) pair(ctx context.Context, l, r Expr) (*table.Table, *table.Table, error) {
	left, err := ev.eval(ctx, l)
	if err != nil {
		return nil, nil, err
	}
	right, err := ev.eval(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// coerceKey widens Int literals to Real where the key attribute is Real.
// Values that cannot be coerced are passed through so SelectKey reports
// the mismatch.
func coerceKey(t *table.Table, key []value.Value) []value.Value {
	positions, _ := t.ResolvePositions(t.Key())
	domains := t.DomainsAt(positions)
	if len(domains) != len(key) {
		return key
	}
	out := make([]value.Value, len(key))
	for i, v := range key {
		if c, err := value.Coerce(v, domains[i]); err == nil {
			out[i] = c
		} else {
			out[i] = v
		}
	}
	return out
}

// compilePredicate resolves the attributes of p against t and returns the
// tuple filter it describes.
func compilePredicate(t *table.Table, p Predicate) (table.Predicate, error) {
	switch pred := p.(type) {
	case *Equals:
		return t.Where(pred.Attribute, pred.Value)

	case *Compare:
		pos := t.Col(pred.Attribute)
		if pos < 0 {
			return nil, table.NewAttributeNotFoundError(t.Name(), pred.Attribute)
		}
		domain := t.DomainsAt([]int{pos})[0]
		want, err := value.Coerce(pred.Value, domain)
		if err != nil {
			return nil, table.NewDomainMismatchError(t.Name(), pos, domain, value.DomainOf(pred.Value))
		}
		want = value.Normalize(want)
		op := pred.Op
		return func(tup value.Tuple) bool {
			return op.holds(value.Compare(tup[pos], want))
		}, nil

	case *And:
		subs, err := compileAll(t, pred.Predicates)
		if err != nil {
			return nil, err
		}
		return func(tup value.Tuple) bool {
			for _, s := range subs {
				if !s(tup) {
					return false
				}
			}
			return true
		}, nil

	case *Or:
		subs, err := compileAll(t, pred.Predicates)
		if err != nil {
			return nil, err
		}
		return func(tup value.Tuple) bool {
			for _, s := range subs {
				if s(tup) {
					return true
				}
			}
			return false
		}, nil

	case *Not:
		sub, err := compilePredicate(t, pred.Predicate)
		if err != nil {
			return nil, err
		}
		return func(tup value.Tuple) bool { return !sub(tup) }, nil

	default:
		return nil, fmt.Errorf("unknown predicate type %T", p)
	}
}

func compileAll(t *table.Table, ps []Predicate) ([]table.Predicate, error) {
	out := make([]table.Predicate, 0, len(ps))
	for _, p := range ps {
		c, err := compilePredicate(t, p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
