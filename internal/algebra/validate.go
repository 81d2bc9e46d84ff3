package algebra

import (
	"fmt"

	"github.com/roach88/relalg/internal/value"
)

// ValidationResult lists the structural problems of an expression.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems describes every structural defect found, in traversal order.
	Problems []string
}

// Err returns the problems as one error, or nil when the expression is valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Problems: r.Problems}
}

// ValidationError reports an expression that failed Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid expression: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid expression: %s (and %d more)", e.Problems[0], len(e.Problems)-1)
}

// Validate checks the structure of an expression without a catalog: every
// node present, names non-empty, list lengths consistent. Whether tables
// and attributes exist is checked by Eval.
//
// Validate is a pure function with no side effects.
func Validate(e Expr) ValidationResult {
	v := &validator{
		problems: []string{},
	}
	v.validateExpr(e)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateExpr(e Expr) {
	switch expr := e.(type) {
	case nil:
		v.addProblem("missing expression")
	case *Scan:
		if expr.Table == "" {
			v.addProblem("scan: table name is empty")
		}
	case *Project:
		v.validateExpr(expr.From)
		v.validateNames("project", expr.Attributes)
	case *Select:
		v.validateExpr(expr.From)
		if expr.Where != nil {
			v.validatePredicate(expr.Where)
		}
	case *KeySelect:
		v.validateExpr(expr.From)
		if len(expr.Key) == 0 {
			v.addProblem("select_key: key is empty")
		}
		for i, k := range expr.Key {
			if k == nil {
				v.addProblem("select_key: key[%d] is null", i)
			}
		}
	case *Union:
		v.validateExpr(expr.Left)
		v.validateExpr(expr.Right)
	case *Minus:
		v.validateExpr(expr.Left)
		v.validateExpr(expr.Right)
	case *Join:
		v.validateExpr(expr.Left)
		v.validateExpr(expr.Right)
		if len(expr.LeftAttributes) != len(expr.RightAttributes) {
			v.addProblem("join: %d left attributes but %d right attributes",
				len(expr.LeftAttributes), len(expr.RightAttributes))
		}
		v.validateNonEmpty("join", expr.LeftAttributes)
		v.validateNonEmpty("join", expr.RightAttributes)
	case *NaturalJoin:
		v.validateExpr(expr.Left)
		v.validateExpr(expr.Right)
	default:
		v.addProblem("unknown expression type %T", e)
	}
}

func (v *validator) validateNames(op string, names []string) {
	if len(names) == 0 {
		v.addProblem("%s: no attributes", op)
		return
	}
	v.validateNonEmpty(op, names)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			v.addProblem("%s: attribute %q listed twice", op, n)
		}
		seen[n] = true
	}
}

func (v *validator) validateNonEmpty(op string, names []string) {
	for i, n := range names {
		if n == "" {
			v.addProblem("%s: attribute[%d] is empty", op, i)
		}
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		v.addProblem("missing predicate")
	case *Equals:
		v.validateComparison("eq", pred.Attribute, pred.Value)
	case *Compare:
		if !pred.Op.Valid() {
			v.addProblem("compare: unknown operator %q", string(pred.Op))
		}
		v.validateComparison("compare", pred.Attribute, pred.Value)
	case *And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case *Or:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case *Not:
		v.validatePredicate(pred.Predicate)
	default:
		v.addProblem("unknown predicate type %T", p)
	}
}

func (v *validator) validateComparison(op, attr string, val value.Value) {
	if attr == "" {
		v.addProblem("%s: attribute is empty", op)
	}
	if val == nil {
		v.addProblem("%s: value for %q is null", op, attr)
	}
}
