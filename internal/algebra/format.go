package algebra

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/relalg/internal/value"
)

// Format renders e in the one-line text form, e.g.
//
//	join[studioName = name](Movie, Studio)
//
// Output is deterministic: equal expressions format identically.
func Format(e Expr) string {
	var b strings.Builder
	formatExpr(&b, e)
	return b.String()
}

// FormatPredicate renders p in the text form used inside select[...].
func FormatPredicate(p Predicate) string {
	var b strings.Builder
	formatPredicate(&b, p)
	return b.String()
}

// FormatValue renders a literal: Text quoted, Real always with a decimal
// point or exponent, Int as is.
func FormatValue(v value.Value) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case value.Text:
		return strconv.Quote(string(x))
	case value.Real:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return x.String()
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	default:
		return v.String()
	}
}

func formatExpr(b *strings.Builder, e Expr) {
	switch expr := e.(type) {
	case *Scan:
		b.WriteString(expr.Table)
	case *Project:
		b.WriteString("project[")
		b.WriteString(strings.Join(expr.Attributes, ", "))
		b.WriteString("](")
		formatExpr(b, expr.From)
		b.WriteByte(')')
	case *Select:
		b.WriteString("select[")
		if expr.Where == nil {
			b.WriteString("true")
		} else {
			formatPredicate(b, expr.Where)
		}
		b.WriteString("](")
		formatExpr(b, expr.From)
		b.WriteByte(')')
	case *KeySelect:
		b.WriteString("select_key[")
		for i, k := range expr.Key {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(FormatValue(k))
		}
		b.WriteString("](")
		formatExpr(b, expr.From)
		b.WriteByte(')')
	case *Union:
		formatBinary(b, "union", expr.Left, expr.Right)
	case *Minus:
		formatBinary(b, "minus", expr.Left, expr.Right)
	case *Join:
		b.WriteString("join[")
		for i := range expr.LeftAttributes {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(expr.LeftAttributes[i])
			b.WriteString(" = ")
			if i < len(expr.RightAttributes) {
				b.WriteString(expr.RightAttributes[i])
			}
		}
		b.WriteByte(']')
		formatOperands(b, expr.Left, expr.Right)
	case *NaturalJoin:
		formatBinary(b, "natural_join", expr.Left, expr.Right)
	case nil:
		b.WriteString("<nil>")
	default:
		b.WriteString("<unknown>")
	}
}

func formatBinary(b *strings.Builder, name string, left, right Expr) {
	b.WriteString(name)
	formatOperands(b, left, right)
}

func formatOperands(b *strings.Builder, left, right Expr) {
	b.WriteByte('(')
	formatExpr(b, left)
	b.WriteString(", ")
	formatExpr(b, right)
	b.WriteByte(')')
}

func formatPredicate(b *strings.Builder, p Predicate) {
	switch pred := p.(type) {
	case *Equals:
		b.WriteString(pred.Attribute)
		b.WriteString(" = ")
		b.WriteString(FormatValue(pred.Value))
	case *Compare:
		b.WriteString(pred.Attribute)
		b.WriteByte(' ')
		b.WriteString(string(pred.Op))
		b.WriteByte(' ')
		b.WriteString(FormatValue(pred.Value))
	case *And:
		formatConnective(b, "and", "true", pred.Predicates)
	case *Or:
		formatConnective(b, "or", "false", pred.Predicates)
	case *Not:
		b.WriteString("not ")
		formatPredicate(b, pred.Predicate)
	case nil:
		b.WriteString("<nil>")
	default:
		b.WriteString("<unknown>")
	}
}

func formatConnective(b *strings.Builder, word, empty string, preds []Predicate) {
	switch len(preds) {
	case 0:
		b.WriteString(empty)
		return
	case 1:
		formatPredicate(b, preds[0])
		return
	}
	b.WriteByte('(')
	for i, p := range preds {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(word)
			b.WriteByte(' ')
		}
		formatPredicate(b, p)
	}
	b.WriteByte(')')
}
