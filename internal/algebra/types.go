package algebra

import (
	"github.com/roach88/relalg/internal/value"
)

// Expr is a relational algebra expression producing a table.
//
// This is a sealed interface - only types in this package implement it.
type Expr interface {
	exprNode()
}

// Predicate is a tuple filter used by Select.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode()
}

// Scan reads a table of the catalog by name.
type Scan struct {
	Table string
}

// Project keeps the named attributes of From, in the given order.
type Project struct {
	From       Expr
	Attributes []string
}

// Select keeps the tuples of From satisfying Where (nil keeps every tuple).
type Select struct {
	From  Expr
	Where Predicate
}

// KeySelect looks Key up in the index of From. Key has one value per key
// attribute of From, in key order.
type KeySelect struct {
	From Expr
	Key  []value.Value
}

// Union is the duplicate-free union of Left and Right.
type Union struct {
	Left, Right Expr
}

// Minus keeps the tuples of Left that do not appear in Right.
type Minus struct {
	Left, Right Expr
}

// Join is the theta equi-join of Left and Right on
// Left[LeftAttributes[i]] = Right[RightAttributes[i]].
type Join struct {
	Left, Right     Expr
	LeftAttributes  []string
	RightAttributes []string
}

// NaturalJoin joins Left and Right on their common attribute names.
type NaturalJoin struct {
	Left, Right Expr
}

func (*Scan) exprNode()        {}
func (*Project) exprNode()     {}
func (*Select) exprNode()      {}
func (*KeySelect) exprNode()   {}
func (*Union) exprNode()       {}
func (*Minus) exprNode()       {}
func (*Join) exprNode()        {}
func (*NaturalJoin) exprNode() {}

// Op is a comparison operator.
type Op string

const (
	OpNe Op = "!="
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
)

// Valid reports whether o is one of the declared operators.
func (o Op) Valid() bool {
	switch o {
	case OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

// holds reports whether a comparison result c (as returned by
// value.Compare) satisfies o.
func (o Op) holds(c int) bool {
	switch o {
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	}
	return false
}

// Equals matches tuples whose Attribute equals Value.
type Equals struct {
	Attribute string
	Value     value.Value
}

// Compare matches tuples where Attribute Op Value holds under the value
// order of package value.
type Compare struct {
	Attribute string
	Op        Op
	Value     value.Value
}

// And matches when every predicate matches (empty: always).
type And struct {
	Predicates []Predicate
}

// Or matches when any predicate matches (empty: never).
type Or struct {
	Predicates []Predicate
}

// Not inverts Predicate.
type Not struct {
	Predicate Predicate
}

func (*Equals) predicateNode()  {}
func (*Compare) predicateNode() {}
func (*And) predicateNode()     {}
func (*Or) predicateNode()      {}
func (*Not) predicateNode()     {}
