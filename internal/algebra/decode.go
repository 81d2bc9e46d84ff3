package algebra

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/relalg/internal/value"
)

// DecodeError reports a malformed YAML expression with its source position.
type DecodeError struct {
	Line    int
	Column  int
	Message string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func decodeErrorf(n *yaml.Node, format string, args ...any) *DecodeError {
	e := &DecodeError{Message: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}

// Node wraps an expression so it can be a field of a YAML-decoded struct.
type Node struct {
	Expr Expr
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	e, err := DecodeExpr(value)
	if err != nil {
		return err
	}
	n.Expr = e
	return nil
}

// ParseYAML decodes a single YAML document holding one expression.
func ParseYAML(data []byte) (Expr, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse expression: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, &DecodeError{Message: "expected one expression document"}
	}
	return DecodeExpr(doc.Content[0])
}

// DecodeExpr decodes an expression from a YAML node.
func DecodeExpr(n *yaml.Node) (Expr, error) {
	op, body, err := singleEntry(n, "expression")
	if err != nil {
		return nil, err
	}

	switch op {
	case "scan":
		name, err := scalarString(body)
		if err != nil {
			return nil, err
		}
		return &Scan{Table: name}, nil

	case "project":
		f, err := fields(body, "from", "attributes")
		if err != nil {
			return nil, err
		}
		from, err := requiredExpr(body, f, "from")
		if err != nil {
			return nil, err
		}
		attrs, err := requiredStrings(body, f, "attributes")
		if err != nil {
			return nil, err
		}
		return &Project{From: from, Attributes: attrs}, nil

	case "select":
		f, err := fields(body, "from", "where")
		if err != nil {
			return nil, err
		}
		from, err := requiredExpr(body, f, "from")
		if err != nil {
			return nil, err
		}
		sel := &Select{From: from}
		if w, ok := f["where"]; ok {
			if sel.Where, err = DecodePredicate(w); err != nil {
				return nil, err
			}
		}
		return sel, nil

	case "select_key":
		f, err := fields(body, "from", "key")
		if err != nil {
			return nil, err
		}
		from, err := requiredExpr(body, f, "from")
		if err != nil {
			return nil, err
		}
		k, ok := f["key"]
		if !ok {
			return nil, decodeErrorf(body, "select_key: missing key")
		}
		key, err := scalarValues(k)
		if err != nil {
			return nil, err
		}
		return &KeySelect{From: from, Key: key}, nil

	case "union", "minus", "natural_join":
		left, right, err := operandPair(body, op)
		if err != nil {
			return nil, err
		}
		switch op {
		case "union":
			return &Union{Left: left, Right: right}, nil
		case "minus":
			return &Minus{Left: left, Right: right}, nil
		default:
			return &NaturalJoin{Left: left, Right: right}, nil
		}

	case "join":
		f, err := fields(body, "left", "right", "left_attributes", "right_attributes")
		if err != nil {
			return nil, err
		}
		left, err := requiredExpr(body, f, "left")
		if err != nil {
			return nil, err
		}
		right, err := requiredExpr(body, f, "right")
		if err != nil {
			return nil, err
		}
		j := &Join{Left: left, Right: right}
		if n, ok := f["left_attributes"]; ok {
			if j.LeftAttributes, err = stringList(n); err != nil {
				return nil, err
			}
		}
		if n, ok := f["right_attributes"]; ok {
			if j.RightAttributes, err = stringList(n); err != nil {
				return nil, err
			}
		}
		return j, nil

	default:
		return nil, decodeErrorf(n, "unknown operator %q", op)
	}
}

// DecodePredicate decodes a predicate from a YAML node.
func DecodePredicate(n *yaml.Node) (Predicate, error) {
	op, body, err := singleEntry(n, "predicate")
	if err != nil {
		return nil, err
	}

	switch op {
	case "eq", "ne", "lt", "le", "gt", "ge":
		attr, valNode, err := singleEntry(body, op)
		if err != nil {
			return nil, err
		}
		v, err := scalarValue(valNode)
		if err != nil {
			return nil, err
		}
		if op == "eq" {
			return &Equals{Attribute: attr, Value: v}, nil
		}
		return &Compare{Attribute: attr, Op: opNames[op], Value: v}, nil

	case "and", "or":
		if body.Kind != yaml.SequenceNode {
			return nil, decodeErrorf(body, "%s: expected a list of predicates", op)
		}
		preds := make([]Predicate, 0, len(body.Content))
		for _, c := range body.Content {
			p, err := DecodePredicate(c)
			if err != nil {
				return nil, err
			}
			preds = append(preds, p)
		}
		if op == "and" {
			return &And{Predicates: preds}, nil
		}
		return &Or{Predicates: preds}, nil

	case "not":
		p, err := DecodePredicate(body)
		if err != nil {
			return nil, err
		}
		return &Not{Predicate: p}, nil

	default:
		return nil, decodeErrorf(n, "unknown predicate %q", op)
	}
}

var opNames = map[string]Op{
	"ne": OpNe,
	"lt": OpLt,
	"le": OpLe,
	"gt": OpGt,
	"ge": OpGe,
}

// singleEntry returns the only key and value of a one-entry mapping.
func singleEntry(n *yaml.Node, what string) (string, *yaml.Node, error) {
	if n == nil || n.Kind != yaml.MappingNode {
		return "", nil, decodeErrorf(n, "%s: expected a mapping", what)
	}
	if len(n.Content) != 2 {
		return "", nil, decodeErrorf(n, "%s: expected exactly one entry, got %d", what, len(n.Content)/2)
	}
	key, err := scalarString(n.Content[0])
	if err != nil {
		return "", nil, err
	}
	return key, n.Content[1], nil
}

// fields returns the entries of a mapping, rejecting keys not in allowed
// and repeated keys.
func fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, decodeErrorf(n, "expected a mapping")
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		known := false
		for _, a := range allowed {
			if k.Value == a {
				known = true
				break
			}
		}
		if !known {
			return nil, decodeErrorf(k, "field %s not found, expected one of %v", k.Value, allowed)
		}
		if _, dup := out[k.Value]; dup {
			return nil, decodeErrorf(k, "field %s repeated", k.Value)
		}
		out[k.Value] = n.Content[i+1]
	}
	return out, nil
}

func requiredExpr(parent *yaml.Node, f map[string]*yaml.Node, key string) (Expr, error) {
	n, ok := f[key]
	if !ok {
		return nil, decodeErrorf(parent, "missing %s", key)
	}
	return DecodeExpr(n)
}

func requiredStrings(parent *yaml.Node, f map[string]*yaml.Node, key string) ([]string, error) {
	n, ok := f[key]
	if !ok {
		return nil, decodeErrorf(parent, "missing %s", key)
	}
	return stringList(n)
}

func operandPair(n *yaml.Node, op string) (Expr, Expr, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return nil, nil, decodeErrorf(n, "%s: expected a list of two expressions", op)
	}
	left, err := DecodeExpr(n.Content[0])
	if err != nil {
		return nil, nil, err
	}
	right, err := DecodeExpr(n.Content[1])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func scalarString(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", decodeErrorf(n, "expected a name")
	}
	return n.Value, nil
}

func stringList(n *yaml.Node) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, decodeErrorf(n, "expected a list of names")
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		s, err := scalarString(c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func scalarValues(n *yaml.Node) ([]value.Value, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, decodeErrorf(n, "expected a list of values")
	}
	out := make([]value.Value, 0, len(n.Content))
	for _, c := range n.Content {
		v, err := scalarValue(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// scalarValue converts a YAML scalar to a value by its resolved tag:
// !!int to Int, !!float to Real, !!str to Text. Booleans and null have no
// value counterpart.
func scalarValue(n *yaml.Node) (value.Value, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, decodeErrorf(n, "expected a scalar value")
	}
	switch n.ShortTag() {
	case "!!str":
		return value.NewText(n.Value), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, decodeErrorf(n, "invalid integer %q: %v", n.Value, err)
		}
		return value.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, decodeErrorf(n, "invalid real %q: %v", n.Value, err)
		}
		return value.Real(f), nil
	default:
		return nil, decodeErrorf(n, "unsupported value %q (%s)", n.Value, n.ShortTag())
	}
}
