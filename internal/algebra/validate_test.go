package algebra

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relalg/internal/value"
)

func TestValidate_WellFormed(t *testing.T) {
	expr := &Project{
		From: &Select{
			From: &Join{
				Left:            &Scan{Table: "Movie"},
				Right:           &Scan{Table: "Studio"},
				LeftAttributes:  []string{"studioName"},
				RightAttributes: []string{"name"},
			},
			Where: &And{Predicates: []Predicate{
				&Equals{Attribute: "address", Value: value.Text("LA")},
				&Not{Predicate: &Compare{Attribute: "year", Op: OpLt, Value: value.Int(1970)}},
			}},
		},
		Attributes: []string{"title", "address"},
	}

	result := Validate(expr)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Problems)
	assert.NoError(t, result.Err())
}

func TestValidate_NilSelectIsAllowed(t *testing.T) {
	result := Validate(&Select{From: &Scan{Table: "Movie"}})
	assert.True(t, result.Valid)
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"nil expression", nil, "missing expression"},
		{"empty scan", &Scan{}, "scan: table name is empty"},
		{"nil operand", &Union{Left: &Scan{Table: "A"}}, "missing expression"},
		{"no projection attributes", &Project{From: &Scan{Table: "A"}}, "project: no attributes"},
		{
			"repeated projection attribute",
			&Project{From: &Scan{Table: "A"}, Attributes: []string{"x", "x"}},
			`project: attribute "x" listed twice`,
		},
		{"empty key", &KeySelect{From: &Scan{Table: "A"}}, "select_key: key is empty"},
		{
			"null key value",
			&KeySelect{From: &Scan{Table: "A"}, Key: []value.Value{value.Int(1), nil}},
			"select_key: key[1] is null",
		},
		{
			"join length mismatch",
			&Join{Left: &Scan{Table: "A"}, Right: &Scan{Table: "B"}, LeftAttributes: []string{"x"}},
			"join: 1 left attributes but 0 right attributes",
		},
		{
			"bad operator",
			&Select{From: &Scan{Table: "A"}, Where: &Compare{Attribute: "x", Op: "~", Value: value.Int(1)}},
			`compare: unknown operator "~"`,
		},
		{
			"null comparison value",
			&Select{From: &Scan{Table: "A"}, Where: &Equals{Attribute: "x"}},
			`eq: value for "x" is null`,
		},
		{
			"nil predicate in connective",
			&Select{From: &Scan{Table: "A"}, Where: &Or{Predicates: []Predicate{nil}}},
			"missing predicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.expr)
			assert.False(t, result.Valid)
			assert.Contains(t, result.Problems, tt.want)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	expr := &Minus{
		Left:  &Scan{},
		Right: &Project{From: &Scan{}, Attributes: []string{""}},
	}

	result := Validate(expr)

	require.Len(t, result.Problems, 3)
	assert.Equal(t, "scan: table name is empty", result.Problems[0])

	var verr *ValidationError
	require.True(t, errors.As(result.Err(), &verr))
	assert.Equal(t, result.Problems, verr.Problems)
	assert.Equal(t, "invalid expression: scan: table name is empty (and 2 more)", verr.Error())
}
