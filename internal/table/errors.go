package table

import (
	"errors"
	"fmt"

	"github.com/roach88/relalg/internal/value"
)

// ErrorCode categorizes table errors.
type ErrorCode string

const (
	// ErrCodeAttributeNotFound indicates a name that is not an attribute of the table.
	ErrCodeAttributeNotFound ErrorCode = "ATTRIBUTE_NOT_FOUND"

	// ErrCodeArityMismatch indicates two sequences that must have equal length do not.
	ErrCodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// ErrCodeDomainMismatch indicates two schemas disagree on a domain.
	ErrCodeDomainMismatch ErrorCode = "DOMAIN_MISMATCH"

	// ErrCodeTypeMismatch indicates a value whose variant does not match its attribute's domain.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeDuplicateKey indicates an insert whose key projection is already stored.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"

	// ErrCodeIncompatibleSchemas indicates union or minus operands are not compatible.
	ErrCodeIncompatibleSchemas ErrorCode = "INCOMPATIBLE_SCHEMAS"

	// ErrCodeDuplicateAttribute indicates a name listed twice where names must be unique.
	ErrCodeDuplicateAttribute ErrorCode = "DUPLICATE_ATTRIBUTE"

	// ErrCodeInvalidSchema indicates table metadata that cannot form a table.
	ErrCodeInvalidSchema ErrorCode = "INVALID_SCHEMA"
)

// Error represents a schema or data error detected by a table operation.
//
// Fields that do not apply to a code keep their zero value, except
// Position which is -1 when no position is involved.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Table names the table the error was detected on.
	Table string

	// Attribute names the offending attribute, if any.
	Attribute string

	// Position is the offending column or condition position, or -1.
	Position int

	// Expected and Actual carry the domains involved in a mismatch.
	Expected value.Domain
	Actual   value.Domain

	// Err is the underlying cause (IncompatibleSchemas wraps the
	// ArityMismatch or DomainMismatch that triggered it).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Table != "" {
		msg = fmt.Sprintf("%s (table=%s)", msg, e.Table)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var te *Error
		if !errors.As(err, &te) {
			return false
		}
		if te.Code == code {
			return true
		}
		err = te.Err
	}
	return false
}

// IsAttributeNotFound reports whether err is (or wraps) an AttributeNotFound error.
func IsAttributeNotFound(err error) bool { return HasCode(err, ErrCodeAttributeNotFound) }

// IsArityMismatch reports whether err is (or wraps) an ArityMismatch error.
func IsArityMismatch(err error) bool { return HasCode(err, ErrCodeArityMismatch) }

// IsDomainMismatch reports whether err is (or wraps) a DomainMismatch error.
func IsDomainMismatch(err error) bool { return HasCode(err, ErrCodeDomainMismatch) }

// IsTypeMismatch reports whether err is (or wraps) a TypeMismatch error.
func IsTypeMismatch(err error) bool { return HasCode(err, ErrCodeTypeMismatch) }

// IsDuplicateKey reports whether err is (or wraps) a DuplicateKey error.
func IsDuplicateKey(err error) bool { return HasCode(err, ErrCodeDuplicateKey) }

// IsIncompatibleSchemas reports whether err is (or wraps) an IncompatibleSchemas error.
func IsIncompatibleSchemas(err error) bool { return HasCode(err, ErrCodeIncompatibleSchemas) }

// NewAttributeNotFoundError creates an Error for an unknown attribute name.
func NewAttributeNotFoundError(table, attribute string) *Error {
	return &Error{
		Code:      ErrCodeAttributeNotFound,
		Message:   fmt.Sprintf("attribute %q not found", attribute),
		Table:     table,
		Attribute: attribute,
		Position:  -1,
	}
}

// NewArityMismatchError creates an Error for sequences of unequal length.
// what names the sequence being checked ("tuple", "key", "join attributes").
func NewArityMismatchError(table, what string, want, got int) *Error {
	return &Error{
		Code:     ErrCodeArityMismatch,
		Message:  fmt.Sprintf("%s has %d values, expected %d", what, got, want),
		Table:    table,
		Position: -1,
	}
}

// NewDomainMismatchError creates an Error for schemas disagreeing at position.
func NewDomainMismatchError(table string, position int, expected, actual value.Domain) *Error {
	return &Error{
		Code:     ErrCodeDomainMismatch,
		Message:  fmt.Sprintf("domains disagree at position %d: %s vs %s", position, expected, actual),
		Table:    table,
		Position: position,
		Expected: expected,
		Actual:   actual,
	}
}

// NewTypeMismatchError creates an Error for a value of the wrong variant.
// actual is 0 for a null value.
func NewTypeMismatchError(table string, position int, expected, actual value.Domain) *Error {
	return &Error{
		Code:     ErrCodeTypeMismatch,
		Message:  fmt.Sprintf("position %d expects %s, got %s", position, expected, domainName(actual)),
		Table:    table,
		Position: position,
		Expected: expected,
		Actual:   actual,
	}
}

// NewInvalidTextError creates a TypeMismatch Error for Text at position
// whose bytes are not valid UTF-8.
func NewInvalidTextError(table string, position int) *Error {
	return &Error{
		Code:     ErrCodeTypeMismatch,
		Message:  fmt.Sprintf("position %d holds text that is not valid UTF-8", position),
		Table:    table,
		Position: position,
		Expected: value.DomainText,
		Actual:   value.DomainText,
	}
}

// NewUnsupportedValueError creates a TypeMismatch Error for a Go value that
// has no domain at all, such as a bool or a struct.
func NewUnsupportedValueError(table string, position int, expected value.Domain, x any) *Error {
	return &Error{
		Code:     ErrCodeTypeMismatch,
		Message:  fmt.Sprintf("position %d expects %s, got unsupported Go type %T", position, expected, x),
		Table:    table,
		Position: position,
		Expected: expected,
	}
}

// NewDuplicateKeyError creates an Error for an insert reusing a stored key.
func NewDuplicateKeyError(table string, key value.Tuple) *Error {
	return &Error{
		Code:     ErrCodeDuplicateKey,
		Message:  fmt.Sprintf("key %s already present", key),
		Table:    table,
		Position: -1,
	}
}

// NewIncompatibleSchemasError creates an Error for union/minus operands
// that fail the compatibility check. cause is the ArityMismatch or
// DomainMismatch describing how they differ.
func NewIncompatibleSchemasError(left, right string, cause error) *Error {
	return &Error{
		Code:     ErrCodeIncompatibleSchemas,
		Message:  fmt.Sprintf("%s and %s are not union compatible", left, right),
		Table:    left,
		Position: -1,
		Err:      cause,
	}
}

// NewDuplicateAttributeError creates an Error for a repeated name.
func NewDuplicateAttributeError(table, attribute string) *Error {
	return &Error{
		Code:      ErrCodeDuplicateAttribute,
		Message:   fmt.Sprintf("attribute %q listed more than once", attribute),
		Table:     table,
		Attribute: attribute,
		Position:  -1,
	}
}

// NewInvalidSchemaError creates an Error for unusable table metadata.
func NewInvalidSchemaError(table, message string) *Error {
	return &Error{
		Code:     ErrCodeInvalidSchema,
		Message:  message,
		Table:    table,
		Position: -1,
	}
}

func domainName(d value.Domain) string {
	if d == 0 {
		return "null"
	}
	return d.String()
}

// IsDuplicateAttribute reports whether err is (or wraps) a DuplicateAttribute error.
func IsDuplicateAttribute(err error) bool { return HasCode(err, ErrCodeDuplicateAttribute) }

// IsInvalidSchema reports whether err is (or wraps) an InvalidSchema error.
func IsInvalidSchema(err error) bool { return HasCode(err, ErrCodeInvalidSchema) }
