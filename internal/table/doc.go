// Package table implements typed in-memory relations and the relational
// algebra operators over them.
//
// A Table has an ordered list of attributes, a Domain per attribute, a
// non-empty key and an ordered list of tuples. A B-tree index maps each key
// projection to the tuples carrying it.
//
// # Operators
//
// Insert is the only mutating operation. Every other operator is a pure
// function that reads its operands and returns a freshly built table:
//
//	Project(names...)           keep the named columns (bag semantics)
//	Select(pred)                keep tuples satisfying a predicate
//	SelectKey(key...)           index lookup, same result as the predicate form
//	Union(other)                set union, duplicates eliminated
//	Minus(other)                tuples of this table absent from other
//	Join(attrs1, attrs2, other) equi-join on explicit attribute pairs
//	NaturalJoin(other)          equi-join on common attribute names
//
// # Naming
//
// Derived tables are named after their left operand plus a counter suffix
// drawn from a Namer ("Movie0", "Movie1", ...). Each table keeps the Namer it
// was created with and passes it on to the tables derived from it.
//
// # Errors
//
// Schema problems are reported as *Error values with a Code before any
// output is built. They are never reported as an empty table.
//
// # Concurrency
//
// A table has a single writer. Derived tables are never mutated after
// construction and can be read from any number of goroutines.
package table
