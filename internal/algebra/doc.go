// Package algebra provides an expression representation of relational
// algebra queries over tables, with validation, formatting, YAML decoding
// and evaluation against a catalog of named tables.
//
// Expr and Predicate are sealed interfaces: only types in this package
// implement them, so evaluators and formatters can switch exhaustively.
//
//	switch e := expr.(type) {
//	case *Scan:
//	    // read a catalog table
//	case *Project:
//	    // evaluate e.From, then project
//	...
//	}
//
// # YAML form
//
// Each expression is a mapping with a single key naming the operator:
//
//	project:
//	  from: {scan: Movie}
//	  attributes: [title, year]
//
//	select:
//	  from: {scan: Movie}
//	  where: {and: [{eq: {studioName: Fox}}, {gt: {year: 1975}}]}
//
//	select_key: {from: {scan: Movie}, key: [Star_Wars, 1977]}
//	union: [{scan: A}, {scan: B}]
//	minus: [{scan: A}, {scan: B}]
//	join:
//	  left: {scan: Movie}
//	  right: {scan: Studio}
//	  left_attributes: [studioName]
//	  right_attributes: [name]
//	natural_join: [{scan: Movie}, {scan: Studio}]
//
// Predicates are eq, ne, lt, le, gt and ge (a single attribute: value
// entry), and, or (lists) and not (a single predicate).
//
// # Text form
//
// Format renders an expression as one line, e.g.
//
//	project[title, year](select[year = 1977](Movie))
//
// which is what evaluation logs and the CLI print.
package algebra
