// Package schema compiles CUE table definitions into tables.
//
// A definition lives under the top-level "table" struct:
//
//	table: Movie: {
//	    attributes: {title: string, year: int, length: int, studioName: string}
//	    key: ["title", "year"]
//	    rows: [["Star_Wars", 1977, 124, "Fox"]]
//	}
//
// Attribute order is field declaration order. CUE kinds map to domains:
// string to Text, int to Integer, float and number to Real. rows is
// optional; each row is type checked against the attribute domains, with
// integer literals accepted for Real attributes.
package schema
