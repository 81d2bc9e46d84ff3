// Package render presents tables for people and for golden files.
//
// Print and PrintIndex write the fixed-width text layout:
//
//	 Table Movie
//	|--------------------------------------------------------------|
//	|           title           year         length     studioName |
//	|--------------------------------------------------------------|
//	|       Star_Wars           1977            124            Fox |
//	|--------------------------------------------------------------|
//
// Styled renders the same content as a bordered terminal table, and
// Snapshot produces a canonical JSON document suitable for diffing.
package render
