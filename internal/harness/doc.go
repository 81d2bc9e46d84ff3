// Package harness runs relational algebra scenarios: a schema directory,
// a list of inserts and a list of queries with expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: movies
//	description: "What this scenario validates"
//	schema: ../schemas          # CUE directory, relative to the scenario file
//	persist: true               # round-trip every table through a store first
//	inserts:
//	  - table: Movie
//	    values: [Star_Wars, 1977, 121, Fox]
//	    expect_error: DUPLICATE_KEY
//	queries:
//	  - name: fox_titles
//	    expr:
//	      project:
//	        from: {select: {from: {scan: Movie}, where: {eq: {studioName: Fox}}}}
//	        attributes: [title, year]
//	    expect:
//	      count: 2
//	      attributes: [title, year]
//	      contains: [[Alien, 1979]]
//
// Expressions use the YAML form of package algebra. Unknown fields anywhere
// in a scenario are rejected.
//
// # Expectations
//
//   - count: exact number of output tuples
//   - attributes, key: exact output attribute and key lists
//   - contains, absent: tuples that must (or must not) be in the output;
//     literals are converted to the output domains
//   - error: the error code the query must fail with
//
// Error codes are the table.ErrorCode values plus UNKNOWN_TABLE and
// INVALID_EXPRESSION.
//
// # Deterministic Testing
//
// Every run uses a fresh namer, so derived table names are reproducible,
// an in-memory SQLite store with sequential snapshot ids, and a discarding
// logger. Transcript renders a run for golden file comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/movies.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
