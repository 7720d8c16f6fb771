// Package harness provides conformance testing for the SELECT parser.
//
// The harness loads YAML scenarios, parses their input, optionally binds
// the result against a CUE catalog, and checks the outcome against the
// scenario's expectations. Successful runs can also be compared against
// golden snapshots of the canonical JSON encoding.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	input: "SELECT c.codigo, e.* FROM cliente c LEFT JOIN estado e ON c.uf = e.uf"
//	catalog: ../catalog          # optional, CUE table definitions
//	limits:                      # optional parser limit overrides
//	  max_tokens: 100
//	expect:
//	  statements: 1
//	  selects:
//	    - fields: ["c.codigo", "e.*"]
//	      tables: ["CLIENTE c", "ESTADO e"]
//	      joins: ["0 LEFT 1 ON c.uf = e.uf"]
//	  columns: ["CLIENTE.CODIGO AS codigo", "ESTADO.UF AS UF", "ESTADO.NOME AS NOME"]
//
// A scenario that expects a failure names the error instead:
//
//	expect:
//	  error:
//	    kind: syntax      # lexical, syntax, unsupported or limit
//	    offset: 17
//
// Unknown fields are rejected, so a misspelled clause fails to load
// rather than silently passing.
//
// # Deterministic Testing
//
// Every run records its parse in a fresh in-memory statement log using
// testutil.DeterministicClock and testutil.SequentialIDGenerator, so the
// record of a scenario is identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/left_join_on.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
