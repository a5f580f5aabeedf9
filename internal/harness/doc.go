// Package harness runs scenario files against the engine and checks the
// results.
//
// # Scenario Format
//
// Scenarios are YAML files validated against an embedded CUE schema before
// they are decoded:
//
//	name: int8_add_overflow
//	description: "100 + 50 does not fit in int8"
//	type: int8            # default representation for steps
//	run_token: fixed-001  # optional, defaults to testutil.DefaultRunToken
//	steps:
//	  - op: new
//	    dst: a
//	    args: [100]
//	  - op: add
//	    dst: c
//	    args: [a, 50]
//	    expect:
//	      error: AdditionOverflow
//	assertions:
//	  - register: a
//	    value: 100
//
// Each step may carry an expect clause naming either the value or the
// failure kind. Assertions check final register values.
//
// # Deterministic Testing
//
// Every scenario runs on a fresh in-memory SQLite store with a fixed run
// token and a logical clock starting at zero, so traces are identical across
// runs and can be compared with golden files (see RunWithGolden).
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/int8_add_overflow.yaml")
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
