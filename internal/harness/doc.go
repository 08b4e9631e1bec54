// Package harness runs model scenarios: small YAML files that train one
// model from inline sequences or an inline count table and check the result.
//
// # Scenario Format
//
//	name: dna-order2
//	description: "What this scenario validates"
//	order: 2
//	alphabet: ACGT
//	pseudocount: 1
//	sequences:
//	  - ACGTAC
//	  - GGA
//	expect:
//	  kmers: 24
//	  counts: { "^A": 2, AC: 3 }
//	  bits: { AC: 1.0 }
//	  tolerance: 0.000001
//
// counts may replace sequences. expect.error names a failure the pipeline
// must report instead (space_limit, probability, symbol, order).
//
// # Execution
//
// Each scenario trains through markov.Trainer, persists into a fresh
// in-memory store with a fixed run id, and reads the model back before
// checking expectations, so the checks see what a later export would see.
//
// # Golden Files
//
// Snapshot renders a passing run as canonical JSON with code lengths
// formatted to the scenario precision. RunWithGolden compares it through
// goldie under testdata/golden; the CLI test command keeps its own golden
// directory next to the scenarios.
package harness
