// Package compiler validates scenario files before they reach the engine.
//
// Validation runs in two passes. The embedded CUE schema (schema.cue)
// checks structure: known ops, representations and failure kinds, register
// names, literal syntax, and no unknown fields. A second pass walks the
// steps in order and checks what the schema cannot: operand counts per op,
// dst usage, and registers read before any step writes them.
//
// All errors are collected; positions point into the scenario file.
package compiler
