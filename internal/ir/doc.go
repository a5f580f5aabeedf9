// Package ir provides the intermediate representation of snug programs.
//
// A program is an ordered list of steps over named registers; evaluating a
// step yields an Outcome. Records pair a step with its outcome and the
// logical clock value it was evaluated at.
//
// This package contains type definitions, canonical JSON and content
// hashing only. All other internal packages import ir; ir imports nothing
// internal.
//
// Key design constraints:
//   - Logical clocks (seq) only, never wall-clock timestamps
//   - All JSON tags use snake_case
//   - Identity is SHA-256 over canonical JSON with a domain prefix
package ir
