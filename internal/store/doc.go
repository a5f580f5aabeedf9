// Package store provides SQLite-backed durable storage for snug run logs.
//
// The store is an append-only log with two tables:
//   - runs: one header per program evaluation (token, program hash, start seq)
//   - steps: one row per evaluated step with its outcome
//
// Ordering uses the seq column (logical clock), never timestamps. Every
// multi-row read orders by seq ASC, id ASC COLLATE BINARY so a replay reads
// records in exactly the order they were evaluated.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Steps must belong to a stored run
//
// Record IDs are computed by package ir (SHA-256 over canonical JSON with
// domain separation); the store only persists them.
package store
