package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainRecord  = "snug/record/v1"
	DomainProgram = "snug/program/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordID computes the content-addressed ID of an evaluated step.
// The ID is stable across replays given the same run token, seq and step.
// The outcome is excluded: a replay that diverges keeps the same ID, which
// is what lets replay compare outcomes record by record.
func RecordID(runToken string, seq int64, step Step) (string, error) {
	obj := map[string]any{
		"run_token": runToken,
		"seq":       seq,
		"step":      StepMap(step),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RecordID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRecord, canonical), nil
}

// ProgramHash computes the content hash of a program's steps.
// The name is excluded so renaming a scenario keeps its hash.
func ProgramHash(p Program) (string, error) {
	steps := make([]any, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = StepMap(s)
	}
	canonical, err := MarshalCanonical(map[string]any{"steps": steps})
	if err != nil {
		return "", fmt.Errorf("ProgramHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}
