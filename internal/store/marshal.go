package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/snug/internal/ir"
)

// marshalArgs converts step operands to canonical JSON TEXT for storage.
func marshalArgs(args []ir.Operand) (string, error) {
	strs := make([]string, len(args))
	for i, a := range args {
		strs[i] = string(a)
	}
	data, err := ir.MarshalCanonical(strs)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses stored operands. An empty array yields nil so a
// read-back step compares equal to one built without args.
func unmarshalArgs(data string) ([]ir.Operand, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var args []ir.Operand
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	return args, nil
}
