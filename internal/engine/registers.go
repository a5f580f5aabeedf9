package engine

import (
	"maps"
	"slices"

	"github.com/roach88/snug/internal/rep"
)

// Registers maps register names to bounded values.
// Not safe for concurrent use; each run owns its own set.
type Registers struct {
	vals map[string]rep.Value
}

// NewRegisters returns an empty register set.
func NewRegisters() *Registers {
	return &Registers{vals: make(map[string]rep.Value)}
}

// Get returns the value held by name.
func (r *Registers) Get(name string) (rep.Value, bool) {
	v, ok := r.vals[name]
	return v, ok
}

// Set stores v under name, replacing any previous value.
func (r *Registers) Set(name string, v rep.Value) {
	r.vals[name] = v
}

// Len returns the number of defined registers.
func (r *Registers) Len() int {
	return len(r.vals)
}

// Names returns every defined register, sorted.
func (r *Registers) Names() []string {
	return slices.Sorted(maps.Keys(r.vals))
}

// Snapshot renders every register in decimal.
func (r *Registers) Snapshot() map[string]string {
	out := make(map[string]string, len(r.vals))
	for name, v := range r.vals {
		out[name] = v.String()
	}
	return out
}
