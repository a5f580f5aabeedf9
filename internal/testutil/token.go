package testutil

// DefaultRunToken is used when a scenario does not name its run token.
const DefaultRunToken = "test-run-default"

// FixedRunGenerator returns the same run token every time.
//
// Unlike engine.FixedGenerator, which hands out tokens in sequence, it never
// runs dry, so one scenario can be evaluated any number of times with
// byte-identical records.
//
// Stateless and safe for concurrent use.
type FixedRunGenerator struct {
	token string
}

// NewFixedRunGenerator creates a generator for token.
// An empty token selects DefaultRunToken.
func NewFixedRunGenerator(token string) *FixedRunGenerator {
	if token == "" {
		token = DefaultRunToken
	}
	return &FixedRunGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedRunGenerator) Generate() string {
	return g.token
}
