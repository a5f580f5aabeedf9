package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/snug/internal/store"
)

// openStore opens an on-disk store under t.TempDir() and closes it on
// cleanup.
func openStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "snug.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
