package testsupport

import (
	"testing"

	"setlist/internal/config"
	"setlist/internal/segments"
)

// MustOpenStore opens a segments.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *segments.Store {
	t.Helper()

	store, err := segments.Open(cfg)
	if err != nil {
		t.Fatalf("open segments store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close segments store: %v", err)
		}
	})
	return store
}
