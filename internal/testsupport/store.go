package testsupport

import (
	"testing"

	"dirsort/internal/config"
	"dirsort/internal/journal"
)

// MustOpenJournal opens the run journal for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
