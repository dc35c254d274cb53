package testsupport

import (
	"testing"

	"brentmlu/internal/config"
	"brentmlu/internal/store"
)

// MustOpenStore opens the export store configured on cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	if cfg.Export.SQLitePath == "" {
		t.Fatal("config has no sqlite path; use WithSQLiteExport")
	}
	st, err := store.Open(cfg.Export.SQLitePath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}
