package backend

import (
	"context"
	"path/filepath"
	"testing"

	"dime/internal/config"
)

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), &config.Config{DataBackend: "memory"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	// seeded currencies must be queryable right away
	if _, err := store.GetCurrencyByCode(context.Background(), "USD"); err != nil {
		t.Fatalf("seed missing: %v", err)
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dime.db")
	store, err := Open(context.Background(), &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: path,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, err := store.GetCurrencyByCode(context.Background(), "EUR"); err != nil {
		t.Fatalf("migrations did not seed currencies: %v", err)
	}
}

func TestOpenUnsupported(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error")
	}
}
