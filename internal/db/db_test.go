package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	versions, err := AppliedVersions(d)
	if err != nil {
		t.Fatalf("applied versions: %v", err)
	}
	if len(versions) == 0 || versions[0] != 1 {
		t.Fatalf("expected version 1 applied, got %v", versions)
	}
	_ = d.Close()

	// Re-opening must not re-run 0001 (CREATE TABLE would still succeed, but
	// the bookkeeping insert would hit the primary key).
	d, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()
	again, _ := AppliedVersions(d)
	if len(again) != len(versions) {
		t.Fatalf("versions changed on reopen: %v -> %v", versions, again)
	}
}

func TestRollbackLast_DropsSchema(t *testing.T) {
	d, err := Open("file:rollback?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	if err := RollbackLast(d); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	var n int
	if err := d.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'entrepreneurs'`); err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if n != 0 {
		t.Fatalf("entrepreneurs table should be gone after rollback")
	}
	versions, _ := AppliedVersions(d)
	if len(versions) != 0 {
		t.Fatalf("expected no applied versions, got %v", versions)
	}
	// Nothing left to roll back.
	if err := RollbackLast(d); err != nil {
		t.Fatalf("second rollback: %v", err)
	}
}

func TestLoadMigrations_PairsUpAndDown(t *testing.T) {
	migs, err := loadMigrations()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m, ok := migs[1]
	if !ok {
		t.Fatalf("migration 0001 missing: %+v", migs)
	}
	if m.upFile == "" || m.downFile == "" || m.name != "init" {
		t.Fatalf("unexpected migration entry: %+v", m)
	}
}
