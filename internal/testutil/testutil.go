package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"sedcoRecords/internal/db"
	"sedcoRecords/internal/security"
)

const (
	AdminEmail    = "admin@sedco.gov.my"
	AdminName     = "Admin User"
	AdminPassword = "admin123"
)

// MemoryDSN names a shared-cache in-memory SQLite database.
func MemoryDSN(name string) string {
	return "file:" + name + "?mode=memory&cache=shared"
}

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The handle is closed when the test finishes.
func OpenInMemoryDB(t *testing.T, name string) *sqlx.DB {
	t.Helper()
	d, err := db.Open(MemoryDSN(name))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// Hasher returns a bcrypt hasher at the minimum cost so tests stay fast.
func Hasher() *security.Hasher {
	return security.NewHasher(bcrypt.MinCost)
}

// NewSeededStore returns an initialized in-memory store holding the default
// administrator and, when sample is true, the demo entrepreneur.
func NewSeededStore(t *testing.T, name string, sample bool) *db.Store {
	t.Helper()
	s := db.NewStore(db.StoreConfig{
		Path: MemoryDSN(name),
		Seed: db.SeedConfig{
			AdminEmail:    AdminEmail,
			AdminName:     AdminName,
			AdminPassword: AdminPassword,
			SampleData:    sample,
		},
	}, Hasher())
	if _, err := s.Ensure(context.Background()); err != nil {
		t.Fatalf("ensure store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
