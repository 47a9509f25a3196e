package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	"sedcoRecords/models"
)

// ErrUnavailable marks every error returned by Store.Ensure. Once
// initialization has failed the store stays unavailable for the process.
var ErrUnavailable = errors.New("store unavailable")

// PasswordHasher turns the configured administrator password into the
// value stored in users.password.
type PasswordHasher interface {
	Hash(password []byte) (string, error)
}

// SeedConfig describes the rows written on first initialization.
type SeedConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
	// SampleData inserts one demo entrepreneur when the table is empty.
	SampleData bool
}

// StoreConfig holds everything needed to bring the store up.
type StoreConfig struct {
	Path string
	Seed SeedConfig
}

// Store owns the single database handle of the process. It is built once at
// start-up and handed to every component; the handle itself is opened,
// migrated and seeded lazily on the first Ensure call.
type Store struct {
	cfg    StoreConfig
	hasher PasswordHasher

	once sync.Once
	db   *sqlx.DB
	err  error
}

// NewStore returns a store that will open cfg.Path on first use.
func NewStore(cfg StoreConfig, hasher PasswordHasher) *Store {
	return &Store{cfg: cfg, hasher: hasher}
}

// NewStoreFromHandle wraps an already prepared handle. No schema or seed
// statements are run against it.
func NewStoreFromHandle(d *sqlx.DB) *Store {
	s := &Store{db: d}
	s.once.Do(func() {})
	return s
}

// Ensure returns the live handle, initializing it on the first call.
// Concurrent callers block on the same initialization; the outcome, success
// or failure, is shared by every later call.
func (s *Store) Ensure(ctx context.Context) (*sqlx.DB, error) {
	s.once.Do(func() {
		ctx := context.WithoutCancel(ctx)
		d, err := Open(s.cfg.Path)
		if err != nil {
			s.err = fmt.Errorf("%w: open %s: %v", ErrUnavailable, s.cfg.Path, err)
			return
		}
		if err := seed(ctx, d, s.cfg.Seed, s.hasher); err != nil {
			_ = d.Close()
			s.err = fmt.Errorf("%w: seed: %v", ErrUnavailable, err)
			return
		}
		s.db = d
	})
	return s.db, s.err
}

// Close closes the handle if it was ever opened.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const insertAdminSQL = `INSERT OR IGNORE INTO users (email, password, name, role, notifications_enabled, theme) VALUES (?,?,?,?,?,?)`

const insertSampleSQL = `
INSERT INTO entrepreneurs (
  name, ic_number, gender, race, academic, phone, company_name,
  address, email, district, business_type, business_field, agency,
  employee_count, program, premise_lot, location, monthly_income,
  business_status, year
)
SELECT ?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?
WHERE NOT EXISTS (SELECT 1 FROM entrepreneurs LIMIT 1)`

// SampleEntrepreneur is the demo record seeded into an empty store.
func SampleEntrepreneur() models.Entrepreneur {
	return models.Entrepreneur{
		Name:           "Sarah Abdullah",
		ICNumber:       "890514-12-5442",
		Gender:         models.GenderFemale,
		Race:           "Melayu",
		Academic:       "Diploma",
		Phone:          "0123456789",
		CompanyName:    "Sabah Craft Enterprise",
		Address:        "Jalan Pantai, KK",
		Email:          "sarah@example.com",
		District:       "kota-kinabalu",
		BusinessType:   models.BusinessTypeProduct,
		BusinessField:  "Kraftangan",
		Agency:         models.AgencyMIDE,
		EmployeeCount:  3,
		Program:        models.ProgramRental,
		PremiseLot:     "A-12",
		Location:       "KK City Mall",
		MonthlyIncome:  5000.00,
		BusinessStatus: models.BusinessStatusActive,
		Year:           2024,
	}
}

func seed(ctx context.Context, d *sqlx.DB, cfg SeedConfig, hasher PasswordHasher) error {
	if cfg.AdminEmail != "" {
		if hasher == nil {
			return errors.New("password hasher is required to seed the administrator")
		}
		hash, err := hasher.Hash([]byte(cfg.AdminPassword))
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := models.NewAdmin(cfg.AdminEmail, cfg.AdminName, hash)
		if _, err := d.ExecContext(ctx, insertAdminSQL,
			admin.Email, admin.Password, admin.Name, admin.Role, admin.NotificationsEnabled, admin.Theme); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	if cfg.SampleData {
		e := SampleEntrepreneur()
		if _, err := d.ExecContext(ctx, insertSampleSQL,
			e.Name, e.ICNumber, string(e.Gender), e.Race, e.Academic, e.Phone, e.CompanyName,
			e.Address, e.Email, e.District, string(e.BusinessType), e.BusinessField, string(e.Agency),
			e.EmployeeCount, string(e.Program), e.PremiseLot, e.Location, e.MonthlyIncome,
			string(e.BusinessStatus), e.Year); err != nil {
			return fmt.Errorf("seed sample entrepreneur: %w", err)
		}
	}
	return nil
}
