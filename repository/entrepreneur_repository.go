package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"sedcoRecords/models"
)

const entrepreneurColumns = `id, name, ic_number, gender, race, academic, phone, company_name,
  address, email, district, business_type, business_field, agency,
  employee_count, program, premise_lot, location, monthly_income,
  business_status, year, created_at, updated_at`

// EntrepreneurRepository reads and writes the entrepreneurs table.
// Every statement binds caller values as parameters.
type EntrepreneurRepository struct {
	db *sqlx.DB
}

// NewEntrepreneurRepository creates a new EntrepreneurRepository.
func NewEntrepreneurRepository(db *sqlx.DB) *EntrepreneurRepository {
	return &EntrepreneurRepository{db: db}
}

// Create inserts all twenty data fields and returns the new id.
func (r *EntrepreneurRepository) Create(ctx context.Context, e *models.Entrepreneur) (int64, error) {
	if e == nil {
		return 0, errors.New("entrepreneur is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.NamedExecContext(ctx, `
INSERT INTO entrepreneurs (
  name, ic_number, gender, race, academic, phone, company_name,
  address, email, district, business_type, business_field, agency,
  employee_count, program, premise_lot, location, monthly_income,
  business_status, year
) VALUES (
  :name, :ic_number, :gender, :race, :academic, :phone, :company_name,
  :address, :email, :district, :business_type, :business_field, :agency,
  :employee_count, :program, :premise_lot, :location, :monthly_income,
  :business_status, :year
)`, e)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID fetches an entrepreneur by its ID. A missing row yields (nil, nil).
func (r *EntrepreneurRepository) GetByID(ctx context.Context, id int64) (*models.Entrepreneur, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e models.Entrepreneur
	if err := r.db.GetContext(ctx, &e, `SELECT `+entrepreneurColumns+` FROM entrepreneurs WHERE id = ? LIMIT 1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// List returns every entrepreneur projected to the list-view fields, by name.
func (r *EntrepreneurRepository) List(ctx context.Context) ([]models.EntrepreneurSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := []models.EntrepreneurSummary{}
	err := r.db.SelectContext(ctx, &out, `
SELECT id, name, ic_number, company_name, business_type, business_status, district
FROM entrepreneurs
ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByYear returns the full records of one reporting year ordered by name.
func (r *EntrepreneurRepository) ListByYear(ctx context.Context, year int) ([]models.Entrepreneur, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := []models.Entrepreneur{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+entrepreneurColumns+` FROM entrepreneurs WHERE year = ? ORDER BY name ASC, id ASC`, year); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces every data field of the record and refreshes updated_at.
// It returns ErrNotFound when no row has the id.
func (r *EntrepreneurRepository) Update(ctx context.Context, id int64, e *models.Entrepreneur) error {
	if e == nil {
		return errors.New("entrepreneur is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
UPDATE entrepreneurs SET
  name = ?, ic_number = ?, gender = ?, race = ?, academic = ?, phone = ?,
  company_name = ?, address = ?, email = ?, district = ?, business_type = ?,
  business_field = ?, agency = ?, employee_count = ?, program = ?,
  premise_lot = ?, location = ?, monthly_income = ?, business_status = ?,
  year = ?, updated_at = `+nowExpr+`
WHERE id = ?`,
		e.Name, e.ICNumber, string(e.Gender), e.Race, e.Academic, e.Phone,
		e.CompanyName, e.Address, e.Email, e.District, string(e.BusinessType),
		e.BusinessField, string(e.Agency), e.EmployeeCount, string(e.Program),
		e.PremiseLot, e.Location, e.MonthlyIncome, string(e.BusinessStatus),
		e.Year, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entrepreneur by ID. Deleting a missing id is not an error.
func (r *EntrepreneurRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM entrepreneurs WHERE id = ?`, id)
	return err
}

// Stats computes the dashboard aggregates over every year.
func (r *EntrepreneurRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var row struct {
		Total     int             `db:"total"`
		Active    int             `db:"active"`
		AvgIncome sql.NullFloat64 `db:"avg_income"`
		Employees sql.NullInt64   `db:"employees"`
	}
	err := r.db.GetContext(ctx, &row, `
SELECT
  COUNT(*) AS total,
  COUNT(CASE WHEN business_status = ? THEN 1 END) AS active,
  AVG(monthly_income) AS avg_income,
  SUM(employee_count) AS employees
FROM entrepreneurs`, string(models.BusinessStatusActive))
	if err != nil {
		return nil, err
	}
	return &models.DashboardStats{
		TotalEntrepreneurs: row.Total,
		ActiveBusinesses:   row.Active,
		AverageIncome:      int(math.Round(row.AvgIncome.Float64)),
		TotalEmployees:     int(row.Employees.Int64),
	}, nil
}
