package models

import (
	"errors"
	"fmt"
	"strings"
)

// Gender of an entrepreneur.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// BusinessType says whether a business sells goods or services.
type BusinessType string

const (
	BusinessTypeProduct BusinessType = "product"
	BusinessTypeService BusinessType = "service"
)

// Agency is the supporting agency code.
type Agency string

const (
	AgencyMIDE Agency = "MIDE"
	AgencyDIDR Agency = "DIDR"
	AgencySVH  Agency = "SVH"
	AgencyPRSB Agency = "PRSB"
)

// Program is the assistance program code.
type Program string

const (
	ProgramRental Program = "rental"
	ProgramSPUBS  Program = "spubs"
)

// BusinessStatus represents the operating state of a business.
type BusinessStatus string

const (
	BusinessStatusActive    BusinessStatus = "active"
	BusinessStatusInactive  BusinessStatus = "inactive"
	BusinessStatusInProcess BusinessStatus = "in process"
)

// Entrepreneur is one program participant and their business.
// Every record belongs to exactly one reporting Year.
type Entrepreneur struct {
	ID             int64          `db:"id" json:"id" yaml:"-"`
	Name           string         `db:"name" json:"name" yaml:"name"`
	ICNumber       string         `db:"ic_number" json:"ic_number" yaml:"ic_number"`
	Gender         Gender         `db:"gender" json:"gender" yaml:"gender"`
	Race           string         `db:"race" json:"race" yaml:"race"`
	Academic       string         `db:"academic" json:"academic" yaml:"academic"`
	Phone          string         `db:"phone" json:"phone" yaml:"phone"`
	CompanyName    string         `db:"company_name" json:"company_name" yaml:"company_name"`
	Address        string         `db:"address" json:"address" yaml:"address"`
	Email          string         `db:"email" json:"email" yaml:"email"`
	District       string         `db:"district" json:"district" yaml:"district"`
	BusinessType   BusinessType   `db:"business_type" json:"business_type" yaml:"business_type"`
	BusinessField  string         `db:"business_field" json:"business_field" yaml:"business_field"`
	Agency         Agency         `db:"agency" json:"agency" yaml:"agency"`
	EmployeeCount  int            `db:"employee_count" json:"employee_count" yaml:"employee_count"`
	Program        Program        `db:"program" json:"program" yaml:"program"`
	PremiseLot     string         `db:"premise_lot" json:"premise_lot" yaml:"premise_lot"`
	Location       string         `db:"location" json:"location" yaml:"location"`
	MonthlyIncome  float64        `db:"monthly_income" json:"monthly_income" yaml:"monthly_income"`
	BusinessStatus BusinessStatus `db:"business_status" json:"business_status" yaml:"business_status"`
	Year           int            `db:"year" json:"year" yaml:"year"`
	CreatedAt      string         `db:"created_at" json:"created_at,omitempty" yaml:"-"`
	UpdatedAt      string         `db:"updated_at" json:"updated_at,omitempty" yaml:"-"`
}

// EntrepreneurSummary is the list-view projection of an entrepreneur.
type EntrepreneurSummary struct {
	ID           int64          `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	ICNumber     string         `db:"ic_number" json:"ic_number"`
	CompanyName  string         `db:"company_name" json:"company_name"`
	BusinessType BusinessType   `db:"business_type" json:"business_type"`
	Status       BusinessStatus `db:"business_status" json:"status"`
	District     string         `db:"district" json:"district"`
}

// Validate checks required fields and enum membership. The data layer does
// not call it; front ends validate before handing a record over.
func (e *Entrepreneur) Validate() error {
	var errs []error
	required := []struct{ field, value string }{
		{"name", e.Name},
		{"ic_number", e.ICNumber},
		{"race", e.Race},
		{"academic", e.Academic},
		{"phone", e.Phone},
		{"company_name", e.CompanyName},
		{"address", e.Address},
		{"email", e.Email},
		{"business_field", e.BusinessField},
		{"premise_lot", e.PremiseLot},
		{"location", e.Location},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.field))
		}
	}
	switch e.Gender {
	case GenderMale, GenderFemale:
	default:
		errs = append(errs, fmt.Errorf("invalid gender %q", e.Gender))
	}
	switch e.BusinessType {
	case BusinessTypeProduct, BusinessTypeService:
	default:
		errs = append(errs, fmt.Errorf("invalid business_type %q", e.BusinessType))
	}
	switch e.Agency {
	case AgencyMIDE, AgencyDIDR, AgencySVH, AgencyPRSB:
	default:
		errs = append(errs, fmt.Errorf("invalid agency %q", e.Agency))
	}
	switch e.Program {
	case ProgramRental, ProgramSPUBS:
	default:
		errs = append(errs, fmt.Errorf("invalid program %q", e.Program))
	}
	switch e.BusinessStatus {
	case BusinessStatusActive, BusinessStatusInactive, BusinessStatusInProcess:
	default:
		errs = append(errs, fmt.Errorf("invalid business_status %q", e.BusinessStatus))
	}
	if _, ok := LookupDistrict(e.District); !ok {
		errs = append(errs, fmt.Errorf("unknown district %q", e.District))
	}
	if e.EmployeeCount < 0 {
		errs = append(errs, errors.New("employee_count must not be negative"))
	}
	if e.MonthlyIncome < 0 {
		errs = append(errs, errors.New("monthly_income must not be negative"))
	}
	if e.Year <= 0 {
		errs = append(errs, errors.New("year is required"))
	}
	return errors.Join(errs...)
}
