package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sedcoRecords/models"
	"sedcoRecords/repository"
)

// CSVHeader lists the export columns in order.
var CSVHeader = []string{
	"Name",
	"IC Number",
	"Gender",
	"Race",
	"Academic",
	"Phone",
	"Company Name",
	"Address",
	"Email",
	"District",
	"Business Type",
	"Business Field",
	"Agency",
	"Employee Count",
	"Program",
	"Premise Lot",
	"Location",
	"Monthly Income",
	"Business Status",
	"Year",
}

// ExportFilename is the suggested download name for a year's export.
func ExportFilename(year int) string {
	return fmt.Sprintf("sedco-entrepreneurs-report-%d.csv", year)
}

// ExportCSV renders every record of year, ordered by name. Each data field
// is quoted with embedded quotes doubled. A year without records yields the
// header line only.
func (e *Engine) ExportCSV(ctx context.Context, year int) (string, error) {
	h, err := e.store.Ensure(ctx)
	if err != nil {
		return "", err
	}
	list, err := repository.NewEntrepreneurRepository(h).ListByYear(ctx, year)
	if err != nil {
		return "", fmt.Errorf("export %d: %w", year, err)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(CSVHeader, ","))
	sb.WriteByte('\n')
	for i := range list {
		for j, field := range csvFields(&list[i]) {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
			sb.WriteByte('"')
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func csvFields(e *models.Entrepreneur) []string {
	return []string{
		e.Name,
		e.ICNumber,
		string(e.Gender),
		e.Race,
		e.Academic,
		e.Phone,
		e.CompanyName,
		e.Address,
		e.Email,
		e.District,
		string(e.BusinessType),
		e.BusinessField,
		string(e.Agency),
		strconv.Itoa(e.EmployeeCount),
		string(e.Program),
		e.PremiseLot,
		e.Location,
		strconv.FormatFloat(e.MonthlyIncome, 'f', -1, 64),
		string(e.BusinessStatus),
		strconv.Itoa(e.Year),
	}
}
