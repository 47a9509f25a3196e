package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"sedcoRecords/models"
)

type pdfSection struct {
	title string
	head  [2]string
	rows  [][2]string
}

func namedRows(in []models.NamedCount) [][2]string {
	out := make([][2]string, 0, len(in))
	for _, c := range in {
		out = append(out, [2]string{c.Name, fmt.Sprintf("%d", c.Value)})
	}
	return out
}

func pdfSections(b *models.ReportBundle) []pdfSection {
	income := make([][2]string, 0, len(b.MonthlyIncomeRanges))
	for _, c := range b.MonthlyIncomeRanges {
		income = append(income, [2]string{c.Range, fmt.Sprintf("%d", c.Count)})
	}
	districts := make([][2]string, 0, len(b.DistrictDistribution))
	for _, c := range b.DistrictDistribution {
		districts = append(districts, [2]string{c.District, fmt.Sprintf("%d", c.Count)})
	}
	return []pdfSection{
		{"Gender Distribution", [2]string{"Gender", "Count"}, namedRows(b.GenderDistribution)},
		{"Race Distribution", [2]string{"Race", "Count"}, namedRows(b.RaceDistribution)},
		{"Monthly Income", [2]string{"Range", "Count"}, income},
		{"Agency Distribution", [2]string{"Agency", "Count"}, namedRows(b.AgencyDistribution)},
		{"Academic Background", [2]string{"Academic", "Count"}, namedRows(b.AcademicDistribution)},
		{"Program Distribution", [2]string{"Program", "Count"}, namedRows(b.ProgramDistribution)},
		{"Business Type", [2]string{"Type", "Count"}, namedRows(b.BusinessTypeDistribution)},
		{"Top Districts", [2]string{"District", "Count"}, districts},
	}
}

// RenderPDF writes a summary of b to w, one page per aggregate.
func RenderPDF(b *models.ReportBundle, w io.Writer) error {
	if b == nil {
		return errors.New("report bundle is nil")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	title := fmt.Sprintf("SEDCO Entrepreneur Report %d", b.Year)
	pdf.SetTitle(title, false)

	for _, s := range pdfSections(b) {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(5)

		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, s.title, "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(120, 10, s.head[0], "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 10, s.head[1], "1", 1, "C", false, 0, "")

		pdf.SetFont("Arial", "", 12)
		if len(s.rows) == 0 {
			pdf.CellFormat(160, 10, "No data", "1", 1, "C", false, 0, "")
			continue
		}
		for _, r := range s.rows {
			pdf.CellFormat(120, 10, r[0], "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 10, r[1], "1", 1, "R", false, 0, "")
		}
	}
	return pdf.Output(w)
}
