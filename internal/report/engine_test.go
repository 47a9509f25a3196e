package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sedcoRecords/internal/db"
	"sedcoRecords/internal/testutil"
	"sedcoRecords/models"
	"sedcoRecords/repository"
)

func record(name, district string, year int, income float64) *models.Entrepreneur {
	e := db.SampleEntrepreneur()
	e.Name = name
	e.District = district
	e.Year = year
	e.MonthlyIncome = income
	return &e
}

func seedRecords(t *testing.T, s *db.Store, records ...*models.Entrepreneur) {
	t.Helper()
	h, err := s.Ensure(context.Background())
	require.NoError(t, err)
	repo := repository.NewEntrepreneurRepository(h)
	for _, r := range records {
		_, err := repo.Create(context.Background(), r)
		require.NoError(t, err)
	}
}

func TestBuild_SeededScenario(t *testing.T) {
	s := testutil.NewSeededStore(t, "report_seeded", true)
	e := NewEngine(s)

	b, err := e.Build(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 2024, b.Year)
	assert.Equal(t, []models.IncomeRangeCount{{Range: "RM5,000 - RM9,999", Count: 1}}, b.MonthlyIncomeRanges)
	assert.Equal(t, []models.NamedCount{{Name: "Female", Value: 1}}, b.GenderDistribution)
	assert.Equal(t, []models.NamedCount{{Name: "RENTAL", Value: 1}}, b.ProgramDistribution)
	assert.Equal(t, []models.NamedCount{{Name: "Product", Value: 1}}, b.BusinessTypeDistribution)
	assert.Equal(t, []models.NamedCount{{Name: "MIDE", Value: 1}}, b.AgencyDistribution)
	assert.Equal(t, []models.DistrictCount{{District: "Kota Kinabalu", Count: 1}}, b.DistrictDistribution)

	empty, err := e.Build(context.Background(), 2023)
	require.NoError(t, err)
	assert.NotNil(t, empty.GenderDistribution)
	assert.Empty(t, empty.GenderDistribution)
	assert.Empty(t, empty.RaceDistribution)
	assert.Empty(t, empty.MonthlyIncomeRanges)
	assert.Empty(t, empty.AgencyDistribution)
	assert.Empty(t, empty.AcademicDistribution)
	assert.Empty(t, empty.ProgramDistribution)
	assert.Empty(t, empty.BusinessTypeDistribution)
	assert.NotNil(t, empty.DistrictDistribution)
	assert.Empty(t, empty.DistrictDistribution)
}

func TestBuild_IncomeBandsCoverEveryRecord(t *testing.T) {
	s := testutil.NewSeededStore(t, "report_bands", false)
	incomes := []float64{0, 1999.99, 2000, 4999, 5000, 9999.5, 10000, 250000}
	for i, inc := range incomes {
		seedRecords(t, s, record("E"+string(rune('A'+i)), "tawau", 2022, inc))
	}
	seedRecords(t, s, record("Other year", "tawau", 2023, 100))

	b, err := NewEngine(s).Build(context.Background(), 2022)
	require.NoError(t, err)

	total := 0
	labels := make([]string, 0, len(b.MonthlyIncomeRanges))
	for _, r := range b.MonthlyIncomeRanges {
		total += r.Count
		labels = append(labels, r.Range)
	}
	assert.Equal(t, len(incomes), total)
	assert.Equal(t, []string{"Below RM2,000", "RM2,000 - RM4,999", "RM5,000 - RM9,999", "RM10,000 and above"}, labels)
	for _, r := range b.MonthlyIncomeRanges {
		assert.Equal(t, 2, r.Count, r.Range)
	}
}

func TestBuild_TopTenDistricts(t *testing.T) {
	s := testutil.NewSeededStore(t, "report_districts", false)
	codes := []string{"beaufort", "beluran", "keningau", "kota-belud", "kudat", "kunak",
		"lahad-datu", "nabawan", "papar", "penampang", "pitas"}
	for _, c := range codes {
		seedRecords(t, s, record("Owner "+c, c, 2024, 1000))
	}
	seedRecords(t, s,
		record("Second", "kota-belud", 2024, 1000),
		record("Third", "kota-belud", 2024, 1000),
		record("Fourth", "lahad-datu", 2024, 1000),
	)

	b, err := NewEngine(s).Build(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, b.DistrictDistribution, 10)
	assert.Equal(t, models.DistrictCount{District: "Kota Belud", Count: 3}, b.DistrictDistribution[0])
	assert.Equal(t, models.DistrictCount{District: "Lahad Datu", Count: 2}, b.DistrictDistribution[1])
	assert.Equal(t, models.DistrictCount{District: "Beaufort", Count: 1}, b.DistrictDistribution[2])
}

func TestDistrictLabel(t *testing.T) {
	cases := map[string]string{
		"kota-kinabalu": "Kota Kinabalu",
		"tawau":         "Tawau",
		"tanjung-aru":   "Tanjung Aru",
		"":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, DistrictLabel(in), in)
	}
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, "Below RM2,000", BandFor(1999.99))
	assert.Equal(t, "RM2,000 - RM4,999", BandFor(2000))
	assert.Equal(t, "RM5,000 - RM9,999", BandFor(5000))
	assert.Equal(t, "RM10,000 and above", BandFor(10000))
}

func TestExportCSV_RowsAndQuotes(t *testing.T) {
	s := testutil.NewSeededStore(t, "report_csv", true)
	tricky := record(`Ali "The Boss" bin Ahmad`, "kudat", 2024, 3200.5)
	tricky.Address = `Lot 3, "Blok A", Kudat`
	seedRecords(t, s, tricky, record("Zainab", "ranau", 2024, 800), record("Not exported", "ranau", 2023, 800))

	body, err := NewEngine(s).ExportCSV(context.Background(), 2024)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, strings.Join(CSVHeader, ",")+"\n"))

	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, `Ali "The Boss" bin Ahmad`, rows[1][0])
	assert.Equal(t, `Lot 3, "Blok A", Kudat`, rows[1][7])
	assert.Equal(t, "3200.5", rows[1][17])
	assert.Equal(t, "Sarah Abdullah", rows[2][0])
	assert.Equal(t, "5000", rows[2][17])
	assert.Equal(t, "Zainab", rows[3][0])
	for _, r := range rows {
		assert.Len(t, r, 20)
	}
}

func TestExportCSV_EmptyYearIsHeaderOnly(t *testing.T) {
	s := testutil.NewSeededStore(t, "report_csv_empty", true)
	body, err := NewEngine(s).ExportCSV(context.Background(), 2023)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(CSVHeader, ",")+"\n", body)
}

func TestExportCSV_StoreFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	e := NewEngine(db.NewStoreFromHandle(sqlx.NewDb(mockDB, "sqlmock")))
	_, err = e.ExportCSV(context.Background(), 2024)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "sedco-entrepreneurs-report-2024.csv", ExportFilename(2024))
}

func TestRenderPDF(t *testing.T) {
	s := testutil.NewSeededStore(t, "report_pdf", true)
	b, err := NewEngine(s).Build(context.Background(), 2024)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(b, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	assert.Error(t, RenderPDF(nil, &buf))
}
