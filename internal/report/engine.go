// Package report computes the year-scoped aggregates shown on the reports
// screen and renders them as CSV or PDF.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"sedcoRecords/internal/db"
	"sedcoRecords/models"
)

// IncomeBand is one monthly income bucket. Max is exclusive; zero means
// unbounded.
type IncomeBand struct {
	Label string
	Max   float64
}

// IncomeBands partition monthly income. Every record falls in exactly one.
var IncomeBands = []IncomeBand{
	{Label: "Below RM2,000", Max: 2000},
	{Label: "RM2,000 - RM4,999", Max: 5000},
	{Label: "RM5,000 - RM9,999", Max: 10000},
	{Label: "RM10,000 and above"},
}

const topDistricts = 10

// Engine builds reports against the process store.
type Engine struct {
	store *db.Store
}

// NewEngine creates a new Engine.
func NewEngine(store *db.Store) *Engine {
	return &Engine{store: store}
}

type groupRow struct {
	Label string `db:"label"`
	Value int    `db:"value"`
}

// Build returns all eight aggregates for year. Groups with no records are
// empty lists, never nil.
func (e *Engine) Build(ctx context.Context, year int) (*models.ReportBundle, error) {
	h, err := e.store.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	b := &models.ReportBundle{Year: year}
	categorical := []struct {
		column string
		label  func(string) string
		dst    *[]models.NamedCount
	}{
		{"gender", capitalize, &b.GenderDistribution},
		{"race", nil, &b.RaceDistribution},
		{"agency", nil, &b.AgencyDistribution},
		{"academic", nil, &b.AcademicDistribution},
		{"program", strings.ToUpper, &b.ProgramDistribution},
		{"business_type", capitalize, &b.BusinessTypeDistribution},
	}
	for _, c := range categorical {
		rows, err := selectGroups(ctx, h, sq.Select(c.column+" AS label", "COUNT(*) AS value").
			From("entrepreneurs").
			Where(sq.Eq{"year": year}).
			GroupBy(c.column).
			OrderBy(c.column))
		if err != nil {
			return nil, fmt.Errorf("%s distribution: %w", c.column, err)
		}
		out := make([]models.NamedCount, 0, len(rows))
		for _, r := range rows {
			name := r.Label
			if c.label != nil {
				name = c.label(name)
			}
			out = append(out, models.NamedCount{Name: name, Value: r.Value})
		}
		*c.dst = out
	}

	rows, err := selectGroups(ctx, h, sq.Select().
		Column(sq.Alias(incomeBandCase(), "label")).
		Column("COUNT(*) AS value").
		From("entrepreneurs").
		Where(sq.Eq{"year": year}).
		GroupBy("label").
		OrderBy("MIN(monthly_income)"))
	if err != nil {
		return nil, fmt.Errorf("income ranges: %w", err)
	}
	b.MonthlyIncomeRanges = make([]models.IncomeRangeCount, 0, len(rows))
	for _, r := range rows {
		b.MonthlyIncomeRanges = append(b.MonthlyIncomeRanges, models.IncomeRangeCount{Range: r.Label, Count: r.Value})
	}

	rows, err = selectGroups(ctx, h, sq.Select("district AS label", "COUNT(*) AS value").
		From("entrepreneurs").
		Where(sq.Eq{"year": year}).
		GroupBy("district").
		OrderBy("value DESC", "district ASC").
		Limit(topDistricts))
	if err != nil {
		return nil, fmt.Errorf("district distribution: %w", err)
	}
	b.DistrictDistribution = make([]models.DistrictCount, 0, len(rows))
	for _, r := range rows {
		b.DistrictDistribution = append(b.DistrictDistribution, models.DistrictCount{District: DistrictLabel(r.Label), Count: r.Value})
	}
	return b, nil
}

func selectGroups(ctx context.Context, h *sqlx.DB, q sq.SelectBuilder) ([]groupRow, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var rows []groupRow
	if err := h.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func incomeBandCase() sq.CaseBuilder {
	c := sq.Case()
	for _, band := range IncomeBands {
		if band.Max == 0 {
			c = c.Else(sq.Expr("?", band.Label))
			continue
		}
		c = c.When(sq.Expr("monthly_income < ?", band.Max), sq.Expr("?", band.Label))
	}
	return c
}

// BandFor returns the label of the band holding income.
func BandFor(income float64) string {
	for _, band := range IncomeBands {
		if band.Max == 0 || income < band.Max {
			return band.Label
		}
	}
	return IncomeBands[len(IncomeBands)-1].Label
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// DistrictLabel turns a district code such as "kota-kinabalu" into
// "Kota Kinabalu".
func DistrictLabel(code string) string {
	r := []rune(strings.ReplaceAll(code, "-", " "))
	prevWord := false
	for i, c := range r {
		word := c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
		if word && !prevWord {
			r[i] = unicode.ToUpper(c)
		}
		prevWord = word
	}
	return string(r)
}
