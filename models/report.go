package models

// NamedCount is one slice of a categorical distribution.
type NamedCount struct {
	Name  string `db:"name" json:"name"`
	Value int    `db:"value" json:"value"`
}

// IncomeRangeCount is one monthly income band.
type IncomeRangeCount struct {
	Range string `db:"range" json:"range"`
	Count int    `db:"count" json:"count"`
}

// DistrictCount is one bar of the top districts chart.
type DistrictCount struct {
	District string `db:"district" json:"district"`
	Count    int    `db:"count" json:"count"`
}

// ReportBundle holds every aggregate for one reporting year.
type ReportBundle struct {
	Year                     int                `json:"year"`
	GenderDistribution       []NamedCount       `json:"genderDistribution"`
	RaceDistribution         []NamedCount       `json:"raceDistribution"`
	MonthlyIncomeRanges      []IncomeRangeCount `json:"monthlyIncomeRanges"`
	AgencyDistribution       []NamedCount       `json:"agencyDistribution"`
	AcademicDistribution     []NamedCount       `json:"academicDistribution"`
	ProgramDistribution      []NamedCount       `json:"programDistribution"`
	BusinessTypeDistribution []NamedCount       `json:"businessTypeDistribution"`
	DistrictDistribution     []DistrictCount    `json:"districtDistribution"`
}

// DashboardStats are the headline numbers across all years.
type DashboardStats struct {
	TotalEntrepreneurs int `json:"totalEntrepreneurs"`
	ActiveBusinesses   int `json:"activeBusinesses"`
	AverageIncome      int `json:"averageIncome"`
	TotalEmployees     int `json:"totalEmployees"`
}
