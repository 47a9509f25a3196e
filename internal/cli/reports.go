package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sedcoRecords/internal/report"
	"sedcoRecords/models"
)

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard figures across all years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.app.Service.GetDashboardStats(cmd.Context())
			if !res.OK() {
				return res.Err()
			}
			s := res.Value
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Total entrepreneurs:\t%d\n", s.TotalEntrepreneurs)
			fmt.Fprintf(w, "Active businesses:\t%d\n", s.ActiveBusinesses)
			fmt.Fprintf(w, "Average income:\tRM%d\n", s.AverageIncome)
			fmt.Fprintf(w, "Total employees:\t%d\n", s.TotalEmployees)
			return w.Flush()
		},
	}
}

func (c *cli) activitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activities",
		Short: "Show the ten most recent activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.app.Service.GetRecentActivities(cmd.Context())
			if !res.OK() {
				return res.Err()
			}
			out := cmd.OutOrStdout()
			if len(res.Value) == 0 {
				fmt.Fprintln(out, "No recent activities found")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tUSER\tDESCRIPTION")
			for _, a := range res.Value {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.Time, a.User, a.Description)
			}
			return w.Flush()
		},
	}
}

func (c *cli) yearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the selectable reporting years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, y := range models.ReportYears {
				fmt.Fprintln(cmd.OutOrStdout(), y)
			}
			return nil
		},
	}
}

func (c *cli) reportCmd() *cobra.Command {
	var year int
	var pdfPath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the aggregates for one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.app.Service.BuildReport(cmd.Context(), year)
			if !res.OK() {
				return res.Err()
			}
			out := cmd.OutOrStdout()
			if pdfPath != "" {
				f, err := os.Create(pdfPath)
				if err != nil {
					return err
				}
				if err := report.RenderPDF(res.Value, f); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s\n", pdfPath)
				return nil
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Value)
			}
			return printReport(out, res.Value)
		},
	}
	cmd.Flags().IntVar(&year, "year", models.ReportYears[0], "reporting year")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write the report to this PDF file instead")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(out io.Writer, b *models.ReportBundle) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Report %d\n", b.Year)
	named := []struct {
		title string
		rows  []models.NamedCount
	}{
		{"Gender", b.GenderDistribution},
		{"Race", b.RaceDistribution},
		{"Agency", b.AgencyDistribution},
		{"Academic", b.AcademicDistribution},
		{"Program", b.ProgramDistribution},
		{"Business type", b.BusinessTypeDistribution},
	}
	for _, s := range named {
		fmt.Fprintf(w, "\n%s\n", s.title)
		for _, r := range s.rows {
			fmt.Fprintf(w, "  %s\t%d\n", r.Name, r.Value)
		}
	}
	fmt.Fprintf(w, "\nMonthly income\n")
	for _, r := range b.MonthlyIncomeRanges {
		fmt.Fprintf(w, "  %s\t%d\n", r.Range, r.Count)
	}
	fmt.Fprintf(w, "\nTop districts\n")
	for _, r := range b.DistrictDistribution {
		fmt.Fprintf(w, "  %s\t%d\n", r.District, r.Count)
	}
	return w.Flush()
}

func (c *cli) exportCmd() *cobra.Command {
	var year int
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one year's records as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.app.Service.ExportCSV(cmd.Context(), year)
			if !res.OK() {
				return res.Err()
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path := filepath.Join(dir, report.ExportFilename(year))
			if err := os.WriteFile(path, []byte(res.Value), 0o644); err != nil {
				return err
			}
			if ctx, _, err := c.app.session(cmd.Context()); err == nil {
				c.app.record(ctx, "export", fmt.Sprintf("Exported %d report", year))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", models.ReportYears[0], "reporting year")
	cmd.Flags().StringVar(&dir, "out", ".", "output directory")
	return cmd
}
