package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"sedcoRecords/models"
)

// recordFlags binds one flag per entrepreneur field.
type recordFlags struct {
	file string

	name, icNumber, gender, race, academic, phone, companyName string
	address, email, district, businessType, businessField      string
	agency, program, premiseLot, location, businessStatus      string

	employeeCount, year int
	monthlyIncome       float64
}

func (r *recordFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&r.file, "file", "f", "", "YAML file holding the record; flags override its fields")
	fs.StringVar(&r.name, "name", "", "full name")
	fs.StringVar(&r.icNumber, "ic-number", "", "identity card number")
	fs.StringVar(&r.gender, "gender", "", "male or female")
	fs.StringVar(&r.race, "race", "", "race")
	fs.StringVar(&r.academic, "academic", "", "highest academic level")
	fs.StringVar(&r.phone, "phone", "", "phone number")
	fs.StringVar(&r.companyName, "company-name", "", "company name")
	fs.StringVar(&r.address, "address", "", "business address")
	fs.StringVar(&r.email, "email", "", "contact email")
	fs.StringVar(&r.district, "district", "", "district code, e.g. kota-kinabalu")
	fs.StringVar(&r.businessType, "business-type", "", "product or service")
	fs.StringVar(&r.businessField, "business-field", "", "business field")
	fs.StringVar(&r.agency, "agency", "", "MIDE, DIDR, SVH or PRSB")
	fs.IntVar(&r.employeeCount, "employee-count", 0, "number of employees")
	fs.StringVar(&r.program, "program", "", "rental or spubs")
	fs.StringVar(&r.premiseLot, "premise-lot", "", "premise lot")
	fs.StringVar(&r.location, "location", "", "premise location")
	fs.Float64Var(&r.monthlyIncome, "monthly-income", 0, "monthly income in RM")
	fs.StringVar(&r.businessStatus, "business-status", "", "active, inactive or \"in process\"")
	fs.IntVar(&r.year, "year", 0, "reporting year")
}

// apply loads the YAML file (if any) into e, then overrides the fields whose
// flags were given.
func (r *recordFlags) apply(fs *pflag.FlagSet, e *models.Entrepreneur) error {
	if r.file != "" {
		data, err := os.ReadFile(r.file)
		if err != nil {
			return fmt.Errorf("failed to read record file: %w", err)
		}
		if err := yaml.Unmarshal(data, e); err != nil {
			return fmt.Errorf("failed to parse record file: %w", err)
		}
	}
	str := map[string]*string{
		"name":           &e.Name,
		"ic-number":      &e.ICNumber,
		"race":           &e.Race,
		"academic":       &e.Academic,
		"phone":          &e.Phone,
		"company-name":   &e.CompanyName,
		"address":        &e.Address,
		"email":          &e.Email,
		"district":       &e.District,
		"business-field": &e.BusinessField,
		"premise-lot":    &e.PremiseLot,
		"location":       &e.Location,
	}
	vals := map[string]string{
		"name": r.name, "ic-number": r.icNumber, "race": r.race, "academic": r.academic,
		"phone": r.phone, "company-name": r.companyName, "address": r.address, "email": r.email,
		"district": r.district, "business-field": r.businessField, "premise-lot": r.premiseLot,
		"location": r.location,
	}
	for flag, dst := range str {
		if fs.Changed(flag) {
			*dst = vals[flag]
		}
	}
	if fs.Changed("gender") {
		e.Gender = models.Gender(r.gender)
	}
	if fs.Changed("business-type") {
		e.BusinessType = models.BusinessType(r.businessType)
	}
	if fs.Changed("agency") {
		e.Agency = models.Agency(r.agency)
	}
	if fs.Changed("program") {
		e.Program = models.Program(r.program)
	}
	if fs.Changed("business-status") {
		e.BusinessStatus = models.BusinessStatus(r.businessStatus)
	}
	if fs.Changed("employee-count") {
		e.EmployeeCount = r.employeeCount
	}
	if fs.Changed("monthly-income") {
		e.MonthlyIncome = r.monthlyIncome
	}
	if fs.Changed("year") {
		e.Year = r.year
	}
	return e.Validate()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func (c *cli) entrepreneursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entrepreneurs",
		Aliases: []string{"ent"},
		Short:   "Manage entrepreneur records",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every record by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.app.Service.ListEntrepreneurs(cmd.Context())
			if !res.OK() {
				return res.Err()
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tIC NUMBER\tCOMPANY\tTYPE\tSTATUS\tDISTRICT")
			for _, e := range res.Value {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.Name, e.ICNumber, e.CompanyName, e.BusinessType, e.Status, e.District)
			}
			return w.Flush()
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one full record as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res := c.app.Service.GetEntrepreneur(cmd.Context(), id)
			if !res.OK() {
				return res.Err()
			}
			data, err := yaml.Marshal(res.Value)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "id: %d\n%s", res.Value.ID, data)
			return nil
		},
	}

	var addFlags recordFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a record from a YAML file and/or flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := c.app.session(cmd.Context())
			if err != nil {
				return err
			}
			var e models.Entrepreneur
			if err := addFlags.apply(cmd.Flags(), &e); err != nil {
				return err
			}
			res := c.app.Service.AddEntrepreneur(ctx, &e)
			if !res.OK() {
				return res.Err()
			}
			c.app.record(ctx, "create", "Added entrepreneur "+e.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Added entrepreneur %d\n", res.Value)
			return nil
		},
	}
	addFlags.register(add.Flags())

	var updFlags recordFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a record; fields not given keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := c.app.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur := c.app.Service.GetEntrepreneur(ctx, id)
			if !cur.OK() {
				return cur.Err()
			}
			e := *cur.Value
			if err := updFlags.apply(cmd.Flags(), &e); err != nil {
				return err
			}
			res := c.app.Service.UpdateEntrepreneur(ctx, id, &e)
			if !res.OK() {
				return res.Err()
			}
			c.app.record(ctx, "update", "Updated entrepreneur "+e.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entrepreneur %d\n", id)
			return nil
		},
	}
	updFlags.register(update.Flags())

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := c.app.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res := c.app.Service.DeleteEntrepreneur(ctx, id)
			if !res.OK() {
				return res.Err()
			}
			c.app.record(ctx, "delete", fmt.Sprintf("Deleted entrepreneur %d", id))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entrepreneur %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, get, add, update, del)
	return cmd
}
