package cli

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sedcoRecords/internal/config"
)

// Option customizes NewRootCommand.
type Option func(*cli)

// WithConfig skips environment loading and uses cfg.
func WithConfig(cfg *config.Config) Option {
	return func(c *cli) { c.cfg = cfg }
}

// WithClock replaces the wall clock used for sessions and lockouts.
func WithClock(now func() time.Time) Option {
	return func(c *cli) { c.now = now }
}

// WithInput sets where interactive prompts read from.
func WithInput(in io.Reader) Option {
	return func(c *cli) { c.in = in }
}

type cli struct {
	cfg *config.Config
	now func() time.Time
	in  io.Reader

	dbPath    string
	statePath string

	app    *App
	closed bool
}

// NewRootCommand returns the sedco command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	return newCLI(opts...).rootCommand()
}

func newCLI(opts ...Option) *cli {
	c := &cli{in: os.Stdin}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *cli) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sedco",
		Short: "SEDCO entrepreneur records",
		Long: `sedco manages the SEDCO entrepreneur register from the command line.

It keeps entrepreneur records in a local SQLite store and provides:
- sign-in with a lockout after repeated failures
- record maintenance and the dashboard summary
- yearly reports as text, PDF or CSV export`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.dbPath, "db", "", "database file (default: $DB_PATH or sedco.db)")
	rootCmd.PersistentFlags().StringVar(&c.statePath, "state", "", "client state file (default: $STATE_PATH)")

	rootCmd.AddCommand(c.loginCmd())
	rootCmd.AddCommand(c.logoutCmd())
	rootCmd.AddCommand(c.whoamiCmd())
	rootCmd.AddCommand(c.lockoutStatusCmd())
	rootCmd.AddCommand(c.entrepreneursCmd())
	rootCmd.AddCommand(c.statsCmd())
	rootCmd.AddCommand(c.activitiesCmd())
	rootCmd.AddCommand(c.reportCmd())
	rootCmd.AddCommand(c.exportCmd())
	rootCmd.AddCommand(c.yearsCmd())
	rootCmd.AddCommand(c.profileCmd())
	rootCmd.AddCommand(c.passwordCmd())
	rootCmd.AddCommand(c.usersCmd())
	rootCmd.AddCommand(c.seedAdminCmd())

	c.closeAfterRun(rootCmd)
	return rootCmd
}

// closeAfterRun wraps every RunE in the tree so the store is closed whether
// the command succeeds or fails. PersistentPostRunE is skipped on failure.
func (c *cli) closeAfterRun(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		c.closeAfterRun(sub)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if cerr := c.close(); err == nil {
			err = cerr
		}
		return err
	}
}

func (c *cli) close() error {
	if c.app == nil || c.closed {
		return nil
	}
	c.closed = true
	return c.app.Close()
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg := c.cfg
	if cfg == nil {
		var err error
		cfg, err = config.LoadWithDefaults()
		if err != nil {
			return err
		}
	}
	copied := *cfg
	if c.dbPath != "" {
		copied.Database.Path = c.dbPath
	}
	if c.statePath != "" {
		copied.Client.StatePath = c.statePath
	}
	c.app = NewApp(&copied, c.now, c.in, cmd.OutOrStdout())
	return nil
}
