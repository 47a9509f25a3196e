package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sedcoRecords/internal/auth"
	"sedcoRecords/models"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	var remember bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in with email and password. After three failed attempts the
client is locked out for fifteen minutes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			ctx := cmd.Context()
			var err error
			if email == "" {
				if email, err = a.State.RememberedEmail(); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = a.readLine("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.readPassword("Password: "); err != nil {
					return err
				}
			}

			u, err := a.Guard.Login(ctx, email, password, auth.Remember(remember))
			if err != nil {
				return err
			}
			tok, err := a.Sessions.Issue(u)
			if err != nil {
				return fmt.Errorf("issue session: %w", err)
			}
			if err := a.State.SetSession(tok); err != nil {
				return err
			}
			uid := u.ID
			a.Service.RecordActivity(ctx, &uid, "login", u.Name+" signed in")
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (default: remembered email, else prompt)")
	cmd.Flags().StringVar(&password, "password", "", "account password (default: prompt)")
	cmd.Flags().BoolVar(&remember, "remember", false, "remember the email for the next login")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ctx, _, err := c.app.session(cmd.Context()); err == nil {
				c.app.record(ctx, "logout", "Signed out")
			}
			if err := c.app.State.SetSession(""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := c.app.session(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s session expires %s\n",
				p.Name, p.Email, p.Role, p.ExpiresAt.Local().Format(time.DateTime))
			return nil
		},
	}
}

func (c *cli) lockoutStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lockout-status",
		Short: "Show failed login attempts and any active lockout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.app.Guard.Status()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if st.Locked {
				fmt.Fprintf(out, "locked: %d failed attempts, %s remaining (until %s)\n",
					st.Attempts, st.Remaining.Round(time.Second), st.Until.Local().Format(time.DateTime))
				return nil
			}
			fmt.Fprintf(out, "unlocked: %d failed attempts\n", st.Attempts)
			return nil
		},
	}
}

func (c *cli) passwordCmd() *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the signed-in user's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			ctx, p, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if current == "" {
				if current, err = a.readPassword("Current password: "); err != nil {
					return err
				}
			}
			if next == "" {
				if next, err = a.readPassword("New password: "); err != nil {
					return err
				}
			}
			if next == "" {
				return errors.New("new password must not be empty")
			}
			res := a.Service.UpdateUserPassword(ctx, p.UserID, current, next)
			if !res.OK() {
				return res.Err()
			}
			a.record(ctx, "password", "Changed password")
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password (default: prompt)")
	cmd.Flags().StringVar(&next, "new", "", "new password (default: prompt)")
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the signed-in user's profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show profile and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, p, err := c.app.session(cmd.Context())
			if err != nil {
				return err
			}
			res := c.app.Service.GetUserSettings(ctx, p.UserID)
			if !res.OK() {
				return res.Err()
			}
			s := res.Value
			avatar := ""
			if s.AvatarURL != nil {
				avatar = *s.AvatarURL
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", s.Name)
			fmt.Fprintf(w, "Email:\t%s\n", s.Email)
			fmt.Fprintf(w, "Role:\t%s\n", s.Role)
			fmt.Fprintf(w, "Avatar:\t%s\n", avatar)
			fmt.Fprintf(w, "Notifications:\t%t\n", s.NotificationsEnabled)
			fmt.Fprintf(w, "Theme:\t%s\n", s.Theme)
			fmt.Fprintf(w, "Updated:\t%s\n", s.UpdatedAt)
			return w.Flush()
		},
	}

	var name, email, avatar, theme string
	var notifications bool
	update := &cobra.Command{
		Use:   "update",
		Short: "Update only the given profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, p, err := c.app.session(cmd.Context())
			if err != nil {
				return err
			}
			var u models.ProfileUpdate
			f := cmd.Flags()
			if f.Changed("name") {
				u.Name = &name
			}
			if f.Changed("email") {
				u.Email = &email
			}
			if f.Changed("avatar") {
				u.AvatarURL = &avatar
			}
			if f.Changed("notifications") {
				u.NotificationsEnabled = &notifications
			}
			if f.Changed("theme") {
				u.Theme = &theme
			}
			if err := u.Validate(); err != nil {
				return err
			}
			res := c.app.Service.UpdateUserProfile(ctx, p.UserID, u)
			if !res.OK() {
				return res.Err()
			}
			if !u.Empty() {
				c.app.record(ctx, "profile", "Updated profile")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated")
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "display name")
	update.Flags().StringVar(&email, "email", "", "email address")
	update.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	update.Flags().StringVar(&theme, "theme", "", "light or dark")
	update.Flags().BoolVar(&notifications, "notifications", true, "enable notifications")

	cmd.AddCommand(show, update)
	return cmd
}

func (c *cli) usersCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List accounts (administrators only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := c.app.session(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := auth.RequireRole(ctx, models.RoleAdmin); err != nil {
				return err
			}
			res := c.app.Service.ListUsers(ctx, limit, offset)
			if !res.OK() {
				return res.Err()
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
			for _, u := range res.Value {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func (c *cli) seedAdminCmd() *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or reset an administrator account",
		Long: `Create an administrator account, or reset the password and role of an
existing account with the same email. The password is stored as a bcrypt hash.

This is a local bootstrap tool. It runs without a session on a fresh store
that holds only the configured administrator; once any other account exists
it requires a signed-in administrator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkSeedAllowed(cmd.Context()); err != nil {
				return err
			}
			res := c.app.Service.EnsureAdmin(cmd.Context(), email, name, password)
			if !res.OK() {
				return res.Err()
			}
			uid := res.Value
			c.app.Service.RecordActivity(cmd.Context(), &uid, "seed_admin", "Administrator "+email+" provisioned")
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", res.Message, res.Value)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "administrator email")
	cmd.Flags().StringVar(&name, "name", "Admin User", "administrator name")
	cmd.Flags().StringVar(&password, "password", "", "administrator password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// checkSeedAllowed requires an administrator session once the store holds an
// account other than the configured administrator.
func (c *cli) checkSeedAllowed(ctx context.Context) error {
	res := c.app.Service.ListUsers(ctx, 2, 0)
	if !res.OK() {
		return res.Err()
	}
	for _, u := range res.Value {
		if u.Email == c.app.Config.Admin.Email {
			continue
		}
		ctx, _, err := c.app.session(ctx)
		if err != nil {
			return err
		}
		_, err = auth.RequireRole(ctx, models.RoleAdmin)
		return err
	}
	return nil
}
