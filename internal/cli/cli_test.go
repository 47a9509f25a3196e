package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sedcoRecords/internal/auth"
	"sedcoRecords/internal/config"
	"sedcoRecords/internal/report"
)

type harness struct {
	t   *testing.T
	cfg *config.Config
	dir string
	now time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		t:   t,
		dir: dir,
		now: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
		cfg: &config.Config{
			Database: config.DatabaseConfig{Path: filepath.Join(dir, "sedco.db"), SampleData: true},
			Auth: config.AuthConfig{
				SessionSecret:   "test-secret",
				SessionTTL:      time.Hour,
				BcryptCost:      bcrypt.MinCost,
				MaxAttempts:     3,
				LockoutDuration: 15 * time.Minute,
			},
			Admin:  config.AdminConfig{Email: "admin@sedco.gov.my", Name: "Admin User", Password: "admin123"},
			Client: config.ClientConfig{StatePath: filepath.Join(dir, "state.yaml")},
		},
	}
}

func (h *harness) runIn(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(
		WithConfig(h.cfg),
		WithClock(func() time.Time { return h.now }),
		WithInput(strings.NewReader(stdin)),
	)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	return h.runIn("", args...)
}

func (h *harness) login() {
	h.t.Helper()
	_, err := h.run("login", "--email", "admin@sedco.gov.my", "--password", "admin123")
	require.NoError(h.t, err)
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "sedco", cmd.Use)

	expected := []string{
		"login", "logout", "whoami", "lockout-status", "entrepreneurs", "stats",
		"activities", "report", "export", "years", "profile", "password", "users", "seed-admin",
	}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "expected command %s", name)
	}
	for _, flag := range []string{"db", "state"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "expected flag %s", flag)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("whoami")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	out, err := h.run("login", "--email", "admin@sedco.gov.my", "--password", "admin123")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Admin User <admin@sedco.gov.my>")

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "role=admin")

	out, err = h.run("activities")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin User signed in")

	_, err = h.run("logout")
	require.NoError(t, err)
	_, err = h.run("whoami")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestLoginPromptsForPassword(t *testing.T) {
	h := newHarness(t)
	out, err := h.runIn("admin@sedco.gov.my\nadmin123\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Signed in as Admin User")
}

func TestLoginRemembersEmail(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("login", "--email", "admin@sedco.gov.my", "--password", "admin123", "--remember")
	require.NoError(t, err)
	_, err = h.run("logout")
	require.NoError(t, err)

	out, err := h.runIn("admin123\n", "login")
	require.NoError(t, err)
	assert.NotContains(t, out, "Email: ")
	assert.Contains(t, out, "Signed in as Admin User")
}

func TestLockoutAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("login", "--email", "admin@sedco.gov.my", "--password", "bad")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = h.run("login", "--email", "admin@sedco.gov.my", "--password", "bad")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = h.run("login", "--email", "admin@sedco.gov.my", "--password", "bad")
	assert.ErrorIs(t, err, auth.ErrLocked)

	out, err := h.run("lockout-status")
	require.NoError(t, err)
	assert.Contains(t, out, "locked: 3 failed attempts, 15m0s remaining")

	h.now = h.now.Add(10 * time.Minute)
	_, err = h.run("login", "--email", "admin@sedco.gov.my", "--password", "admin123")
	assert.ErrorIs(t, err, auth.ErrLocked)

	h.now = h.now.Add(5 * time.Minute)
	out, err = h.run("lockout-status")
	require.NoError(t, err)
	assert.Contains(t, out, "unlocked: 0 failed attempts")
	h.login()
}

func TestEntrepreneurCommands(t *testing.T) {
	h := newHarness(t)

	args := []string{"entrepreneurs", "add",
		"--name", `Aminah "Mak Nah" O'Connor`, "--ic-number", "800101-12-5678", "--gender", "female",
		"--race", "Bajau", "--academic", "SPM", "--phone", "0111111111",
		"--company-name", `Nah's "Kuih" House`, "--address", "Kg. Likas", "--email", "nah@example.com",
		"--district", "kota-belud", "--business-type", "product", "--business-field", "Food",
		"--agency", "SVH", "--employee-count", "2", "--program", "spubs", "--premise-lot", "C-3",
		"--location", "Tamu Kota Belud", "--monthly-income", "2500", "--business-status", "active",
		"--year", "2024",
	}
	_, err := h.run(args...)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	h.login()
	out, err := h.run(args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Added entrepreneur 2")

	out, err = h.run("entrepreneurs", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `Aminah "Mak Nah" O'Connor`)
	assert.Contains(t, lines[2], "Sarah Abdullah")

	out, err = h.run("entrepreneurs", "get", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "district: kota-belud")
	assert.Contains(t, out, "Mak Nah")

	_, err = h.run("entrepreneurs", "update", "2", "--monthly-income", "12000")
	require.NoError(t, err)
	out, err = h.run("report", "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "RM10,000 and above")
	assert.Contains(t, out, "Kota Belud")

	_, err = h.run("entrepreneurs", "update", "2", "--gender", "other")
	assert.Error(t, err)

	_, err = h.run("entrepreneurs", "delete", "2")
	require.NoError(t, err)
	_, err = h.run("entrepreneurs", "get", "2")
	assert.ErrorContains(t, err, "not_found")

	out, err = h.run("activities")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted entrepreneur 2")
}

func TestAddFromYAMLFile(t *testing.T) {
	h := newHarness(t)
	h.login()

	path := filepath.Join(h.dir, "record.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: Lim Ah Kow
ic_number: 750505-12-1111
gender: male
race: Cina
academic: Degree
phone: "0199999999"
company_name: Lim Hardware
address: Jalan Dunlop
email: lim@example.com
district: sandakan
business_type: service
business_field: Repair
agency: PRSB
employee_count: 6
program: rental
premise_lot: D-1
location: Sandakan Town
monthly_income: 15000
business_status: in process
year: 2023
`), 0o600))

	out, err := h.run("entrepreneurs", "add", "--file", path, "--district", "tawau")
	require.NoError(t, err)
	assert.Contains(t, out, "Added entrepreneur")

	out, err = h.run("report", "--year", "2023", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"district": "Tawau"`)
	assert.Contains(t, out, `"range": "RM10,000 and above"`)

	bad := filepath.Join(h.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: X\ndistrict: atlantis\n"), 0o600))
	_, err = h.run("entrepreneurs", "add", "--file", bad)
	assert.Error(t, err)
}

func TestReportExportAndYears(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("years")
	require.NoError(t, err)
	assert.Equal(t, "2024\n2023\n2022\n", out)

	outDir := filepath.Join(h.dir, "exports")
	_, err = h.run("export", "--year", "2024", "--out", outDir)
	require.NoError(t, err)
	body, err := os.ReadFile(filepath.Join(outDir, report.ExportFilename(2024)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "Name,IC Number,"))
	assert.Contains(t, string(body), `"Sarah Abdullah"`)

	pdf := filepath.Join(h.dir, "report.pdf")
	_, err = h.run("report", "--year", "2024", "--pdf", pdf)
	require.NoError(t, err)
	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	out, err = h.run("stats")
	require.NoError(t, err)
	assert.Regexp(t, `Average income:\s+RM5000`, out)
}

func TestPasswordAndProfile(t *testing.T) {
	h := newHarness(t)
	h.login()

	_, err := h.run("password", "--current", "wrong", "--new", "next")
	assert.ErrorContains(t, err, "Current password is incorrect")

	out, err := h.run("password", "--current", "admin123", "--new", "n3w-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "Password updated successfully")

	_, err = h.run("login", "--email", "admin@sedco.gov.my", "--password", "n3w-pass")
	require.NoError(t, err)

	_, err = h.run("profile", "update", "--name", `Encik "Admin"`, "--theme", "dark", "--notifications=false")
	require.NoError(t, err)
	out, err = h.run("profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `Encik "Admin"`)
	assert.Contains(t, out, "dark")
	assert.Contains(t, out, "false")

	_, err = h.run("profile", "update", "--theme", "blue")
	assert.Error(t, err)

	_, err = h.run("profile", "update", "--email", "")
	assert.ErrorContains(t, err, "email must not be empty")
	_, err = h.run("profile", "update", "--name", "  ")
	assert.ErrorContains(t, err, "name must not be empty")
	out, err = h.run("profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@sedco.gov.my")
}

func TestFailingCommandClosesStore(t *testing.T) {
	h := newHarness(t)
	c := newCLI(WithConfig(h.cfg), WithClock(func() time.Time { return h.now }))
	cmd := c.rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"entrepreneurs", "get", "999"})

	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "not_found")

	require.NotNil(t, c.app)
	assert.True(t, c.closed)
	d, err := c.app.Store.Ensure(context.Background())
	require.NoError(t, err)
	assert.Error(t, d.Ping())
}

func TestReadPasswordWithoutTerminal(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "input")
	require.NoError(t, os.WriteFile(path, []byte("s3cret\n"), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	a := NewApp(h.cfg, nil, f, &out)
	assert.Nil(t, a.inTTY)
	pw, err := a.readPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Equal(t, "Password: ", out.String())
}

func TestSeedAdminAndUsers(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("seed-admin", "--email", "ops@sedco.gov.my", "--name", "Ops", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Administrator created")

	_, err = h.run("seed-admin", "--email", "ops@sedco.gov.my", "--password", "other")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	_, err = h.run("login", "--email", "ops@sedco.gov.my", "--password", "other")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	h.login()
	out, err = h.run("seed-admin", "--email", "ops@sedco.gov.my", "--password", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "Administrator updated")

	_, err = h.run("login", "--email", "ops@sedco.gov.my", "--password", "other")
	require.NoError(t, err)

	out, err = h.run("users")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@sedco.gov.my")
	assert.Contains(t, out, "ops@sedco.gov.my")
}
