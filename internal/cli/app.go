// Package cli is the sedco command-line front end. Commands talk to the data
// access layer the same way the desktop screens do: every call goes through
// dal.Service and failures are reported from its Result.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"sedcoRecords/internal/auth"
	"sedcoRecords/internal/clientstate"
	"sedcoRecords/internal/config"
	"sedcoRecords/internal/dal"
	"sedcoRecords/internal/db"
	"sedcoRecords/internal/security"
	"sedcoRecords/models"
)

// App wires the core components for one process.
type App struct {
	Config   *config.Config
	Store    *db.Store
	Service  *dal.Service
	State    *clientstate.Store
	Sessions *auth.Sessions
	Guard    *auth.Guard
	Hasher   *security.Hasher

	in    *bufio.Reader
	inTTY *os.File
	out   io.Writer
}

// NewApp builds every component from cfg. The store is not opened until the
// first operation needs it.
func NewApp(cfg *config.Config, now func() time.Time, in io.Reader, out io.Writer) *App {
	if now == nil {
		now = time.Now
	}
	hasher := security.NewHasher(cfg.Auth.BcryptCost)
	store := db.NewStore(cfg.StoreConfig(), hasher)
	svc := dal.New(store, hasher)
	state := clientstate.New(cfg.Client.StatePath)
	a := &App{
		Config:   cfg,
		Store:    store,
		Service:  svc,
		State:    state,
		Sessions: auth.NewSessions(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, now),
		Hasher:   hasher,
		in:       bufio.NewReader(in),
		out:      out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.inTTY = f
	}
	a.Guard = auth.NewGuard(auth.AuthenticatorFunc(a.authenticate), state, auth.GuardConfig{
		MaxAttempts:     cfg.Auth.MaxAttempts,
		LockoutDuration: cfg.Auth.LockoutDuration,
		Now:             now,
	})
	return a
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

func (a *App) authenticate(ctx context.Context, email, password string) (*models.UserSummary, error) {
	res := a.Service.Authenticate(ctx, email, password)
	if res.Reason == dal.ReasonCredentialMismatch {
		return nil, auth.ErrInvalidCredentials
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Value, nil
}

// session restores the signed-in principal from the state file.
func (a *App) session(ctx context.Context) (context.Context, *auth.Principal, error) {
	tok, err := a.State.Session()
	if err != nil {
		return ctx, nil, err
	}
	if tok == "" {
		return ctx, nil, fmt.Errorf("%w: run `sedco login` first", auth.ErrUnauthenticated)
	}
	p, err := a.Sessions.Parse(tok)
	if err != nil {
		return ctx, nil, fmt.Errorf("%w: session is no longer valid (%v), run `sedco login` again", auth.ErrUnauthenticated, err)
	}
	return auth.WithPrincipal(ctx, p), p, nil
}

// record appends an activity entry for the signed-in user. A failure to
// record never fails the command.
func (a *App) record(ctx context.Context, action, description string) {
	p, ok := auth.FromContext(ctx)
	var uid *int64
	if ok {
		id := p.UserID
		uid = &id
	}
	_ = a.Service.RecordActivity(ctx, uid, action, description)
}

func (a *App) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword prompts without echo when input is a terminal and falls back to
// readLine otherwise.
func (a *App) readPassword(prompt string) (string, error) {
	if a.inTTY == nil {
		return a.readLine(prompt)
	}
	fmt.Fprint(a.out, prompt)
	b, err := term.ReadPassword(int(a.inTTY.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
