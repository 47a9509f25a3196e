package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sedcoRecords/models"
)

const (
	DefaultMaxAttempts     = 3
	DefaultLockoutDuration = 15 * time.Minute
)

var (
	// ErrLocked is matched by every *LockedError.
	ErrLocked = errors.New("too many failed login attempts")
	// ErrInvalidCredentials is returned by an Authenticator that rejected the
	// email/password pair. Only this error counts as a failed attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// LockedError reports an active lockout.
type LockedError struct {
	Until     time.Time
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	mins := int((e.Remaining + time.Minute - 1) / time.Minute)
	return fmt.Sprintf("%v, please try again in %d minute(s)", ErrLocked, mins)
}

func (e *LockedError) Is(target error) bool { return target == ErrLocked }

// AttemptError is a rejected login that did not trigger a lockout.
type AttemptError struct {
	Remaining int
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%v (%d attempt(s) remaining)", ErrInvalidCredentials, e.Remaining)
}

func (e *AttemptError) Unwrap() error { return ErrInvalidCredentials }

// LockoutState is the persisted guard state. A zero Until means unlocked.
type LockoutState struct {
	Attempts int
	Until    time.Time
}

// StateStore persists guard state between runs of the client.
type StateStore interface {
	Lockout() (LockoutState, error)
	SetLockout(LockoutState) error
	SetRememberedEmail(email string) error
}

// Authenticator checks credentials against the user store.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.UserSummary, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, email, password string) (*models.UserSummary, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, email, password string) (*models.UserSummary, error) {
	return f(ctx, email, password)
}

// GuardConfig tunes the lockout policy. Zero values take the defaults.
type GuardConfig struct {
	MaxAttempts     int
	LockoutDuration time.Duration
	Now             func() time.Time
}

// Guard rate-limits interactive logins: MaxAttempts consecutive failures
// lock the client for LockoutDuration.
type Guard struct {
	auth  Authenticator
	state StateStore
	max   int
	lock  time.Duration
	now   func() time.Time

	mu sync.Mutex
}

// NewGuard creates a new Guard.
func NewGuard(a Authenticator, s StateStore, cfg GuardConfig) *Guard {
	g := &Guard{auth: a, state: s, max: cfg.MaxAttempts, lock: cfg.LockoutDuration, now: cfg.Now}
	if g.max <= 0 {
		g.max = DefaultMaxAttempts
	}
	if g.lock <= 0 {
		g.lock = DefaultLockoutDuration
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

type loginOptions struct {
	remember *bool
}

// LoginOption customizes a single Login call.
type LoginOption func(*loginOptions)

// Remember stores (true) or clears (false) the remembered email after a
// successful login.
func Remember(v bool) LoginOption {
	return func(o *loginOptions) { o.remember = &v }
}

// Login authenticates email/password unless the client is locked out.
// While locked the Authenticator is not consulted.
func (g *Guard) Login(ctx context.Context, email, password string, opts ...LoginOption) (*models.UserSummary, error) {
	var o loginOptions
	for _, opt := range opts {
		opt(&o)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.current()
	if err != nil {
		return nil, err
	}
	now := g.now()
	if !st.Until.IsZero() {
		return nil, &LockedError{Until: st.Until, Remaining: st.Until.Sub(now)}
	}

	u, err := g.auth.Authenticate(ctx, email, password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			return nil, err
		}
		st.Attempts++
		if st.Attempts >= g.max {
			st.Until = now.Add(g.lock)
			if err := g.state.SetLockout(st); err != nil {
				return nil, err
			}
			return nil, &LockedError{Until: st.Until, Remaining: g.lock}
		}
		if err := g.state.SetLockout(st); err != nil {
			return nil, err
		}
		return nil, &AttemptError{Remaining: g.max - st.Attempts}
	}

	if err := g.state.SetLockout(LockoutState{}); err != nil {
		return nil, err
	}
	if o.remember != nil {
		remembered := ""
		if *o.remember {
			remembered = email
		}
		if err := g.state.SetRememberedEmail(remembered); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Status describes the guard state at a point in time.
type Status struct {
	Locked    bool
	Attempts  int
	Until     time.Time
	Remaining time.Duration
}

// Status returns the current state, clearing an expired lockout.
func (g *Guard) Status() (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.current()
	if err != nil {
		return Status{}, err
	}
	if st.Until.IsZero() {
		return Status{Attempts: st.Attempts}, nil
	}
	return Status{Locked: true, Attempts: st.Attempts, Until: st.Until, Remaining: st.Until.Sub(g.now())}, nil
}

// current loads the state and lazily resets a lockout that has run out.
func (g *Guard) current() (LockoutState, error) {
	st, err := g.state.Lockout()
	if err != nil {
		return LockoutState{}, err
	}
	if !st.Until.IsZero() && !g.now().Before(st.Until) {
		st = LockoutState{}
		if err := g.state.SetLockout(st); err != nil {
			return LockoutState{}, err
		}
	}
	return st, nil
}
