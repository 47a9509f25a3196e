// Package clientstate persists per-client values (session token, remembered
// email and login lockout) in a small YAML file.
package clientstate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"sedcoRecords/internal/auth"
)

// File is the on-disk layout.
type File struct {
	RememberedEmail string     `yaml:"remembered_email,omitempty"`
	Session         string     `yaml:"session,omitempty"`
	LoginAttempts   int        `yaml:"login_attempts,omitempty"`
	LockoutUntil    *time.Time `yaml:"lockout_until,omitempty"`
}

// Store reads and writes one state file. Every setter rewrites the file.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store backed by path. The file is created on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load returns the current contents. A missing file is an empty state.
func (s *Store) Load() (File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() (File, error) {
	var f File
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse state file: %w", err)
	}
	return f, nil
}

func (s *Store) update(fn func(*File)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	fn(&f)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Session returns the stored session token, or "".
func (s *Store) Session() (string, error) {
	f, err := s.Load()
	return f.Session, err
}

// SetSession stores token. An empty token signs the client out.
func (s *Store) SetSession(token string) error {
	return s.update(func(f *File) { f.Session = token })
}

// RememberedEmail returns the email to prefill on the login prompt.
func (s *Store) RememberedEmail() (string, error) {
	f, err := s.Load()
	return f.RememberedEmail, err
}

// SetRememberedEmail stores email; "" clears it.
func (s *Store) SetRememberedEmail(email string) error {
	return s.update(func(f *File) { f.RememberedEmail = email })
}

// Lockout implements auth.StateStore.
func (s *Store) Lockout() (auth.LockoutState, error) {
	f, err := s.Load()
	if err != nil {
		return auth.LockoutState{}, err
	}
	st := auth.LockoutState{Attempts: f.LoginAttempts}
	if f.LockoutUntil != nil {
		st.Until = *f.LockoutUntil
	}
	return st, nil
}

// SetLockout implements auth.StateStore.
func (s *Store) SetLockout(st auth.LockoutState) error {
	return s.update(func(f *File) {
		f.LoginAttempts = st.Attempts
		f.LockoutUntil = nil
		if !st.Until.IsZero() {
			until := st.Until.UTC()
			f.LockoutUntil = &until
		}
	})
}

var _ auth.StateStore = (*Store)(nil)
