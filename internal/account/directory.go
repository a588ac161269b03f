// Package account implements the account directory gating access to
// per-user catalogs
package account

import (
	"errors"
	"sync"

	"localpix/gallery-api/internal/store"
)

var (
	ErrDuplicateUsername = errors.New("this username is already taken")
	// Deliberately doesn't tell "unknown user" apart from "wrong password"
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Directory maps usernames to credentials and tracks which user currently
// holds the session. Passwords are compared exactly, case-sensitive, no
// hashing: a convenience gate, not an access control system.
type Directory struct {
	store *store.Store
	mu    sync.Mutex
}

func NewDirectory(s *store.Store) *Directory {
	return &Directory{store: s}
}

func (d *Directory) load() (map[string]string, error) {
	users := map[string]string{}

	_, err := d.store.Get(store.DirectoryKey, &users)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Register stores a new credential pair. Fails with ErrDuplicateUsername
// when the name is taken, leaving the stored credential untouched.
func (d *Directory) Register(username, password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load()
	if err != nil {
		return err
	}

	if _, taken := users[username]; taken {
		return ErrDuplicateUsername
	}

	users[username] = password
	return d.store.Set(store.DirectoryKey, users)
}

// Login checks the pair against the directory and, on success, persists
// the session identity.
func (d *Directory) Login(username, password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.load()
	if err != nil {
		return err
	}

	stored, ok := users[username]
	if !ok || stored != password {
		return ErrInvalidCredentials
	}

	return d.store.Set(store.SessionKey, username)
}

// Logout clears the session identity. Idempotent.
func (d *Directory) Logout() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.store.Delete(store.SessionKey)
}

// Current returns the username holding the session, or false when nobody
// is logged in.
func (d *Directory) Current() (string, bool, error) {
	var username string

	found, err := d.store.Get(store.SessionKey, &username)
	if err != nil {
		return "", false, err
	}

	return username, found, nil
}

// Exists reports whether a username is registered.
func (d *Directory) Exists(username string) (bool, error) {
	users, err := d.load()
	if err != nil {
		return false, err
	}

	_, ok := users[username]
	return ok, nil
}
