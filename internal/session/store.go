package session

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/tharu616/shopping-mall-platform-sub001/internal/domain"
)

// Navigator is the view layer's redirect hook. Clear always invokes it,
// which is what makes logout terminal rather than a plain state reset.
type Navigator interface {
	ToLogin()
}

// Store owns the {token, role} pair. Token and role are set and cleared
// together; no reader ever observes exactly one of them present.
type Store struct {
	mu      sync.Mutex
	token   string
	role    domain.Role
	epoch   uint64
	storage Storage
	nav     Navigator
}

// NewStore rehydrates a prior session from storage. A token without a
// role (or the reverse) is treated as no session at all and the orphan
// entry is removed, so a corrupt store never yields a half-authenticated
// client.
func NewStore(storage Storage, nav Navigator) (*Store, error) {
	s := &Store{storage: storage, nav: nav}

	token, err := storage.Get(tokenKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("rehydrate session: %w", err)
	}
	roleStr, err := storage.Get(roleKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("rehydrate session: %w", err)
	}

	role, roleOK := domain.ParseRole(roleStr)
	if token != "" && roleOK {
		s.token = token
		s.role = role
		return s, nil
	}

	// Fail closed: repair the inconsistency instead of propagating it.
	if token != "" || roleStr != "" {
		log.Printf("session: dropping inconsistent stored session (token present: %t, role %q)", token != "", roleStr)
		if err := storage.Delete(tokenKey); err != nil {
			log.Printf("session: delete stored token: %v", err)
		}
		if err := storage.Delete(roleKey); err != nil {
			log.Printf("session: delete stored role: %v", err)
		}
	}
	return s, nil
}

// Establish stores both fields in durable storage, then in memory.
// Calling it again simply overwrites. On a storage failure the
// in-memory session is left untouched, so an error return means no
// session was established; a half-written store is repaired by the
// fail-closed rehydration on the next start.
func (s *Store) Establish(token string, role domain.Role) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	if err := s.storage.Set(tokenKey, token); err != nil {
		return err
	}
	if err := s.storage.Set(roleKey, string(role)); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.role = role
	s.mu.Unlock()
	return nil
}

// Current never blocks on anything but the in-process lock and never fails.
func (s *Store) Current() (string, domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.role
}

// Token implements transport.TokenSource; the header is computed from
// this at send time, never captured earlier.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Epoch increments on every Clear. Work issued under an older epoch must
// discard its result when it eventually completes.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Clear removes the session from memory and storage, invalidates all
// in-flight work via the epoch, and unconditionally navigates to the
// unauthenticated entry view.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.role = ""
	s.epoch++
	s.mu.Unlock()

	if err := s.storage.Delete(tokenKey); err != nil {
		log.Printf("session: delete stored token: %v", err)
	}
	if err := s.storage.Delete(roleKey); err != nil {
		log.Printf("session: delete stored role: %v", err)
	}

	s.nav.ToLogin()
}
