package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hostelhub/hostel/pkg/domain"
)

// State is the per-process authentication state.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	// StateInvalidating: credential already cleared, navigation to login pending.
	StateInvalidating
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateInvalidating:
		return "invalidating"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Store is the single owner of the client session. Everything else reads it;
// only Login, LoginWithFlag, Invalidate and Settle write it, and all of them go
// through apply so no reader ever sees a role without its credential.
type Store struct {
	mu      sync.RWMutex
	state   State
	sess    domain.Session
	token   string
	persist Persister
	log     zerolog.Logger
	now     func() time.Time
}

// NewStore creates an anonymous store backed by p.
func NewStore(p Persister, log zerolog.Logger) *Store {
	return &Store{
		persist: p,
		log:     log.With().Str("component", "session").Logger(),
		now:     time.Now,
	}
}

// Restore loads a previously persisted credential. It reports whether a usable
// session was restored; stale or undecodable records are cleared.
func (s *Store) Restore() (bool, error) {
	rec, err := s.persist.Load()
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return false, nil
		}
		s.discard()
		return false, fmt.Errorf("session.Restore: %w", err)
	}

	sess, err := s.sessionFromRecord(rec)
	if err != nil {
		s.discard()
		return false, fmt.Errorf("session.Restore: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(StateAuthenticated, sess, rec.Token)
	return true, nil
}

// Login records the token cookie returned by a successful login exchange.
func (s *Store) Login(token string) (domain.Session, error) {
	sess, err := DecodeToken(token, s.now())
	if err != nil {
		return domain.Session{}, fmt.Errorf("session.Login: %w", err)
	}
	rec := Record{Transport: domain.TransportToken, Token: token}
	if err := s.commit(rec, sess); err != nil {
		return domain.Session{}, fmt.Errorf("session.Login: %w", err)
	}
	return sess, nil
}

// LoginWithFlag records an opaque credential whose role came from the login
// response body rather than from the credential itself.
func (s *Store) LoginWithFlag(credential string, role domain.Role, subjectID string) (domain.Session, error) {
	if credential == "" {
		return domain.Session{}, fmt.Errorf("session.LoginWithFlag: %w: empty", ErrInvalidToken)
	}
	if !role.Valid() {
		return domain.Session{}, fmt.Errorf("session.LoginWithFlag: %w", domain.ErrUnknownRole)
	}
	sess := domain.Session{
		SubjectID: subjectID,
		Role:      role,
		IssuedAt:  s.now(),
		Transport: domain.TransportFlag,
	}
	rec := Record{Transport: domain.TransportFlag, Token: credential, Role: role, SubjectID: subjectID}
	if err := s.commit(rec, sess); err != nil {
		return domain.Session{}, fmt.Errorf("session.LoginWithFlag: %w", err)
	}
	return sess, nil
}

// Invalidate clears the credential and moves Authenticated -> Invalidating.
// It returns true only for the call that performed the transition, so callers
// can hang one-shot side effects (notice, redirect) off the result.
func (s *Store) Invalidate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated {
		return false
	}
	if err := s.persist.Clear(); err != nil {
		s.log.Error().Err(err).Msg("clear persisted session")
	}
	s.apply(StateInvalidating, domain.Session{}, "")
	return true
}

// Settle completes an invalidation once the login view is showing.
func (s *Store) Settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateInvalidating {
		s.apply(StateAnonymous, domain.Session{}, "")
	}
}

// Current returns the active session. Expired sessions are reported as absent
// without being mutated; the next API call's 401 clears them.
func (s *Store) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated || s.sess.Expired(s.now()) {
		return domain.Session{}, false
	}
	return s.sess, true
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the credential to attach to outgoing calls, empty when there is
// no authenticated session or it has expired.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated || s.sess.Expired(s.now()) {
		return ""
	}
	return s.token
}

// Invalidating reports whether a cleared session is waiting for the login view.
func (s *Store) Invalidating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateInvalidating
}

func (s *Store) commit(rec Record, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist.Save(rec); err != nil {
		return err
	}
	s.apply(StateAuthenticated, sess, rec.Token)
	return nil
}

func (s *Store) discard() {
	if err := s.persist.Clear(); err != nil {
		s.log.Error().Err(err).Msg("clear persisted session")
	}
}

// apply is the only place session fields change. Caller holds s.mu.
func (s *Store) apply(next State, sess domain.Session, token string) {
	prev := s.state
	s.state = next
	s.sess = sess
	s.token = token
	if prev != next {
		s.log.Info().
			Str("from", prev.String()).
			Str("to", next.String()).
			Str("role", sess.Role.String()).
			Msg("session transition")
	}
}

func (s *Store) sessionFromRecord(rec Record) (domain.Session, error) {
	switch rec.Transport {
	case domain.TransportFlag:
		if !rec.Role.Valid() {
			return domain.Session{}, fmt.Errorf("%w: flag record without role", ErrInvalidToken)
		}
		return domain.Session{SubjectID: rec.SubjectID, Role: rec.Role, Transport: domain.TransportFlag}, nil
	case domain.TransportToken, "":
		return DecodeToken(rec.Token, s.now())
	}
	return domain.Session{}, fmt.Errorf("%w: unknown transport %q", ErrInvalidToken, rec.Transport)
}
