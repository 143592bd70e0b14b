package session

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/hostel/internal/session/sessiontest"
	"github.com/hostelhub/hostel/pkg/domain"
)

func newTestStore(t *testing.T) (*Store, *MemoryStore) {
	t.Helper()
	mem := NewMemoryStore(nil)
	return NewStore(mem, zerolog.Nop()), mem
}

func TestStoreStartsAnonymous(t *testing.T) {
	s, _ := newTestStore(t)

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
}

func TestStoreLoginPersistsAndExposesSession(t *testing.T) {
	s, mem := newTestStore(t)
	tok := sessiontest.Token(t, domain.RoleStudent, "12", time.Hour)

	sess, err := s.Login(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, sess.Role)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "12", cur.SubjectID)
	assert.Equal(t, tok, s.Token())

	rec, err := mem.Load()
	require.NoError(t, err)
	assert.Equal(t, tok, rec.Token)
	assert.Equal(t, domain.TransportToken, rec.Transport)
}

func TestStoreLoginRejectsBadTokenWithoutStateChange(t *testing.T) {
	s, mem := newTestStore(t)

	_, err := s.Login("junk")
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, StateAnonymous, s.State())

	_, err = mem.Load()
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestStoreLoginWithFlag(t *testing.T) {
	s, mem := newTestStore(t)

	sess, err := s.LoginWithFlag("opaque-cookie", domain.RoleWarden, "w1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransportFlag, sess.Transport)

	rec, err := mem.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.RoleWarden, rec.Role)

	_, err = s.LoginWithFlag("opaque-cookie", domain.RoleNone, "w1")
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestStoreInvalidateLifecycle(t *testing.T) {
	s, mem := newTestStore(t)
	_, err := s.Login(sessiontest.Token(t, domain.RoleWarden, "1", time.Hour))
	require.NoError(t, err)

	require.True(t, s.Invalidate())
	assert.Equal(t, StateInvalidating, s.State())
	_, ok := s.Current()
	assert.False(t, ok, "no session may be visible while invalidating")
	assert.Empty(t, s.Token())
	_, err = mem.Load()
	assert.ErrorIs(t, err, ErrNoRecord)

	assert.False(t, s.Invalidate(), "second invalidate is a no-op")

	s.Settle()
	assert.Equal(t, StateAnonymous, s.State())
	assert.False(t, s.Invalidate(), "anonymous store has nothing to invalidate")
}

func TestStoreInvalidateSingleShotUnderConcurrency(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Login(sessiontest.Token(t, domain.RoleStudent, "1", time.Hour))
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Invalidate() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestStoreCurrentHidesExpiredSession(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Login(sessiontest.Token(t, domain.RoleStudent, "1", time.Hour))
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, StateAuthenticated, s.State(), "Current must not mutate")
	assert.Empty(t, s.Token(), "an expired credential is not sent")

	// The record is still there for Invalidate to clear.
	assert.True(t, s.Invalidate())
	assert.True(t, s.Invalidating())
	s.Settle()
	assert.False(t, s.Invalidating())
}

func TestStoreRestore(t *testing.T) {
	t.Run("nothing stored", func(t *testing.T) {
		s, _ := newTestStore(t)
		ok, err := s.Restore()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("valid token", func(t *testing.T) {
		tok := sessiontest.Token(t, domain.RoleWarden, "3", time.Hour)
		s := NewStore(NewMemoryStore(&Record{Transport: domain.TransportToken, Token: tok}), zerolog.Nop())
		ok, err := s.Restore()
		require.NoError(t, err)
		assert.True(t, ok)
		cur, _ := s.Current()
		assert.Equal(t, domain.RoleWarden, cur.Role)
	})

	t.Run("flag record", func(t *testing.T) {
		s := NewStore(NewMemoryStore(&Record{Transport: domain.TransportFlag, Token: "opaque", Role: domain.RoleStudent, SubjectID: "5"}), zerolog.Nop())
		ok, err := s.Restore()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "opaque", s.Token())
	})

	t.Run("expired token is discarded", func(t *testing.T) {
		mem := NewMemoryStore(&Record{Token: sessiontest.Token(t, domain.RoleStudent, "1", -time.Hour)})
		s := NewStore(mem, zerolog.Nop())
		ok, err := s.Restore()
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.False(t, ok)
		_, err = mem.Load()
		assert.ErrorIs(t, err, ErrNoRecord)
	})
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs := NewFileStore(path)

	_, err := fs.Load()
	require.ErrorIs(t, err, ErrNoRecord)

	rec := Record{Transport: domain.TransportToken, Token: "abc"}
	require.NoError(t, fs.Save(rec))

	got, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear(), "clearing twice is fine")
	_, err = fs.Load()
	assert.ErrorIs(t, err, ErrNoRecord)
}
