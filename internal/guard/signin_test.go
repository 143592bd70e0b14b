package guard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/hostel/internal/session"
	"github.com/hostelhub/hostel/internal/session/sessiontest"
	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

type stubLogin struct {
	res *client.LoginResult
	err error
}

func (s stubLogin) Login(context.Context, client.LoginRequest) (*client.LoginResult, error) {
	return s.res, s.err
}

func TestSignIn(t *testing.T) {
	req := client.LoginRequest{Email: "student@hostel.test", Password: "password"}

	t.Run("token cookie", func(t *testing.T) {
		store := newStore(t)
		tok := sessiontest.Token(t, domain.RoleWarden, "w-1", time.Hour)
		sess, err := SignIn(context.Background(), stubLogin{res: &client.LoginResult{Token: tok, Role: domain.RoleStudent}}, store, req)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleWarden, sess.Role, "the token outranks the body")
		assert.Equal(t, domain.TransportToken, sess.Transport)
		assert.Equal(t, tok, store.Token())
	})

	t.Run("opaque cookie with role flag", func(t *testing.T) {
		store := newStore(t)
		sess, err := SignIn(context.Background(), stubLogin{res: &client.LoginResult{Token: "opaque", Role: domain.RoleStudent, UserID: "501"}}, store, req)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleStudent, sess.Role)
		assert.Equal(t, domain.TransportFlag, sess.Transport)
		assert.Equal(t, "501", sess.SubjectID)
	})

	t.Run("opaque cookie without role", func(t *testing.T) {
		store := newStore(t)
		_, err := SignIn(context.Background(), stubLogin{res: &client.LoginResult{Token: "opaque"}}, store, req)
		assert.ErrorIs(t, err, session.ErrInvalidToken)
		assert.Equal(t, session.StateAnonymous, store.State())
	})

	t.Run("expired token", func(t *testing.T) {
		store := newStore(t)
		tok := sessiontest.Token(t, domain.RoleStudent, "501", -time.Minute)
		_, err := SignIn(context.Background(), stubLogin{res: &client.LoginResult{Token: tok, Role: domain.RoleStudent}}, store, req)
		assert.ErrorIs(t, err, session.ErrExpiredToken)
		_, ok := store.Current()
		assert.False(t, ok)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		store := newStore(t)
		httpErr := &client.HTTPError{StatusCode: http.StatusUnauthorized, Message: "invalid email or password"}
		_, err := SignIn(context.Background(), stubLogin{err: httpErr}, store, req)
		require.Error(t, err)
		var got *client.HTTPError
		require.True(t, errors.As(err, &got))
		assert.Equal(t, "invalid email or password", got.Message)
		assert.Equal(t, session.StateAnonymous, store.State())
	})
}
