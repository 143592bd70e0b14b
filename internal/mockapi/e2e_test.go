package mockapi

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/hostel/internal/guard"
	"github.com/hostelhub/hostel/internal/session"
	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

type portalNav struct {
	store *session.Store
	mu    sync.Mutex
	cur   guard.Destination
	hits  int
}

func (n *portalNav) Current() guard.Destination {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cur
}

func (n *portalNav) Navigate(d guard.Destination) {
	n.mu.Lock()
	if n.cur == d {
		n.mu.Unlock()
		return
	}
	n.cur = d
	n.hits++
	n.mu.Unlock()
	if d == guard.Login {
		n.store.Settle()
	}
}

type noticeCounter struct{ n atomic.Int32 }

func (c *noticeCounter) Notify(string) { c.n.Add(1) }

// TestPortalSessionLifecycle drives the real client, session store, guard and
// interceptor against the backend: login, guarded views, server-side
// revocation, then the collapse of concurrent 401s into one redirect.
func TestPortalSessionLifecycle(t *testing.T) {
	_, ts := newTestServer(t, nil)
	ctx := context.Background()

	store := session.NewStore(session.NewMemoryStore(nil), zerolog.Nop())
	api := client.New(ts.URL, store)
	nav := &portalNav{store: store, cur: guard.Login}
	notes := &noticeCounter{}
	require.NoError(t, guard.NewInterceptor(store, nav, notes, 0, zerolog.Nop()).Install(api))
	g := guard.New(store, api)

	// A failed login on the login view is not a session expiry.
	_, err := api.Login(ctx, client.LoginRequest{Email: SeedStudentEmail, Password: "not-it"})
	require.True(t, client.IsStatus(err, http.StatusUnauthorized))
	assert.Zero(t, notes.n.Load())

	res, err := api.Login(ctx, client.LoginRequest{Email: SeedStudentEmail, Password: SeedPassword})
	require.NoError(t, err)
	sess, err := store.Login(res.Token)
	require.NoError(t, err)
	nav.Navigate(guard.DashboardFor(sess.Role))

	assert.True(t, g.Authorize(domain.RoleStudent).Allowed())
	assert.Equal(t, guard.StudentDashboard, g.Authorize(domain.RoleWarden).Target)
	d, err := g.Revalidate(ctx, domain.RoleStudent)
	require.NoError(t, err)
	assert.True(t, d.Allowed())

	// Revoke server-side with a second client holding the same token.
	require.NoError(t, client.New(ts.URL, staticCreds(res.Token)).Logout(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := api.ListNotices(ctx)
			assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), notes.n.Load())
	assert.Equal(t, guard.Login, nav.Current())
	assert.Equal(t, session.StateAnonymous, store.State())
	assert.Equal(t, guard.RedirectToLogin, g.Authorize(domain.RoleStudent).Kind)
	assert.Empty(t, store.Token())
}

func TestPortalLogoutWhenServerDown(t *testing.T) {
	_, ts := newTestServer(t, nil)
	ctx := context.Background()

	store := session.NewStore(session.NewMemoryStore(nil), zerolog.Nop())
	api := client.New(ts.URL, store)
	res, err := api.Login(ctx, client.LoginRequest{Email: SeedWardenEmail, Password: SeedPassword})
	require.NoError(t, err)
	_, err = store.Login(res.Token)
	require.NoError(t, err)

	ts.Close()
	err = guard.Logout(ctx, api, store, nil, zerolog.Nop())
	assert.Error(t, err)
	assert.Equal(t, session.StateAnonymous, store.State())
}
