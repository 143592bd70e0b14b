package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelhub/hostel/internal/session"
	"github.com/hostelhub/hostel/internal/session/sessiontest"
	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

// fakeNav mimics the app: reaching login settles the store.
type fakeNav struct {
	store *session.Store

	mu      sync.Mutex
	current Destination
	visits  []Destination
}

func (n *fakeNav) Current() Destination {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *fakeNav) Navigate(dest Destination) {
	n.mu.Lock()
	if n.current == dest {
		n.mu.Unlock()
		return
	}
	n.current = dest
	n.visits = append(n.visits, dest)
	n.mu.Unlock()
	if dest == Login && n.store != nil {
		n.store.Settle()
	}
}

func (n *fakeNav) Visits() []Destination {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Destination(nil), n.visits...)
}

type countingNotifier struct {
	count atomic.Int32
	last  atomic.Value
}

func (c *countingNotifier) Notify(msg string) {
	c.count.Add(1)
	c.last.Store(msg)
}

func newStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(session.NewMemoryStore(nil), zerolog.Nop())
}

func loginAs(t *testing.T, s *session.Store, role domain.Role) {
	t.Helper()
	_, err := s.Login(sessiontest.Token(t, role, "u-1", time.Hour))
	require.NoError(t, err)
}

func TestAuthorizeEveryPair(t *testing.T) {
	roles := []domain.Role{domain.RoleNone, domain.RoleStudent, domain.RoleWarden}

	tests := []struct {
		session  domain.Role // RoleNone means signed out
		required domain.Role
		want     Decision
	}{
		{domain.RoleNone, domain.RoleNone, Decision{Kind: RedirectToLogin, Target: Login}},
		{domain.RoleNone, domain.RoleStudent, Decision{Kind: RedirectToLogin, Target: Login}},
		{domain.RoleNone, domain.RoleWarden, Decision{Kind: RedirectToLogin, Target: Login}},
		{domain.RoleStudent, domain.RoleNone, Decision{Kind: Allow}},
		{domain.RoleStudent, domain.RoleStudent, Decision{Kind: Allow}},
		{domain.RoleStudent, domain.RoleWarden, Decision{Kind: RedirectToOwnDashboard, Target: StudentDashboard}},
		{domain.RoleWarden, domain.RoleNone, Decision{Kind: Allow}},
		{domain.RoleWarden, domain.RoleStudent, Decision{Kind: RedirectToOwnDashboard, Target: WardenDashboard}},
		{domain.RoleWarden, domain.RoleWarden, Decision{Kind: Allow}},
	}
	require.Len(t, tests, len(roles)*len(roles))

	for _, tt := range tests {
		t.Run(tt.session.String()+"->"+tt.required.String(), func(t *testing.T) {
			s := newStore(t)
			if tt.session != domain.RoleNone {
				loginAs(t, s, tt.session)
			}
			g := New(s, nil)

			got := g.Authorize(tt.required)
			assert.Equal(t, tt.want, got)
			if got.Allowed() {
				assert.Empty(t, got.Target)
			} else {
				assert.NotEmpty(t, got.Target)
			}

			before := s.State()
			g.Authorize(tt.required)
			assert.Equal(t, before, s.State(), "authorize must not touch the session")
		})
	}
}

func TestAuthorizeAfterInvalidate(t *testing.T) {
	s := newStore(t)
	_, err := s.LoginWithFlag("opaque", domain.RoleStudent, "7")
	require.NoError(t, err)

	g := New(s, nil)
	assert.True(t, g.Authorize(domain.RoleStudent).Allowed())

	require.True(t, s.Invalidate())
	assert.Equal(t, Decision{Kind: RedirectToLogin, Target: Login}, g.Authorize(domain.RoleStudent))
}

func TestAuthorizeRoute(t *testing.T) {
	s := newStore(t)
	g := New(s, nil)

	assert.True(t, g.AuthorizeRoute(Login).Allowed(), "login is public")
	assert.Equal(t, RedirectToLogin, g.AuthorizeRoute(WardenNotices).Kind)
	assert.Equal(t, RedirectToLogin, g.AuthorizeRoute("/nowhere").Kind)

	loginAs(t, s, domain.RoleWarden)
	assert.True(t, g.AuthorizeRoute(WardenNotices).Allowed())
	assert.Equal(t, Decision{Kind: RedirectToOwnDashboard, Target: WardenDashboard}, g.AuthorizeRoute(StudentLeave))
	assert.Equal(t, Decision{Kind: RedirectToOwnDashboard, Target: WardenDashboard}, g.AuthorizeRoute("/nowhere"))
}

func TestLoginThenAuthorizeAllows(t *testing.T) {
	s := newStore(t)
	g := New(s, nil)
	require.Equal(t, RedirectToLogin, g.Authorize(domain.RoleStudent).Kind)

	loginAs(t, s, domain.RoleStudent)
	assert.True(t, g.Authorize(domain.RoleStudent).Allowed())
	assert.True(t, g.AuthorizeRoute(DashboardFor(domain.RoleStudent)).Allowed())
}

func TestRoutesFor(t *testing.T) {
	student := RoutesFor(domain.RoleStudent)
	require.Len(t, student, 5)
	assert.Equal(t, StudentDashboard, student[0].Dest)
	assert.Equal(t, StudentProfile, student[4].Dest)

	warden := RoutesFor(domain.RoleWarden)
	require.Len(t, warden, 6)
	assert.Equal(t, WardenDashboard, warden[0].Dest)

	assert.Empty(t, RoutesFor(domain.RoleNone))
	assert.Equal(t, Login, DashboardFor(domain.RoleNone))
}

func unauthorizedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(10 * time.Millisecond) // let the calls overlap
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired","code":"TOKEN_INVALID"}`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConcurrent401sCollapseToOneNoticeAndRedirect(t *testing.T) {
	s := newStore(t)
	loginAs(t, s, domain.RoleStudent)
	nav := &fakeNav{store: s, current: StudentDashboard}
	notes := &countingNotifier{}

	c := client.New(unauthorizedServer(t).URL, s)
	in := NewInterceptor(s, nav, notes, 0, zerolog.Nop())
	require.NoError(t, in.Install(c))

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.ListNotices(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.True(t, client.IsStatus(err, http.StatusUnauthorized), "every caller still sees its error")
	}
	assert.Equal(t, int32(1), notes.count.Load())
	assert.Equal(t, SessionExpiredNotice, notes.last.Load())
	assert.Equal(t, []Destination{Login}, nav.Visits())
	assert.Equal(t, session.StateAnonymous, s.State())
}

func TestInterceptorClearsBeforeNavigating(t *testing.T) {
	s := newStore(t)
	loginAs(t, s, domain.RoleWarden)
	nav := &fakeNav{store: s, current: WardenLeaves}
	notes := &countingNotifier{}
	g := New(s, nil)

	in := NewInterceptor(s, nav, notes, 2*time.Second, zerolog.Nop())
	var scheduled func()
	var delay time.Duration
	in.afterFunc = func(d time.Duration, f func()) {
		delay = d
		scheduled = f
	}

	in.Handle(&client.HTTPError{StatusCode: http.StatusUnauthorized})

	// Session is gone before any navigation has happened.
	assert.Equal(t, Decision{Kind: RedirectToLogin, Target: Login}, g.Authorize(domain.RoleWarden))
	assert.Equal(t, session.StateInvalidating, s.State())
	assert.Empty(t, nav.Visits())
	assert.Equal(t, int32(1), notes.count.Load())
	assert.Equal(t, 2*time.Second, delay)

	// A late 401 while invalidating is a no-op.
	in.Handle(&client.HTTPError{StatusCode: http.StatusUnauthorized})
	assert.Equal(t, int32(1), notes.count.Load())

	require.NotNil(t, scheduled)
	scheduled()
	assert.Equal(t, []Destination{Login}, nav.Visits())
	assert.Equal(t, session.StateAnonymous, s.State())
}

func TestInterceptorDelayedRedirectSkippedOnceSettled(t *testing.T) {
	s := newStore(t)
	loginAs(t, s, domain.RoleStudent)
	nav := &fakeNav{store: s, current: StudentRooms}

	in := NewInterceptor(s, nav, &countingNotifier{}, 2*time.Second, zerolog.Nop())
	var scheduled func()
	in.afterFunc = func(_ time.Duration, f func()) { scheduled = f }

	// Logout answered 401: the interceptor schedules its redirect, then the
	// explicit logout navigates at once.
	in.Handle(&client.HTTPError{StatusCode: http.StatusUnauthorized})
	require.NoError(t, Logout(context.Background(), nil, s, nav, zerolog.Nop()))
	require.Equal(t, []Destination{Login}, nav.Visits())

	// The next user signs in before the timer fires.
	loginAs(t, s, domain.RoleWarden)
	nav.Navigate(WardenDashboard)

	require.NotNil(t, scheduled)
	scheduled()
	assert.Equal(t, WardenDashboard, nav.Current())
	assert.Equal(t, session.StateAuthenticated, s.State())
}

func TestInterceptorIgnoredOnLoginView(t *testing.T) {
	s := newStore(t)
	loginAs(t, s, domain.RoleStudent)
	nav := &fakeNav{store: s, current: Login}
	notes := &countingNotifier{}

	NewInterceptor(s, nav, notes, 0, zerolog.Nop()).Handle(&client.HTTPError{StatusCode: http.StatusUnauthorized})

	assert.Equal(t, session.StateAuthenticated, s.State())
	assert.Zero(t, notes.count.Load())
	assert.Empty(t, nav.Visits())
}

func TestInterceptorRegisteredOnce(t *testing.T) {
	s := newStore(t)
	c := client.New("http://example.invalid", s)
	nav := &fakeNav{}

	require.NoError(t, NewInterceptor(s, nav, nil, 0, zerolog.Nop()).Install(c))
	assert.ErrorIs(t, NewInterceptor(s, nav, nil, 0, zerolog.Nop()).Install(c), client.ErrHandlerRegistered)
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Run("without navigator", func(t *testing.T) {
		s := newStore(t)
		loginAs(t, s, domain.RoleStudent)

		err := Logout(context.Background(), client.New(srv.URL, s), s, nil, zerolog.Nop())
		assert.True(t, client.IsStatus(err, http.StatusInternalServerError))
		assert.Equal(t, session.StateAnonymous, s.State())
		assert.Empty(t, s.Token())
	})

	t.Run("with navigator", func(t *testing.T) {
		s := newStore(t)
		loginAs(t, s, domain.RoleWarden)
		nav := &fakeNav{store: s, current: WardenDashboard}

		err := Logout(context.Background(), client.New(srv.URL, s), s, nav, zerolog.Nop())
		assert.Error(t, err)
		assert.Equal(t, session.StateAnonymous, s.State())
		assert.Equal(t, []Destination{Login}, nav.Visits())
	})
}

func TestLogoutOnLoginViewIsNoop(t *testing.T) {
	s := newStore(t)
	nav := &fakeNav{store: s, current: Login}

	require.NoError(t, Logout(context.Background(), nil, s, nav, zerolog.Nop()))
	assert.Empty(t, nav.Visits())
	assert.Equal(t, session.StateAnonymous, s.State())
}

type stubChecker struct {
	res   *client.CheckResult
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (c *stubChecker) Check(ctx context.Context) (*client.CheckResult, error) {
	c.calls.Add(1)
	if c.gate != nil {
		select {
		case <-c.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return c.res, c.err
}

func TestRevalidate(t *testing.T) {
	tests := []struct {
		name        string
		checker     *stubChecker
		want        Kind
		wantErr     bool
		wantCleared bool
	}{
		{"confirmed", &stubChecker{res: &client.CheckResult{Role: domain.RoleStudent}}, Allow, false, false},
		{"unauthorized", &stubChecker{err: &client.HTTPError{StatusCode: http.StatusUnauthorized}}, RedirectToLogin, true, true},
		{"server error", &stubChecker{err: &client.HTTPError{StatusCode: http.StatusInternalServerError}}, RedirectToLogin, true, true},
		{"role mismatch", &stubChecker{res: &client.CheckResult{Role: domain.RoleWarden}}, RedirectToLogin, false, true},
		{"unknown role", &stubChecker{err: domain.ErrUnknownRole}, RedirectToLogin, true, true},
		{"network down", &stubChecker{err: errors.New("dial tcp: connection refused")}, Allow, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			loginAs(t, s, domain.RoleStudent)
			g := New(s, tt.checker)

			d, err := g.Revalidate(context.Background(), domain.RoleStudent)
			assert.Equal(t, tt.want, d.Kind)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			_, signedIn := s.Current()
			assert.Equal(t, !tt.wantCleared, signedIn)
		})
	}
}

func TestRevalidateSkipsServerWhenLocallyDenied(t *testing.T) {
	s := newStore(t)
	loginAs(t, s, domain.RoleStudent)
	checker := &stubChecker{res: &client.CheckResult{Role: domain.RoleStudent}}
	g := New(s, checker)

	d, err := g.Revalidate(context.Background(), domain.RoleWarden)
	require.NoError(t, err)
	assert.Equal(t, Decision{Kind: RedirectToOwnDashboard, Target: StudentDashboard}, d)
	assert.Zero(t, checker.calls.Load())
}

func TestRevalidateTimesOut(t *testing.T) {
	s := newStore(t)
	loginAs(t, s, domain.RoleStudent)
	checker := &stubChecker{gate: make(chan struct{})}
	g := New(s, checker, WithCheckTimeout(20*time.Millisecond))

	d, err := g.Revalidate(context.Background(), domain.RoleStudent)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, d.Allowed(), "an unreachable server keeps the local decision")
}

func TestRevalidateCollapsesConcurrentChecks(t *testing.T) {
	s := newStore(t)
	loginAs(t, s, domain.RoleWarden)
	checker := &stubChecker{res: &client.CheckResult{Role: domain.RoleWarden}, gate: make(chan struct{})}
	g := New(s, checker)

	const n = 5
	var wg sync.WaitGroup
	var allowed atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := g.Revalidate(context.Background(), domain.RoleWarden)
			if err == nil && d.Allowed() {
				allowed.Add(1)
			}
		}()
	}

	require.Eventually(t, func() bool { return checker.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(checker.gate)
	wg.Wait()

	assert.Equal(t, int32(1), checker.calls.Load())
	assert.Equal(t, int32(n), allowed.Load())
}
