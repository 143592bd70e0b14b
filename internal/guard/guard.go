// Package guard decides which views a session may see and reacts when the
// server says the session is gone.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

// Kind is the outcome of an authorization check.
type Kind int

const (
	Allow Kind = iota
	RedirectToLogin
	RedirectToOwnDashboard
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-login"
	case RedirectToOwnDashboard:
		return "redirect-dashboard"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Decision is what a protected view gets back. Target is set for redirects.
type Decision struct {
	Kind   Kind
	Target Destination
}

// Allowed reports whether the view may render.
func (d Decision) Allowed() bool { return d.Kind == Allow }

// Sessions is the view of the session store the guard needs.
type Sessions interface {
	Current() (domain.Session, bool)
	Invalidate() bool
	Settle()
}

// Checker performs the server-side session check.
type Checker interface {
	Check(ctx context.Context) (*client.CheckResult, error)
}

// Guard authorizes protected views against the session store.
type Guard struct {
	sessions Sessions
	checker  Checker
	timeout  time.Duration
	log      zerolog.Logger
	group    singleflight.Group
}

// Option configures a Guard.
type Option func(*Guard)

// WithCheckTimeout bounds the /auth/check round trip.
func WithCheckTimeout(d time.Duration) Option {
	return func(g *Guard) { g.timeout = d }
}

// WithLogger sets the guard logger.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Guard) { g.log = log.With().Str("component", "guard").Logger() }
}

// New creates a Guard. checker may be nil, in which case Revalidate only
// returns the local decision.
func New(sessions Sessions, checker Checker, opts ...Option) *Guard {
	g := &Guard{
		sessions: sessions,
		checker:  checker,
		timeout:  5 * time.Second,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize decides from local state alone. It never mutates the session.
func (g *Guard) Authorize(required domain.Role) Decision {
	sess, ok := g.sessions.Current()
	if !ok {
		return Decision{Kind: RedirectToLogin, Target: Login}
	}
	if required != domain.RoleNone && sess.Role != required {
		return Decision{Kind: RedirectToOwnDashboard, Target: DashboardFor(sess.Role)}
	}
	return Decision{Kind: Allow}
}

// AuthorizeRoute authorizes a named destination. Public routes always allow;
// unknown destinations send the user to their own dashboard.
func (g *Guard) AuthorizeRoute(dest Destination) Decision {
	r, ok := Lookup(dest)
	if !ok {
		sess, signedIn := g.sessions.Current()
		if !signedIn {
			return Decision{Kind: RedirectToLogin, Target: Login}
		}
		return Decision{Kind: RedirectToOwnDashboard, Target: DashboardFor(sess.Role)}
	}
	if r.Public {
		return Decision{Kind: Allow}
	}
	return g.Authorize(r.Required)
}

// Revalidate confirms a local Allow with the server. Any HTTP error answer or a
// role the server disagrees with clears the session and redirects to login.
// Transport failures keep the local decision; the error is still returned.
func (g *Guard) Revalidate(ctx context.Context, required domain.Role) (Decision, error) {
	local := g.Authorize(required)
	if !local.Allowed() || g.checker == nil {
		return local, nil
	}
	sess, ok := g.sessions.Current()
	if !ok {
		return Decision{Kind: RedirectToLogin, Target: Login}, nil
	}

	ch := g.group.DoChan("check", func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()
		return g.checker.Check(cctx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return local, fmt.Errorf("guard.Revalidate: %w", ctx.Err())
	}

	if res.Err != nil {
		var httpErr *client.HTTPError
		if errors.As(res.Err, &httpErr) {
			g.drop("server rejected session", httpErr.StatusCode)
			return Decision{Kind: RedirectToLogin, Target: Login}, fmt.Errorf("guard.Revalidate: %w", res.Err)
		}
		if errors.Is(res.Err, domain.ErrUnknownRole) {
			g.drop("server returned unknown role", 0)
			return Decision{Kind: RedirectToLogin, Target: Login}, fmt.Errorf("guard.Revalidate: %w", res.Err)
		}
		g.log.Warn().Err(res.Err).Msg("session check unreachable, keeping local decision")
		return local, fmt.Errorf("guard.Revalidate: %w", res.Err)
	}

	check := res.Val.(*client.CheckResult)
	if check.Role != sess.Role {
		g.drop("server role differs from local role", 0)
		return Decision{Kind: RedirectToLogin, Target: Login}, nil
	}
	return local, nil
}

func (g *Guard) drop(reason string, status int) {
	ev := g.log.Warn()
	if status != 0 {
		ev = ev.Int("status", status)
	}
	ev.Bool("cleared", g.sessions.Invalidate()).Msg(reason)
}
