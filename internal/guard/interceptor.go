package guard

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/hostelhub/hostel/pkg/client"
)

// SessionExpiredNotice is shown once when the server rejects the session.
const SessionExpiredNotice = "Session expired. Please log in again."

// Navigator moves the UI between destinations.
type Navigator interface {
	Current() Destination
	Navigate(dest Destination)
}

// Notifier surfaces a short message to the user.
type Notifier interface {
	Notify(msg string)
}

// Invalidator clears the session. Invalidate reports whether this call did it.
type Invalidator interface {
	Invalidate() bool
	Settle()
	Invalidating() bool
}

// Interceptor is the process-wide 401 handler. However many 401s arrive, only
// the one that flips the session store produces a notice and a redirect.
type Interceptor struct {
	sessions Invalidator
	nav      Navigator
	notify   Notifier
	delay    time.Duration
	log      zerolog.Logger

	afterFunc func(d time.Duration, f func())
}

// NewInterceptor creates the 401 handler. delay is how long the notice is
// visible before the redirect; zero redirects immediately.
func NewInterceptor(sessions Invalidator, nav Navigator, notify Notifier, delay time.Duration, log zerolog.Logger) *Interceptor {
	return &Interceptor{
		sessions: sessions,
		nav:      nav,
		notify:   notify,
		delay:    delay,
		log:      log.With().Str("component", "interceptor").Logger(),
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Install registers the interceptor on c. It fails if c already has a handler.
func (i *Interceptor) Install(c *client.Client) error {
	return c.OnUnauthorized(i.Handle)
}

// Handle reacts to a 401. It is safe to call from many goroutines.
func (i *Interceptor) Handle(err *client.HTTPError) {
	if i.nav.Current() == Login {
		return
	}
	if !i.sessions.Invalidate() {
		return
	}

	i.log.Warn().Str("code", err.Code).Str("message", err.Message).Msg("session rejected by server")
	if i.notify != nil {
		i.notify.Notify(SessionExpiredNotice)
	}

	if i.delay <= 0 {
		i.nav.Navigate(Login)
		return
	}
	i.afterFunc(i.delay, func() {
		// Logout or a new sign-in may have finished the invalidation first.
		if !i.sessions.Invalidating() {
			return
		}
		i.nav.Navigate(Login)
	})
}
