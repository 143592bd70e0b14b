package guard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// LogoutClient is the server side of a logout.
type LogoutClient interface {
	Logout(ctx context.Context) error
}

// Logout tells the server the session is over and then clears local state no
// matter what the server said. With a navigator the UI is sent to login, which
// settles the store; without one the store is settled here.
//
// The returned error only reports the server call.
func Logout(ctx context.Context, c LogoutClient, sessions Invalidator, nav Navigator, log zerolog.Logger) error {
	var serverErr error
	if c != nil {
		if err := c.Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
			serverErr = fmt.Errorf("guard.Logout: %w", err)
		}
	}

	sessions.Invalidate()
	if nav != nil {
		nav.Navigate(Login)
	} else {
		sessions.Settle()
	}
	return serverErr
}
