package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hostelhub/hostel/internal/session"
	"github.com/hostelhub/hostel/pkg/client"
	"github.com/hostelhub/hostel/pkg/domain"
)

// LoginClient is the server side of a login.
type LoginClient interface {
	Login(ctx context.Context, req client.LoginRequest) (*client.LoginResult, error)
}

// SessionWriter records a fresh credential.
type SessionWriter interface {
	Login(token string) (domain.Session, error)
	LoginWithFlag(credential string, role domain.Role, subjectID string) (domain.Session, error)
}

// SignIn exchanges credentials and writes the result to the store. A signed
// token cookie is decoded for its role; an opaque cookie is kept with the role
// the response body reported.
func SignIn(ctx context.Context, c LoginClient, sessions SessionWriter, req client.LoginRequest) (domain.Session, error) {
	res, err := c.Login(ctx, req)
	if err != nil {
		return domain.Session{}, fmt.Errorf("guard.SignIn: %w", err)
	}

	if looksLikeJWT(res.Token) {
		sess, err := sessions.Login(res.Token)
		if err != nil {
			return domain.Session{}, fmt.Errorf("guard.SignIn: %w", err)
		}
		return sess, nil
	}

	sess, err := sessions.LoginWithFlag(res.Token, res.Role, res.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownRole) {
			return domain.Session{}, fmt.Errorf("guard.SignIn: %w: login response carried no role", session.ErrInvalidToken)
		}
		return domain.Session{}, fmt.Errorf("guard.SignIn: %w", err)
	}
	return sess, nil
}

func looksLikeJWT(tok string) bool {
	return strings.Count(tok, ".") == 2
}
