package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jimdaga/automarketer/internal/backend"
	"github.com/jimdaga/automarketer/internal/session"
)

// SignupRevertDelay is how long the sign-up confirmation stays before the
// page returns to the login form.
const SignupRevertDelay = 3 * time.Second

// Credentials is the sign-in form. Username only matters at login and
// Organization only at sign-up.
type Credentials struct {
	Email        string `validate:"required"`
	Password     string `validate:"required"`
	Username     string
	Organization string
}

func (c Credentials) normalized() Credentials {
	c.Email = strings.TrimSpace(c.Email)
	c.Username = strings.TrimSpace(c.Username)
	c.Organization = strings.TrimSpace(c.Organization)
	return c
}

// Auth signs users up and in through the backend.
type Auth struct {
	backend Authenticator
	logger  *slog.Logger
}

// NewAuth creates an Auth.
func NewAuth(b Authenticator, logger *slog.Logger) *Auth {
	return &Auth{backend: b, logger: logger}
}

// Login checks the credentials with the backend and returns the user to keep
// in the session. No session is written here.
func (a *Auth) Login(ctx context.Context, creds Credentials) (session.User, error) {
	creds = creds.normalized()
	if err := check(creds, "Email and password required"); err != nil {
		return session.User{}, err
	}
	if _, err := a.backend.Login(ctx, creds.Email, creds.Password); err != nil {
		a.logger.Warn("Login failed", "error", err)
		return session.User{}, err
	}
	return session.NewUser(creds.Email, creds.Username), nil
}

// Signup creates an account and returns the confirmation to show.
func (a *Auth) Signup(ctx context.Context, creds Credentials) (string, error) {
	creds = creds.normalized()
	if err := check(creds, "Email and password required"); err != nil {
		return "", err
	}
	msg, err := a.backend.Signup(ctx, creds.Email, creds.Password, creds.Organization)
	if err != nil {
		a.logger.Warn("Signup failed", "error", err)
		return "", err
	}
	return msg, nil
}

// ErrorText is the inline message for a failed login or sign-up.
func ErrorText(err error) string {
	if errors.Is(err, ErrValidation) {
		return "Email and password required"
	}
	return backend.ServerMessage(err, GenericError)
}
