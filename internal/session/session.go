// Package session keeps the signed-in user of the dashboard in a signed and
// encrypted cookie. The user is stored as JSON {email, username} under the "user" key.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/crypto"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "automarketer"
	// Key is the session key holding the user JSON.
	Key = "user"

	contextKey = "session"
	maxAge     = 30 * 24 * 60 * 60
)

// ErrNoSession is returned when nobody is signed in.
var ErrNoSession = errors.New("no active session")

// User is what the dashboard remembers about the signed-in user.
type User struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// NewUser builds a User. An empty username defaults to the part of the email
// before "@".
func NewUser(email, username string) User {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if username == "" {
		username = DefaultUsername(email)
	}
	return User{Email: email, Username: username}
}

// DefaultUsername returns the local part of email.
func DefaultUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Middleware installs the cookie store. secure marks the cookie Secure.
func Middleware(keys crypto.SessionKeys, secure bool) gin.HandlerFunc {
	store := cookie.NewStore(keys.Auth, keys.Encryption)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(CookieName, store)
}

// Context is the session of one request. It is loaded by Init and changed
// through Set and Clear.
type Context struct {
	store sessions.Session
	user  *User
}

// Init loads the session of c. A missing or unreadable value means nobody is
// signed in. The Context is cached on c.
func Init(c *gin.Context) *Context {
	if v, ok := c.Get(contextKey); ok {
		if sc, ok := v.(*Context); ok {
			return sc
		}
	}

	sc := &Context{store: sessions.Default(c)}
	if raw, ok := sc.store.Get(Key).(string); ok && raw != "" {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err == nil && u.Email != "" {
			sc.user = &u
		}
	}
	c.Set(contextKey, sc)
	return sc
}

// User returns the signed-in user.
func (sc *Context) User() (User, error) {
	if sc.user == nil {
		return User{}, ErrNoSession
	}
	return *sc.user, nil
}

// Email returns the signed-in email, or "" when nobody is signed in.
func (sc *Context) Email() string {
	if sc.user == nil {
		return ""
	}
	return sc.user.Email
}

// Set stores u and saves the cookie.
func (sc *Context) Set(u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	sc.store.Set(Key, string(raw))
	if err := sc.store.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	sc.user = &u
	return nil
}

// Clear forgets the user and saves the cookie.
func (sc *Context) Clear() error {
	sc.store.Clear()
	sc.user = nil
	if err := sc.store.Save(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// RequireAuth redirects requests without a signed-in user to loginPath.
// HTMX requests get an HX-Redirect header instead of a 302.
func RequireAuth(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := Init(c)
		if sc.user == nil {
			if c.GetHeader("HX-Request") == "true" {
				c.Header("HX-Redirect", loginPath)
				c.AbortWithStatus(http.StatusUnauthorized)
			} else {
				c.Redirect(http.StatusFound, loginPath)
				c.Abort()
			}
			return
		}

		c.Set("user_email", sc.user.Email)
		c.Set("user_name", sc.user.Username)
		c.Next()
	}
}
