package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/dashboard"
	"github.com/jimdaga/automarketer/internal/session"
)

func credentials(c *gin.Context) dashboard.Credentials {
	return dashboard.Credentials{
		Email:        c.PostForm("email"),
		Password:     c.PostForm("password"),
		Username:     c.PostForm("username"),
		Organization: c.PostForm("organization"),
	}
}

// renderAuth swaps the form for HTMX requests and renders the whole page
// otherwise.
func renderAuth(c *gin.Context, status int, form authForm) {
	if isHTMX(c) {
		c.HTML(http.StatusOK, "auth_form", form)
		return
	}
	c.HTML(status, "auth.html", authPage{Title: "Sign in", Form: form})
}

func (s *Server) authPage(c *gin.Context) {
	renderAuth(c, http.StatusOK, authForm{Signup: c.Query("mode") == "signup"})
}

func (s *Server) authFormFragment(c *gin.Context) {
	c.HTML(http.StatusOK, "auth_form", authForm{Signup: c.Query("mode") == "signup"})
}

func (s *Server) login(c *gin.Context) {
	creds := credentials(c)
	user, err := s.auth.Login(c.Request.Context(), creds)
	if err != nil {
		status := http.StatusUnauthorized
		if dashboard.IsValidation(err) {
			status = http.StatusBadRequest
		}
		renderAuth(c, status, authForm{
			Email:    creds.Email,
			Username: creds.Username,
			Error:    dashboard.ErrorText(err),
		})
		return
	}

	if err := session.Init(c).Set(user); err != nil {
		s.logger.Error("Session save error", "error", err)
		renderAuth(c, http.StatusInternalServerError, authForm{Email: creds.Email, Error: dashboard.GenericError})
		return
	}

	s.logger.Info("User signed in", "email", user.Email)
	redirect(c, dashboardPath)
}

func (s *Server) signup(c *gin.Context) {
	creds := credentials(c)
	msg, err := s.auth.Signup(c.Request.Context(), creds)
	if err != nil {
		renderAuth(c, http.StatusBadRequest, authForm{
			Signup:       true,
			Email:        creds.Email,
			Organization: creds.Organization,
			Error:        dashboard.ErrorText(err),
		})
		return
	}

	renderAuth(c, http.StatusOK, authForm{
		Signup:      true,
		Message:     msg,
		RevertAfter: fmt.Sprintf("%dms", dashboard.SignupRevertDelay.Milliseconds()),
	})
}

func (s *Server) logout(c *gin.Context) {
	sc := session.Init(c)
	email := sc.Email()
	if err := sc.Clear(); err != nil {
		s.logger.Error("Session clear error", "error", err)
	}
	if email != "" {
		s.registry.DropOwner(email)
	}
	redirect(c, loginPath)
}
