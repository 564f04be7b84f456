// Package web serves the dashboard: the sign-in page, the tabbed dashboard
// page and the HTMX fragments its tabs swap in.
package web

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/crypto"
	"github.com/jimdaga/automarketer/internal/dashboard"
	"github.com/jimdaga/automarketer/internal/health"
	"github.com/jimdaga/automarketer/internal/middleware"
	"github.com/jimdaga/automarketer/internal/session"
)

// HeaderViewID names the workspace an HTMX request belongs to. The dashboard
// page sends it on every request through hx-headers.
const HeaderViewID = "X-View-Id"

const (
	loginPath     = "/auth"
	dashboardPath = "/dashboard"
	workspaceKey  = "workspace"
)

// Options configures the router.
type Options struct {
	SessionSecret string
	SecureCookies bool
}

// Server holds the dependencies of the dashboard handlers.
type Server struct {
	auth     *dashboard.Auth
	registry *dashboard.Registry
	logger   *slog.Logger
}

// NewServer creates a Server.
func NewServer(auth *dashboard.Auth, registry *dashboard.Registry, logger *slog.Logger) *Server {
	return &Server{auth: auth, registry: registry, logger: logger}
}

// Router builds the dashboard engine.
func (s *Server) Router(opts Options) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	keys, err := crypto.DeriveSessionKeys(opts.SessionSecret)
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static files: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(s.logger))
	r.Use(session.Middleware(keys, opts.SecureCookies))

	health.Register(r)
	r.StaticFS("/static", http.FS(static))

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, loginPath)
	})
	r.GET(loginPath, s.authPage)
	r.GET("/auth/form", s.authFormFragment)
	r.POST("/auth/login", s.login)
	r.POST("/auth/signup", s.signup)
	r.POST("/logout", s.logout)

	r.GET(dashboardPath, session.RequireAuth(loginPath), s.dashboardPage)

	view := r.Group("/view", session.RequireAuth(loginPath), s.requireWorkspace())
	{
		view.GET("/products", s.productsFragment)
		view.POST("/products", s.createProduct)
		view.POST("/products/:id/delete", s.deleteProduct)
		view.POST("/products/:id/cancel", s.cancelDelete)

		view.GET("/generate", s.generatorFragment)
		view.POST("/generate", s.generate)
		view.POST("/generate/social", s.postSocial)
		view.POST("/generate/email", s.sendEmail)
		view.POST("/generate/blog", s.publishBlog)

		view.GET("/history", s.historyFragment)
		view.POST("/history/reload", s.reloadHistory)
		view.POST("/history/:id/toggle", s.toggleDraft)
	}

	return r, nil
}

// requireWorkspace resolves the X-View-Id header to the signed-in user's
// workspace. A stale or foreign id sends the browser back to the dashboard,
// which opens a new one.
func (s *Server) requireWorkspace() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := session.Init(c).Email()
		id := c.GetHeader(HeaderViewID)
		ws, ok := s.registry.Get(id, email)
		if !ok {
			c.Header("HX-Redirect", dashboardPath)
			c.AbortWithStatus(http.StatusConflict)
			return
		}
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

func workspace(c *gin.Context) *dashboard.Workspace {
	return c.MustGet(workspaceKey).(*dashboard.Workspace)
}
