package api

import (
	"log/slog"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/health"
	"github.com/jimdaga/automarketer/internal/middleware"
)

// NewRouter builds the backend engine: recovery, request ids, request
// logging, CORS for allowedOrigins ("*" allows any origin), /health and the
// endpoints of h.
func NewRouter(h *Handler, allowedOrigins []string, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))
	r.Use(cors.New(corsConfig(allowedOrigins)))

	health.Register(r)
	h.Register(r)
	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cfg
}
