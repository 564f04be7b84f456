// Package health exposes the liveness endpoint shared by both binaries.
package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler reports that the process is up.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Register mounts Handler on /health and /healthz.
func Register(r gin.IRouter) {
	r.GET("/health", gin.WrapF(Handler))
	r.GET("/healthz", gin.WrapF(Handler))
}
