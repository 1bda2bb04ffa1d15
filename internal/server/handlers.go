package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/suzent/suzentd/internal"
)

// Registers the control API routes.
func (s *Server) routes(engine *gin.Engine) {
	engine.GET("/api/port", s.handlePort)
	engine.GET("/api/status", s.handleStatus)
	engine.GET("/bootstrap.js", s.handleBootstrap)
	engine.POST("/api/shutdown", s.handleShutdown)
}

// Reports the backend port for the shell's command layer.
//
// The port is 0 until a start has succeeded. A non-zero port does not imply
// the backend is alive; status carries the lifecycle state for that.
func (s *Server) handlePort(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"port": s.launcher.Port(),
	})
}

// Reports daemon and backend status.
func (s *Server) handleStatus(c *gin.Context) {
	state := s.launcher.State()

	c.JSON(http.StatusOK, gin.H{
		"running":  state.Running(),
		"state":    state,
		"port":     s.launcher.Port(),
		"pid":      os.Getpid(),
		"uptime":   time.Since(s.startedAt).Truncate(time.Second).String(),
		"version":  internal.VersionString(),
		"instance": s.instanceID,
	})
}

// Serves the startup injection script for the embedded browser context.
//
// The shell loads this once at window creation; the port is fixed for the
// process lifetime, so there is no change notification after it.
func (s *Server) handleBootstrap(c *gin.Context) {
	script := fmt.Sprintf("window.__SUZENT_BACKEND_PORT__ = %d;\n", s.launcher.Port())
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(script))
}

// Handles a shutdown request from the shell.
func (s *Server) handleShutdown(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stopping": true})

	zap.L().Info("shutdown requested")

	if s.onShutdown != nil {
		go s.onShutdown()
	}
}
