package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLiveness handles GET /health/live.
func (s *Server) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadiness handles GET /health/ready. The service holds no connections
// worth probing; readiness reports worker pool saturation for operators.
func (s *Server) GetReadiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"pool":   s.pool.Metrics(),
	})
}
