package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jdstemmler/pokerd/internal/admin"
)

// handleAdminStats is the operator-facing diagnostics endpoint spec.md §1
// scopes as "admin metrics aggregation": process RSS/open-fd/total system
// memory plus a count of currently active tables. Gated by ADMIN_PASSWORD
// (header X-Admin-Password); disabled entirely if no password is configured.
func (s *Server) handleAdminStats(c *gin.Context) {
	if s.adminPassword == "" || c.GetHeader("X-Admin-Password") != s.adminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	stats, err := admin.ReadProcessStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	codes, err := s.store.ActiveCodes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resident_memory_bytes": stats.ResidentMemoryBytes,
		"system_memory_bytes":   stats.SystemMemoryBytes,
		"open_fds":              stats.OpenFDs,
		"active_tables":         len(codes),
	})
}
