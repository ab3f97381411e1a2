package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

// Identity arrives from the gateway in trusted headers; this service does not
// authenticate users itself.
const (
	userIDHeader  = "X-User-ID"
	adminIDHeader = "X-Admin-ID"
)

func requireUser(c *gin.Context) (string, bool) {
	userID := strings.TrimSpace(c.GetHeader(userIDHeader))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity is required"})
		return "", false
	}
	return userID, true
}

func requireAdmin(c *gin.Context) (string, bool) {
	adminID := strings.TrimSpace(c.GetHeader(adminIDHeader))
	if adminID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin identity is required"})
		return "", false
	}
	return adminID, true
}
