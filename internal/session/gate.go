package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	LoginPath      = "/login"
	AdminLoginPath = "/admin-login"
)

// Gate renders the route only when allowed holds; otherwise it redirects and
// the handler chain stops.
func Gate(allowed func() bool, redirect string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed() {
			c.Redirect(http.StatusFound, redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *Manager) RequireUser() gin.HandlerFunc {
	return Gate(m.LoggedIn, LoginPath)
}

func (m *Manager) RequireAdmin() gin.HandlerFunc {
	return Gate(m.IsAdmin, AdminLoginPath)
}
