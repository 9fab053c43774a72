package middleware

import (
	"net/http"
	"time"

	"coal-site/internal/auth"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AdminKey is the gin context key holding the admin flag.
const AdminKey = "IsAdmin"

// InjectAdmin resolves the session once per request and stores the admin
// flag for handlers and templates.
func InjectAdmin(ttl time.Duration, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		c.Set(AdminKey, auth.IsAdmin(sess, now(), ttl))
		c.Next()
	}
}

// IsAdmin reads the flag set by InjectAdmin.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(AdminKey)
}

// RequireAdmin sends visitors without a live admin session to the login page.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminAPI is RequireAdmin for JSON routes.
func RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin session required"})
			return
		}
		c.Next()
	}
}
