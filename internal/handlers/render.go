package handlers

import (
	"coal-site/internal/middleware"

	"github.com/gin-gonic/gin"
)

// render wraps c.HTML and passes the admin flag and the request id to every template.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	data["IsAdmin"] = middleware.IsAdmin(c)
	data["RequestID"] = c.GetString(middleware.RequestIDKey)

	c.HTML(status, tmpl, data)
}
