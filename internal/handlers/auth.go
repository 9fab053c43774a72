package handlers

import (
	"net/http"

	"coal-site/internal/auth"
	"coal-site/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ShowLogin(c *gin.Context) {
	if middleware.IsAdmin(c) {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	render(c, http.StatusOK, "admin_login.html", gin.H{"Error": ""})
}

type loginForm struct {
	Password string `form:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	if !h.limiter.Allow(c.ClientIP()) {
		h.log.Warn("login throttled", zap.String("client_ip", c.ClientIP()))
		render(c, http.StatusTooManyRequests, "admin_login.html", gin.H{"Error": auth.ThrottledMessage})
		return
	}

	var form loginForm
	if err := c.ShouldBind(&form); err != nil || !h.gate.Check(form.Password) {
		h.log.Info("login rejected", zap.String("client_ip", c.ClientIP()))
		render(c, http.StatusUnauthorized, "admin_login.html", gin.H{"Error": auth.RejectedMessage})
		return
	}

	if err := auth.Grant(sessions.Default(c), h.now()); err != nil {
		h.log.Error("save session", zap.Error(err))
		render(c, http.StatusInternalServerError, "admin_login.html", gin.H{"Error": "Could not start a session."})
		return
	}
	h.record(c, "session", "", "login", "Admin signed in")

	h.state.Refresh(c.Request.Context(), true)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) Logout(c *gin.Context) {
	if middleware.IsAdmin(c) {
		h.record(c, "session", "", "logout", "Admin signed out")
	}
	_ = auth.Revoke(sessions.Default(c))
	c.Redirect(http.StatusFound, "/")
}
