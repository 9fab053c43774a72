package handlers

import (
	"net/http"
	"time"

	"coal-site/internal/contact"
	"coal-site/internal/site"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionContactOK = "contact_ok"

func (h *Handler) homeData(snap site.Snapshot, sub *contact.Submission, errMsg string) gin.H {
	return gin.H{
		"Projects":  snap.Projects,
		"Settings":  snap.Settings,
		"Socials":   snap.ActiveSocials(),
		"Budgets":   contact.BudgetChoices(snap.Budgets),
		"Timelines": contact.Timelines,
		"Form":      sub.Form(),
		"Status":    string(sub.Status()),
		"Error":     errMsg,
	}
}

// restoreSubmission rebuilds the visitor's form state from the session flash
// left by a successful submission.
func (h *Handler) restoreSubmission(c *gin.Context) *contact.Submission {
	sess := sessions.Default(c)
	var at time.Time
	if ms, ok := sess.Get(sessionContactOK).(int64); ok {
		at = time.UnixMilli(ms)
	}
	sub := contact.Restore(h.resetDelay, at, contact.WithClock(h.now))
	if !at.IsZero() && sub.Status() == contact.StatusIdle {
		sess.Delete(sessionContactOK)
		_ = sess.Save()
	}
	return sub
}

func (h *Handler) Home(c *gin.Context) {
	snap := h.state.Snapshot(false)
	render(c, http.StatusOK, "home.html", h.homeData(snap, h.restoreSubmission(c), ""))
}

func (h *Handler) ProjectDetail(c *gin.Context) {
	p, ok := h.state.Project(c.Param("id"))
	if !ok {
		h.NotFound(c)
		return
	}
	snap := h.state.Snapshot(false)
	render(c, http.StatusOK, "project.html", gin.H{
		"Project":  p,
		"Settings": snap.Settings,
		"Socials":  snap.ActiveSocials(),
	})
}

func (h *Handler) NotFound(c *gin.Context) {
	snap := h.state.Snapshot(false)
	render(c, http.StatusNotFound, "404.html", gin.H{
		"Settings": snap.Settings,
		"Socials":  snap.ActiveSocials(),
	})
}
