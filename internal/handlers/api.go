package handlers

import (
	"net/http"

	"coal-site/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) APIProjects(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Snapshot(false).Projects)
}

func (h *Handler) APIProject(c *gin.Context) {
	p, ok := h.state.Project(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) APISettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Snapshot(false).Settings)
}

// APISocials returns the footer links. Admins also see inactive ones.
func (h *Handler) APISocials(c *gin.Context) {
	snap := h.state.Snapshot(false)
	if middleware.IsAdmin(c) {
		c.JSON(http.StatusOK, snap.Socials)
		return
	}
	c.JSON(http.StatusOK, snap.ActiveSocials())
}

type budgetView struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	ProjectType string `json:"projectType,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Timeline    string `json:"timeline,omitempty"`
	Display     string `json:"display"`
}

func (h *Handler) APIBudgets(c *gin.Context) {
	budgets := h.state.Snapshot(false).Budgets
	out := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetView{
			ID:          b.ID,
			Label:       b.Label,
			ProjectType: b.ProjectType,
			Amount:      b.Amount,
			Timeline:    b.Timeline,
			Display:     b.Display(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) APIInquiries(c *gin.Context) {
	h.state.Refresh(c.Request.Context(), true)
	c.JSON(http.StatusOK, h.state.Snapshot(true).Inquiries)
}
