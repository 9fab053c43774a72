package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const auditPageSize = 200

func (h *Handler) ListAuditLogs(c *gin.Context) {
	logs, err := h.audit.ListAuditLogs(c.Request.Context(), auditPageSize)
	if err != nil {
		render(c, h.fail(c, err), "admin_audit.html", gin.H{"Error": "Could not load the audit log."})
		return
	}

	render(c, http.StatusOK, "admin_audit.html", gin.H{
		"Logs": logs,
	})
}
