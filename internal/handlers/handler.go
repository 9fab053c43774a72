package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"coal-site/internal/auth"
	"coal-site/internal/models"
	"coal-site/internal/site"
	"coal-site/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditStore records admin actions.
type AuditStore interface {
	CreateAuditLog(ctx context.Context, actor, entity, entityID, action, details string)
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type Deps struct {
	State      *site.State
	Audit      AuditStore
	Gate       *auth.Gate
	Limiter    *auth.Limiter
	Uploader   storage.Uploader
	Log        *zap.Logger
	SessionTTL time.Duration
	ResetDelay time.Duration
	Now        func() time.Time
}

// Handler serves the public site, the admin dashboard and the JSON API.
type Handler struct {
	state      *site.State
	audit      AuditStore
	gate       *auth.Gate
	limiter    *auth.Limiter
	uploader   storage.Uploader
	log        *zap.Logger
	sessionTTL time.Duration
	resetDelay time.Duration
	now        func() time.Time
}

func New(d Deps) *Handler {
	h := &Handler{
		state:      d.State,
		audit:      d.Audit,
		gate:       d.Gate,
		limiter:    d.Limiter,
		uploader:   d.Uploader,
		log:        d.Log,
		sessionTTL: d.SessionTTL,
		resetDelay: d.ResetDelay,
		now:        d.Now,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Now is the clock shared with the session middleware.
func (h *Handler) Now() time.Time {
	return h.now()
}

func (h *Handler) SessionTTL() time.Duration {
	return h.sessionTTL
}

func actor(c *gin.Context) string {
	return "admin@" + c.ClientIP()
}

func (h *Handler) record(c *gin.Context, entity, entityID, action, details string) {
	if h.audit == nil {
		return
	}
	h.audit.CreateAuditLog(c.Request.Context(), actor(c), entity, entityID, action, details)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, site.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, site.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// message hides internal failures from visitors.
func message(err error) string {
	var verr *site.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, site.ErrNotFound):
		return "not found"
	default:
		return "internal error"
	}
}

func (h *Handler) fail(c *gin.Context, err error) int {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		_ = c.Error(err)
	}
	return status
}

func (h *Handler) jsonError(c *gin.Context, err error) {
	status := h.fail(c, err)
	c.JSON(status, gin.H{"error": message(err)})
}
