package server

import (
	"fmt"
	"net/http"

	"coal-site/internal/config"
	"coal-site/internal/handlers"
	"coal-site/internal/middleware"
	"coal-site/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionName = "coal_session"

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(cfg *config.Config, h *handlers.Handler, health *handlers.HealthHandler, log *zap.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(web.Static()))
	if cfg.CloudinaryURL == "" && cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.InjectAdmin(h.SessionTTL(), h.Now))

	r.NoRoute(h.NotFound)

	// PUBLIC
	r.GET("/", h.Home)
	r.GET("/projects/:id", h.ProjectDetail)
	r.POST("/contact", h.SubmitContact)

	// AUTH
	r.GET("/admin/login", h.ShowLogin)
	r.POST("/admin/login", h.Login)
	r.GET("/admin/logout", h.Logout)

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	// PROJECTS
	admin.GET("", h.Dashboard)
	admin.GET("/projects/new", h.ShowNewProject)
	admin.POST("/projects/new", h.CreateProject)
	admin.GET("/projects/:id/edit", h.ShowEditProject)
	admin.POST("/projects/:id/edit", h.UpdateProject)
	admin.POST("/projects/:id/delete", h.DeleteProject)
	admin.POST("/uploads", h.UploadImage)

	// SITE CONFIG
	admin.GET("/config", h.ShowConfig)
	admin.POST("/config", h.SaveSettings)
	admin.POST("/config/socials", h.CommitSocials)
	admin.POST("/config/socials/new", h.AddSocial)
	admin.POST("/config/socials/:id/delete", h.DeleteSocial)
	admin.POST("/config/budgets", h.AddBudget)
	admin.POST("/config/budgets/:id/delete", h.DeleteBudget)

	// AUDIT
	admin.GET("/audit", h.ListAuditLogs)

	// JSON API
	api := r.Group("/api")
	api.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	api.GET("/projects", h.APIProjects)
	api.GET("/projects/:id", h.APIProject)
	api.GET("/settings", h.APISettings)
	api.GET("/socials", h.APISocials)
	api.GET("/budgets", h.APIBudgets)
	api.POST("/inquiries", h.APISubmitInquiry)
	api.GET("/admin/inquiries", middleware.RequireAdminAPI(), h.APIInquiries)

	// HEALTHCHECK
	health.RegisterRoutes(r)

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cc.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	cc.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}
