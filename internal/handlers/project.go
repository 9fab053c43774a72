package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"coal-site/internal/site"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//
// DASHBOARD
//

func (h *Handler) Dashboard(c *gin.Context) {
	h.state.Refresh(c.Request.Context(), true)
	snap := h.state.Snapshot(true)
	render(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"Projects":  snap.Projects,
		"Inquiries": snap.Inquiries,
		"Error":     c.Query("error"),
	})
}

//
// PROJECT FORM
//

type projectForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Problem     string `form:"problem"`
	Solution    string `form:"solution"`
	TechUsed    string `form:"tech_used"`
	ImageURL    string `form:"image_url"`
	VisitURL    string `form:"visit_url"`
}

func (f projectForm) project(id string) site.Project {
	return site.Project{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		Problem:     f.Problem,
		Solution:    f.Solution,
		TechUsed:    site.ParseTech(f.TechUsed),
		ImageURL:    f.ImageURL,
		VisitURL:    f.VisitURL,
	}
}

func renderProjectForm(c *gin.Context, status int, p site.Project, isNew bool, errMsg string) {
	render(c, status, "admin_project_form.html", gin.H{
		"Project":  p,
		"TechText": strings.Join(p.TechUsed, ", "),
		"IsNew":    isNew,
		"Error":    errMsg,
	})
}

// bindProject reads the form and uploads the optional image file.
func (h *Handler) bindProject(c *gin.Context, id string) (site.Project, error) {
	var form projectForm
	if err := c.ShouldBind(&form); err != nil {
		return site.Project{ID: id}, fmt.Errorf("read form: %w", site.ErrInvalidInput)
	}
	p := form.project(id)

	file, err := c.FormFile("image")
	if err != nil || file == nil || file.Size == 0 {
		return p, nil
	}
	imageURL, err := h.upload(c, file)
	if err != nil {
		return p, err
	}
	p.ImageURL = imageURL
	return p, nil
}

func (h *Handler) ShowNewProject(c *gin.Context) {
	renderProjectForm(c, http.StatusOK, site.Project{}, true, "")
}

func (h *Handler) CreateProject(c *gin.Context) {
	p, err := h.bindProject(c, "")
	if err == nil {
		p, err = h.state.CreateProject(c.Request.Context(), p)
	}
	if err != nil {
		renderProjectForm(c, h.fail(c, err), p, true, message(err))
		return
	}

	h.record(c, "project", p.ID, "create", "Created project: "+p.Title)
	h.log.Info("project created", zap.String("id", p.ID))
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) ShowEditProject(c *gin.Context) {
	p, ok := h.state.Project(c.Param("id"))
	if !ok {
		h.NotFound(c)
		return
	}
	renderProjectForm(c, http.StatusOK, p, false, "")
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.state.Project(id); !ok {
		h.NotFound(c)
		return
	}

	p, err := h.bindProject(c, id)
	if err == nil {
		p, err = h.state.UpdateProject(c.Request.Context(), p)
	}
	if err != nil {
		renderProjectForm(c, h.fail(c, err), p, false, message(err))
		return
	}

	h.record(c, "project", id, "update", "Updated project: "+p.Title)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id := c.Param("id")
	p, _ := h.state.Project(id)

	if err := h.state.DeleteProject(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		c.Redirect(http.StatusFound, "/admin?error="+url.QueryEscape(message(err)))
		return
	}

	h.record(c, "project", id, "delete", "Deleted project: "+p.Title)
	c.Redirect(http.StatusFound, "/admin")
}
