package handlers

import (
	"net/http"
	"strings"

	"coal-site/internal/site"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (h *Handler) renderConfig(c *gin.Context, status int, settings site.Settings, errMsg string) {
	snap := h.state.Snapshot(true)

	var notice string
	sess := sessions.Default(c)
	if flashes := sess.Flashes(); len(flashes) > 0 {
		notice, _ = flashes[0].(string)
		_ = sess.Save()
	}

	render(c, status, "admin_config.html", gin.H{
		"Settings":    settings,
		"EmailsText":  strings.Join(settings.ContactEmails, "\n"),
		"PhonesText":  strings.Join(settings.Phones, "\n"),
		"Socials":     snap.ActiveSocials(),
		"SocialLinks": snap.Socials,
		"Budgets":     snap.Budgets,
		"Error":       errMsg,
		"Notice":      notice,
	})
}

func (h *Handler) done(c *gin.Context, notice string) {
	sess := sessions.Default(c)
	sess.AddFlash(notice)
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/admin/config")
}

func (h *Handler) ShowConfig(c *gin.Context) {
	h.renderConfig(c, http.StatusOK, h.state.Snapshot(true).Settings, "")
}

//
// SETTINGS
//

type settingsForm struct {
	ContactEmails string `form:"contact_emails"`
	Phones        string `form:"phones"`
	Address       string `form:"address"`
	Tagline       string `form:"tagline"`
}

func (h *Handler) SaveSettings(c *gin.Context) {
	var form settingsForm
	_ = c.ShouldBind(&form)

	st := site.Settings{
		ContactEmails: site.ParseList(form.ContactEmails),
		Phones:        site.ParseList(form.Phones),
		Address:       form.Address,
		Tagline:       form.Tagline,
	}
	if err := h.state.SaveSettings(c.Request.Context(), st); err != nil {
		h.renderConfig(c, h.fail(c, err), st, message(err))
		return
	}
	h.record(c, "settings", "1", "update", "Updated site settings")
	h.done(c, "Settings saved.")
}

//
// SOCIAL LINKS
//

// CommitSocials applies the checked state of every social link listed on the
// form. Each row posts its id as "social_id"; checked rows also post "active".
func (h *Handler) CommitSocials(c *gin.Context) {
	active := map[string]bool{}
	for _, id := range c.PostFormArray("social_id") {
		active[id] = false
	}
	for _, id := range c.PostFormArray("active") {
		active[id] = true
	}
	if err := h.state.CommitSocials(c.Request.Context(), active); err != nil {
		h.renderConfig(c, h.fail(c, err), h.state.Snapshot(true).Settings, message(err))
		return
	}
	h.record(c, "social", "", "update", "Updated active social links")
	h.done(c, "Social links updated.")
}

type socialForm struct {
	Platform string `form:"platform"`
	URL      string `form:"url"`
	Active   bool   `form:"active"`
}

func (h *Handler) AddSocial(c *gin.Context) {
	var form socialForm
	_ = c.ShouldBind(&form)

	l, err := h.state.AddSocial(c.Request.Context(), site.SocialLink{Platform: form.Platform, URL: form.URL, Active: form.Active})
	if err != nil {
		h.renderConfig(c, h.fail(c, err), h.state.Snapshot(true).Settings, message(err))
		return
	}
	h.record(c, "social", l.ID, "create", "Added social link: "+l.Platform)
	h.done(c, "Social link added.")
}

func (h *Handler) DeleteSocial(c *gin.Context) {
	id := c.Param("id")
	if err := h.state.RemoveSocial(c.Request.Context(), id); err != nil {
		h.renderConfig(c, h.fail(c, err), h.state.Snapshot(true).Settings, message(err))
		return
	}
	h.record(c, "social", id, "delete", "Removed social link")
	h.done(c, "Social link removed.")
}

//
// BUDGET OPTIONS
//

type budgetForm struct {
	Label       string `form:"label"`
	ProjectType string `form:"project_type"`
	Amount      string `form:"amount"`
	Timeline    string `form:"timeline"`
}

func (h *Handler) AddBudget(c *gin.Context) {
	var form budgetForm
	_ = c.ShouldBind(&form)

	b, err := h.state.AddBudget(c.Request.Context(), site.BudgetOption{
		Label:       form.Label,
		ProjectType: form.ProjectType,
		Amount:      form.Amount,
		Timeline:    form.Timeline,
	})
	if err != nil {
		h.renderConfig(c, h.fail(c, err), h.state.Snapshot(true).Settings, message(err))
		return
	}
	h.record(c, "budget", b.ID, "create", "Added budget option: "+b.Display())
	h.done(c, "Budget option added.")
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	id := c.Param("id")
	if err := h.state.RemoveBudget(c.Request.Context(), id); err != nil {
		h.renderConfig(c, h.fail(c, err), h.state.Snapshot(true).Settings, message(err))
		return
	}
	h.record(c, "budget", id, "delete", "Removed budget option")
	h.done(c, "Budget option removed.")
}
