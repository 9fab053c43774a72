package handlers

import (
	"net/http"

	"coal-site/internal/contact"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubmitContact handles the contact form on the home page.
func (h *Handler) SubmitContact(c *gin.Context) {
	var form contact.Form
	_ = c.ShouldBind(&form)

	sub := contact.NewSubmission(h.resetDelay, contact.WithClock(h.now))
	sub.Set(form)

	if err := sub.Submit(c.Request.Context(), h.state); err != nil {
		status := h.fail(c, err)
		msg := contact.RejectedMessage
		if status == http.StatusBadRequest {
			msg = message(err)
		}
		h.log.Info("contact submission rejected", zap.Error(err))
		render(c, status, "home.html", h.homeData(h.state.Snapshot(false), sub, msg))
		return
	}

	sess := sessions.Default(c)
	sess.Set(sessionContactOK, sub.SucceededAt().UnixMilli())
	_ = sess.Save()
	c.Redirect(http.StatusSeeOther, "/#contact")
}

type inquiryResponse struct {
	Status contact.Status `json:"status"`
	Form   contact.Form   `json:"form"`
	Error  string         `json:"error,omitempty"`
}

// APISubmitInquiry is the JSON variant of SubmitContact.
func (h *Handler) APISubmitInquiry(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	sub := contact.NewSubmission(h.resetDelay, contact.WithClock(h.now))
	sub.Set(form)

	if err := sub.Submit(c.Request.Context(), h.state); err != nil {
		status := h.fail(c, err)
		c.JSON(status, inquiryResponse{Status: sub.Status(), Form: sub.Form(), Error: message(err)})
		return
	}
	c.JSON(http.StatusCreated, inquiryResponse{Status: sub.Status(), Form: sub.Form()})
}
