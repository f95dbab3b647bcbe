package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/fluxfolio/internal/contact"
	"github.com/Zachkp/fluxfolio/internal/site"
)

type pageData struct {
	Title    string
	Content  *site.Content
	Sections []site.Section
	Nav      []site.Section
	Form     formView
	Year     int
}

// formView is the contact wizard as the templates see it.
type formView struct {
	Prompt   string
	Business string
	Name     string
	Email    string
	Errors   contact.FieldErrors
	State    contact.FormState
}

func (h *handler) page() pageData {
	return pageData{
		Title:    h.Content.Meta.Title,
		Content:  h.Content,
		Sections: site.Sections(),
		Nav:      site.NavSections(),
		Form:     h.emptyForm(),
		Year:     h.Now().Year(),
	}
}

func (h *handler) emptyForm() formView {
	return formView{Prompt: h.Content.Hero.ContactPrompt, State: contact.Idle()}
}

func (h *handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.page())
}

func (h *handler) projectDialog(c *gin.Context) {
	p, err := h.Content.Project(c.Param("slug"))
	if errors.Is(err, site.ErrNotFound) {
		h.notFound(c)
		return
	}
	if isHTMX(c) {
		c.HTML(http.StatusOK, "project-dialog", p)
		return
	}
	data := h.page()
	data.Title = p.Title + " - " + h.Content.Profile.Brand
	c.HTML(http.StatusOK, "project.html", gin.H{"Page": data, "Project": p})
}

func (h *handler) privacy(c *gin.Context) {
	data := h.page()
	data.Title = "Privacy Policy - " + h.Content.Profile.Brand
	c.HTML(http.StatusOK, "privacy.html", data)
}

func (h *handler) notFound(c *gin.Context) {
	if wantsJSON(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	data := h.page()
	data.Title = "Page Not Found - " + h.Content.Profile.Brand
	c.HTML(http.StatusNotFound, "not-found.html", data)
}
