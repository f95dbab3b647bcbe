package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/fluxfolio/internal/contact"
)

// contactForm renders step one, keeping any description passed back from a
// cancelled step two.
func (h *handler) contactForm(c *gin.Context) {
	view := h.emptyForm()
	view.Business = c.Query("business")
	c.HTML(http.StatusOK, "contact-form", view)
}

// contactDescribe validates step one and opens the details dialog.
func (h *handler) contactDescribe(c *gin.Context) {
	var form contact.DescribeForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
	}
	form.Normalize()

	view := h.emptyForm()
	view.Business = form.Business
	if errs := contact.ValidateDescribe(form); errs != nil {
		view.Errors = errs
		c.HTML(http.StatusOK, "contact-form", view)
		return
	}
	c.HTML(http.StatusOK, "contact-details", view)
}

// contactSubmit runs step two. Fragments are answered 200 so HTMX swaps them;
// the outcome is in the rendered state.
func (h *handler) contactSubmit(c *gin.Context) {
	var form contact.DetailsForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
	}

	st, err := h.Contact.Submit(c.Request.Context(), h.clientKey(c), form)
	form.Normalize()

	if err == nil {
		view := h.emptyForm()
		view.State = st
		c.HTML(http.StatusOK, "contact-form", view)
		return
	}

	view := h.emptyForm()
	view.Business = form.Business
	view.Name = form.Name
	view.Email = form.Email
	if errors.Is(err, contact.ErrInvalidForm) {
		view.Errors = st.Errors
	} else {
		view.State = st
	}
	c.HTML(http.StatusOK, "contact-details", view)
}

// apiContact is the JSON form of the whole wizard.
func (h *handler) apiContact(c *gin.Context) {
	var form contact.DetailsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, contact.FormState{Status: contact.StatusError, Message: contact.InvalidMessage})
		return
	}

	st, err := h.Contact.Submit(c.Request.Context(), h.clientKey(c), form)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, st)
	case errors.Is(err, contact.ErrInvalidForm):
		c.JSON(http.StatusUnprocessableEntity, st)
	case errors.Is(err, contact.ErrInFlight):
		c.JSON(http.StatusTooManyRequests, st)
	default:
		c.JSON(http.StatusBadGateway, st)
	}
}
