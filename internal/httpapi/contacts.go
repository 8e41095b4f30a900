package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contactcalls/internal/contacts"
)

func (h *Handlers) listContacts(c *gin.Context) {
	list, err := h.contacts.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list contacts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) getContact(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	contact, err := h.contacts.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, contacts.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "get contact", err)
	default:
		c.JSON(http.StatusOK, contact)
	}
}

func (h *Handlers) createContact(c *gin.Context) {
	var in contacts.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	contact, err := h.contacts.Create(c.Request.Context(), in)
	switch {
	case errors.Is(err, contacts.ErrNameRequired):
		fail(c, http.StatusBadRequest, err)
	case err != nil:
		h.serverError(c, "create contact", err)
	default:
		c.JSON(http.StatusCreated, contact)
	}
}

func (h *Handlers) updateContact(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in contacts.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	contact, err := h.contacts.Update(c.Request.Context(), id, in)
	switch {
	case errors.Is(err, contacts.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, contacts.ErrNameRequired):
		fail(c, http.StatusBadRequest, err)
	case err != nil:
		h.serverError(c, "update contact", err)
	default:
		c.JSON(http.StatusOK, contact)
	}
}

func (h *Handlers) deleteContact(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.contacts.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, contacts.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, contacts.ErrHasCallHistory):
		fail(c, http.StatusConflict, err)
	case err != nil:
		h.serverError(c, "delete contact", err)
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *Handlers) searchContacts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		failMsg(c, http.StatusBadRequest, "query parameter q is required")
		return
	}
	list, err := h.contacts.Search(c.Request.Context(), term)
	if err != nil {
		h.serverError(c, "search contacts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) getProfile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.contacts.GetProfile(c.Request.Context(), id)
	switch {
	case errors.Is(err, contacts.ErrProfileNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "get profile", err)
	default:
		c.JSON(http.StatusOK, profile)
	}
}

func (h *Handlers) createProfile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in contacts.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	profile, err := h.contacts.CreateProfile(c.Request.Context(), id, in)
	switch {
	case errors.Is(err, contacts.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, contacts.ErrProfileExists):
		fail(c, http.StatusConflict, err)
	case err != nil:
		h.serverError(c, "create profile", err)
	default:
		c.JSON(http.StatusCreated, profile)
	}
}

func (h *Handlers) updateProfile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in contacts.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	profile, err := h.contacts.UpdateProfile(c.Request.Context(), id, in)
	switch {
	case errors.Is(err, contacts.ErrProfileNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "update profile", err)
	default:
		c.JSON(http.StatusOK, profile)
	}
}

func (h *Handlers) deleteProfile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.contacts.DeleteProfile(c.Request.Context(), id)
	switch {
	case errors.Is(err, contacts.ErrProfileNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "delete profile", err)
	default:
		c.Status(http.StatusNoContent)
	}
}
