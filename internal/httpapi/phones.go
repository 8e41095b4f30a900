package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contactcalls/internal/phones"
)

func (h *Handlers) listPhones(c *gin.Context) {
	list, err := h.phones.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list phones", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) getPhone(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	phone, err := h.phones.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, phones.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "get phone", err)
	default:
		c.JSON(http.StatusOK, phone)
	}
}

func (h *Handlers) getPhoneByNumber(c *gin.Context) {
	number := c.Param("number")
	phone, err := h.phones.GetByNumber(c.Request.Context(), number)
	switch {
	case errors.Is(err, phones.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "get phone by number", err)
	default:
		c.JSON(http.StatusOK, phone)
	}
}

func (h *Handlers) listPhonesByContact(c *gin.Context) {
	contactID, ok := idParam(c, "contactId")
	if !ok {
		return
	}
	list, err := h.phones.ListByContact(c.Request.Context(), contactID)
	if err != nil {
		h.serverError(c, "list phones by contact", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) createPhone(c *gin.Context) {
	var in phones.PhoneInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	phone, err := h.phones.Create(c.Request.Context(), in)
	switch {
	case errors.Is(err, phones.ErrContactNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, phones.ErrInvalidNumber):
		fail(c, http.StatusBadRequest, err)
	case errors.Is(err, phones.ErrNumberTaken):
		fail(c, http.StatusConflict, err)
	case err != nil:
		h.serverError(c, "create phone", err)
	default:
		c.JSON(http.StatusCreated, phone)
	}
}

func (h *Handlers) updatePhone(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in phones.PhoneInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	phone, err := h.phones.Update(c.Request.Context(), id, in)
	switch {
	case errors.Is(err, phones.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, phones.ErrInvalidNumber):
		fail(c, http.StatusBadRequest, err)
	case errors.Is(err, phones.ErrNumberTaken):
		fail(c, http.StatusConflict, err)
	case err != nil:
		h.serverError(c, "update phone", err)
	default:
		c.JSON(http.StatusOK, phone)
	}
}

func (h *Handlers) deletePhone(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.phones.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, phones.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, phones.ErrHasCalls):
		fail(c, http.StatusConflict, err)
	case err != nil:
		h.serverError(c, "delete phone", err)
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *Handlers) setPrimaryPhone(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.phones.SetPrimary(c.Request.Context(), id)
	switch {
	case errors.Is(err, phones.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "set primary phone", err)
	default:
		c.Status(http.StatusNoContent)
	}
}
