package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contactcalls/internal/conferences"
)

type conferenceRequest struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
}

type participantRequest struct {
	PhoneID uint `json:"phone_id"`
}

func (h *Handlers) listConferences(c *gin.Context) {
	list, err := h.conferences.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list conferences", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) getConference(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	conf, err := h.conferences.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, conferences.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "get conference", err)
	default:
		c.JSON(http.StatusOK, conf)
	}
}

func (h *Handlers) createConference(c *gin.Context) {
	var req conferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	conf, err := h.conferences.Create(c.Request.Context(), req.Name, req.StartTime)
	switch {
	case errors.Is(err, conferences.ErrNameRequired):
		fail(c, http.StatusBadRequest, err)
	case err != nil:
		h.serverError(c, "create conference", err)
	default:
		c.JSON(http.StatusCreated, conf)
	}
}

func (h *Handlers) deleteConference(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.conferences.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, conferences.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "delete conference", err)
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *Handlers) startConference(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.conferences.Start(c.Request.Context(), id)
	switch {
	case errors.Is(err, conferences.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, conferences.ErrNotScheduled):
		fail(c, http.StatusBadRequest, err)
	case err != nil:
		h.serverError(c, "start conference", err)
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *Handlers) endConference(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.conferences.End(c.Request.Context(), id)
	switch {
	case errors.Is(err, conferences.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, conferences.ErrNotInProgress):
		fail(c, http.StatusBadRequest, err)
	case err != nil:
		h.serverError(c, "end conference", err)
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *Handlers) addParticipant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req participantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	added, err := h.conferences.AddParticipant(c.Request.Context(), id, req.PhoneID)
	if err != nil {
		h.serverError(c, "add participant", err)
		return
	}
	if !added {
		failMsg(c, http.StatusBadRequest, "participant cannot be added")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) removeParticipant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	phoneID, ok := idParam(c, "phoneId")
	if !ok {
		return
	}
	removed, err := h.conferences.RemoveParticipant(c.Request.Context(), id, phoneID)
	if err != nil {
		h.serverError(c, "remove participant", err)
		return
	}
	if !removed {
		failMsg(c, http.StatusNotFound, "participant not found")
		return
	}
	c.Status(http.StatusNoContent)
}
