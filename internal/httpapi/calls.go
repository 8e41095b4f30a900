package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contactcalls/internal/calls"
	"contactcalls/internal/reporting"
)

func (h *Handlers) listCalls(c *gin.Context) {
	list, err := h.calls.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list calls", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) getCall(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	call, err := h.calls.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, calls.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "get call", err)
	default:
		c.JSON(http.StatusOK, call)
	}
}

func (h *Handlers) listCallsByPhone(c *gin.Context) {
	phoneID, ok := idParam(c, "phoneId")
	if !ok {
		return
	}
	list, err := h.calls.ListByPhone(c.Request.Context(), phoneID)
	if err != nil {
		h.serverError(c, "list calls by phone", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) listCallsByContact(c *gin.Context) {
	contactID, ok := idParam(c, "contactId")
	if !ok {
		return
	}
	list, err := h.calls.ListByContact(c.Request.Context(), contactID)
	if err != nil {
		h.serverError(c, "list calls by contact", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) createCall(c *gin.Context) {
	var in calls.CallInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	call, err := h.calls.Create(c.Request.Context(), in)
	switch {
	case errors.Is(err, calls.ErrSamePhone),
		errors.Is(err, calls.ErrInvalidDuration),
		errors.Is(err, calls.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, err)
	case errors.Is(err, calls.ErrPhoneNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "create call", err)
	default:
		c.JSON(http.StatusCreated, call)
	}
}

func (h *Handlers) updateCall(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in calls.CallInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	call, err := h.calls.Update(c.Request.Context(), id, in)
	switch {
	case errors.Is(err, calls.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, calls.ErrSamePhone),
		errors.Is(err, calls.ErrInvalidDuration),
		errors.Is(err, calls.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, err)
	case errors.Is(err, calls.ErrPhoneNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "update call", err)
	default:
		c.JSON(http.StatusOK, call)
	}
}

func (h *Handlers) deleteCall(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.calls.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, calls.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case err != nil:
		h.serverError(c, "delete call", err)
	default:
		c.Status(http.StatusNoContent)
	}
}

// reportFilter binds the shared report query parameters and fills in the
// default period (the month running through the end of today) when bounds
// are omitted.
func (h *Handlers) reportFilter(c *gin.Context) (reporting.Filter, bool) {
	var f reporting.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		fail(c, http.StatusBadRequest, err)
		return f, false
	}
	f.From, f.To = reporting.Period(f.From, f.To, h.now)
	if f.To.Before(f.From) {
		failMsg(c, http.StatusBadRequest, "end_date must not precede start_date")
		return f, false
	}
	return f, true
}

func (h *Handlers) callStatistics(c *gin.Context) {
	f, ok := h.reportFilter(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if st, hit := h.reportCache.GetStatistics(ctx, f); hit {
		c.JSON(http.StatusOK, st)
		return
	}
	st, err := h.reports.Statistics(ctx, f)
	if err != nil {
		h.serverError(c, "call statistics", err)
		return
	}
	h.reportCache.SetStatistics(ctx, f, st)
	c.JSON(http.StatusOK, st)
}

func (h *Handlers) billingReport(c *gin.Context) {
	f, ok := h.reportFilter(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if b, hit := h.reportCache.GetBilling(ctx, f); hit {
		c.JSON(http.StatusOK, b)
		return
	}
	b, err := h.reports.Billing(ctx, f)
	if err != nil {
		h.serverError(c, "billing report", err)
		return
	}
	h.reportCache.SetBilling(ctx, f, b)
	c.JSON(http.StatusOK, b)
}
