// Package httpapi exposes the contact book over JSON HTTP.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contactcalls/internal/calls"
	"contactcalls/internal/conferences"
	"contactcalls/internal/contacts"
	"contactcalls/internal/phones"
	"contactcalls/internal/reporting"
	"contactcalls/pkg/logger"
)

type Handlers struct {
	contacts    *contacts.Service
	phones      *phones.Service
	calls       *calls.Service
	conferences *conferences.Service
	reports     *reporting.Service
	reportCache *reporting.Cache
	now         func() time.Time
}

func New(
	contactSvc *contacts.Service,
	phoneSvc *phones.Service,
	callSvc *calls.Service,
	conferenceSvc *conferences.Service,
	reportSvc *reporting.Service,
	reportCache *reporting.Cache,
) *Handlers {
	return &Handlers{
		contacts:    contactSvc,
		phones:      phoneSvc,
		calls:       callSvc,
		conferences: conferenceSvc,
		reports:     reportSvc,
		reportCache: reportCache,
		now:         time.Now,
	}
}

// Register mounts every route under the given group.
func (h *Handlers) Register(api *gin.RouterGroup) {
	api.GET("/contacts", h.listContacts)
	api.POST("/contacts", h.createContact)
	api.GET("/contacts/search", h.searchContacts)
	api.GET("/contacts/:id", h.getContact)
	api.PUT("/contacts/:id", h.updateContact)
	api.DELETE("/contacts/:id", h.deleteContact)
	api.GET("/contacts/:id/profile", h.getProfile)
	api.POST("/contacts/:id/profile", h.createProfile)
	api.PUT("/contacts/:id/profile", h.updateProfile)
	api.DELETE("/contacts/:id/profile", h.deleteProfile)

	api.GET("/phones", h.listPhones)
	api.POST("/phones", h.createPhone)
	api.GET("/phones/:id", h.getPhone)
	api.PUT("/phones/:id", h.updatePhone)
	api.DELETE("/phones/:id", h.deletePhone)
	api.POST("/phones/:id/set-primary", h.setPrimaryPhone)
	api.GET("/phones/by-number/:number", h.getPhoneByNumber)
	api.GET("/phones/by-contact/:contactId", h.listPhonesByContact)

	api.GET("/calls", h.listCalls)
	api.POST("/calls", h.createCall)
	api.GET("/calls/statistics", h.callStatistics)
	api.GET("/calls/billing", h.billingReport)
	api.GET("/calls/:id", h.getCall)
	api.PUT("/calls/:id", h.updateCall)
	api.DELETE("/calls/:id", h.deleteCall)
	api.GET("/calls/by-phone/:phoneId", h.listCallsByPhone)
	api.GET("/calls/by-contact/:contactId", h.listCallsByContact)

	api.GET("/conferences", h.listConferences)
	api.POST("/conferences", h.createConference)
	api.GET("/conferences/:id", h.getConference)
	api.DELETE("/conferences/:id", h.deleteConference)
	api.POST("/conferences/:id/start", h.startConference)
	api.POST("/conferences/:id/end", h.endConference)
	api.POST("/conferences/:id/participants", h.addParticipant)
	api.DELETE("/conferences/:id/participants/:phoneId", h.removeParticipant)
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func failMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// idParam parses a positive integer path parameter; on failure it writes
// the 400 response itself.
func idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		failMsg(c, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

// serverError logs through the request-scoped logger so the entry carries
// the request id set by the logging middleware.
func (h *Handlers) serverError(c *gin.Context, op string, err error) {
	logger.FromGin(c).Error(op+" failed", "error", err)
	failMsg(c, http.StatusInternalServerError, "internal server error")
}
