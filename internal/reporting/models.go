package reporting

import (
	"fmt"
	"time"
)

// Filter narrows the calls a report covers. PhoneID takes precedence over
// ContactID when both are set; the date range is inclusive on both ends.
type Filter struct {
	PhoneID   *uint     `json:"phone_id,omitempty" form:"phone_id"`
	ContactID *uint     `json:"contact_id,omitempty" form:"contact_id"`
	From      time.Time `json:"start_date" form:"start_date" time_format:"2006-01-02T15:04:05Z07:00"`
	To        time.Time `json:"end_date" form:"end_date" time_format:"2006-01-02T15:04:05Z07:00"`
}

// CacheKey is stable across equal filters and safe as a redis key segment.
func (f Filter) CacheKey() string {
	phone, contact := "-", "-"
	if f.PhoneID != nil {
		phone = fmt.Sprintf("%d", *f.PhoneID)
	}
	if f.ContactID != nil {
		contact = fmt.Sprintf("%d", *f.ContactID)
	}
	return fmt.Sprintf("p%s:c%s:%d:%d", phone, contact, f.From.Unix(), f.To.Unix())
}

// Statistics aggregates the matched calls. Incoming/outgoing are counted
// relative to the filter subject; with no subject every call is outgoing.
type Statistics struct {
	StartDate                time.Time `json:"start_date"`
	EndDate                  time.Time `json:"end_date"`
	TotalCalls               int       `json:"total_calls"`
	IncomingCalls            int       `json:"incoming_calls"`
	OutgoingCalls            int       `json:"outgoing_calls"`
	MissedCalls              int       `json:"missed_calls"`
	TotalDurationSeconds     int       `json:"total_duration_seconds"`
	TotalDurationFormatted   string    `json:"total_duration_formatted"`
	TotalCost                float64   `json:"total_cost"`
	AverageDurationSeconds   float64   `json:"average_duration_seconds"`
	AverageDurationFormatted string    `json:"average_duration_formatted"`
}

// Billing lists each matched call as a line item, most recent first.
type Billing struct {
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Items     []BillingItem `json:"items"`
}

type BillingItem struct {
	CallID            uint      `json:"call_id"`
	CallDate          time.Time `json:"call_date"`
	FromPhoneNumber   string    `json:"from_phone_number"`
	ToPhoneNumber     string    `json:"to_phone_number"`
	DurationSeconds   int       `json:"duration_seconds"`
	DurationFormatted string    `json:"duration_formatted"`
	Cost              *float64  `json:"cost,omitempty"`
}

// formatDuration renders whole seconds as HH:MM:SS; hours are not capped.
func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
