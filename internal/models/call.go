package models

import "time"

// Call is a directed edge between two distinct phones. The check constraint
// rejects self-calls at the storage layer; the calls service rejects them
// before the row is ever built.
type Call struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	FromPhoneID     uint       `json:"from_phone_id" gorm:"index;not null;check:chk_calls_distinct_phones,from_phone_id <> to_phone_id"`
	ToPhoneID       uint       `json:"to_phone_id" gorm:"index;not null"`
	StartTime       time.Time  `json:"start_time" gorm:"index;not null"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	Status          CallStatus `json:"status" gorm:"size:20;not null"`
	Cost            *float64   `json:"cost,omitempty" gorm:"type:decimal(10,2)"`

	FromPhone *Phone `json:"from_phone,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	ToPhone   *Phone `json:"to_phone,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
}

func (Call) TableName() string { return "calls" }

type CallStatus string

const (
	CallStatusCompleted CallStatus = "completed"
	CallStatusMissed    CallStatus = "missed"
	CallStatusDeclined  CallStatus = "declined"
	CallStatusFailed    CallStatus = "failed"
)

// ValidCallStatus reports whether s is one of the known call statuses.
func ValidCallStatus(s CallStatus) bool {
	switch s {
	case CallStatusCompleted, CallStatusMissed, CallStatusDeclined, CallStatusFailed:
		return true
	}
	return false
}
