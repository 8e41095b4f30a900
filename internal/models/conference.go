package models

import "time"

// Conference moves Scheduled -> InProgress -> Completed. There is no
// transition back; deleting the conference is the only exit from the first
// two states.
type Conference struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	Name            string           `json:"name" gorm:"size:200;not null"`
	StartTime       time.Time        `json:"start_time" gorm:"not null"`
	EndTime         *time.Time       `json:"end_time,omitempty"`
	DurationSeconds int              `json:"duration_seconds"`
	Status          ConferenceStatus `json:"status" gorm:"size:20;not null"`

	Participants []ConferenceParticipant `json:"participants,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (Conference) TableName() string { return "conferences" }

type ConferenceStatus string

const (
	ConferenceStatusScheduled  ConferenceStatus = "scheduled"
	ConferenceStatusInProgress ConferenceStatus = "in_progress"
	ConferenceStatusCompleted  ConferenceStatus = "completed"
)

// ConferenceParticipant links a phone to a conference. A row with no
// LeaveTime is an active participant; closed rows are kept as history.
type ConferenceParticipant struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	ConferenceID    uint       `json:"conference_id" gorm:"index;not null"`
	PhoneID         uint       `json:"phone_id" gorm:"index;not null"`
	JoinTime        time.Time  `json:"join_time" gorm:"not null"`
	LeaveTime       *time.Time `json:"leave_time,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`

	Phone *Phone `json:"phone,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
}

func (ConferenceParticipant) TableName() string { return "conference_participants" }
