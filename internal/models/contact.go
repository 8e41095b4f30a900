package models

import "time"

// Contact is the root entity of the address book. It owns at most one
// profile and any number of phones; both are removed with the contact.
type Contact struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	FirstName  string     `json:"first_name" gorm:"size:100;not null"`
	LastName   string     `json:"last_name" gorm:"size:100;not null"`
	MiddleName *string    `json:"middle_name,omitempty" gorm:"size:100"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime:false"`

	Profile *ContactProfile `json:"profile,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Phones  []Phone         `json:"phones,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (Contact) TableName() string { return "contacts" }

// ContactProfile holds optional metadata for a contact.
// The unique index on ContactID enforces at most one profile per contact.
type ContactProfile struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ContactID   uint       `json:"contact_id" gorm:"uniqueIndex;not null"`
	Email       *string    `json:"email,omitempty" gorm:"size:255"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     *string    `json:"address,omitempty" gorm:"size:500"`
	Company     *string    `json:"company,omitempty" gorm:"size:200"`
	Position    *string    `json:"position,omitempty" gorm:"size:200"`
	Notes       *string    `json:"notes,omitempty" gorm:"size:2000"`
}

func (ContactProfile) TableName() string { return "contact_profiles" }
