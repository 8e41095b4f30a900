package models

import "time"

// Phone belongs to exactly one contact. Number is globally unique and
// normalized to the +D-DDD-DDD-DD-DD format before it reaches storage.
//
// Primary-flag invariant: a contact with at least one phone has exactly one
// phone with IsPrimary set. The phones service maintains this inside a single
// transaction per mutation.
type Phone struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ContactID   uint      `json:"contact_id" gorm:"index;not null"`
	Number      string    `json:"number" gorm:"size:20;not null;uniqueIndex"`
	Description *string   `json:"description,omitempty" gorm:"size:200"`
	IsPrimary   bool      `json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`

	Contact *Contact `json:"contact,omitempty"`
}

func (Phone) TableName() string { return "phones" }
