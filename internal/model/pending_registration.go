package model

import "time"

// PendingRegistration holds an unverified sign-up until its one-time code is
// confirmed. The password stays plaintext here and is hashed only when the
// row is promoted to a real User. Replaced on re-register or resend, deleted
// on successful verification or on expiry.
type PendingRegistration struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Email     string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName string `json:"first_name" gorm:"size:255"`
	LastName  string `json:"last_name" gorm:"size:255"`
	Phone     string `json:"phone,omitempty" gorm:"size:150"`
	Address   string `json:"address,omitempty" gorm:"size:150"`
	Image     string `json:"image,omitempty" gorm:"size:255"`
	Password  string `json:"-" gorm:"size:255;not null"`

	OTPCode      string    `json:"-" gorm:"size:6;not null"`
	OTPExpiresAt time.Time `json:"-" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}
