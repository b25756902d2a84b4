package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role controls access to the admin surface.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a verified account.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string    `json:"first_name" gorm:"size:255"`
	LastName     string    `json:"last_name" gorm:"size:255"`
	Image        string    `json:"image,omitempty" gorm:"size:255"`
	Address      string    `json:"address,omitempty" gorm:"size:150"`
	Phone        string    `json:"phone,omitempty" gorm:"size:150"`
	Role         Role      `json:"role" gorm:"type:varchar(10);not null;default:'user';index"`
	Active       bool      `json:"active" gorm:"default:true;index"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON

	// One-time code for password reset. Code and expiry are set together
	// and cleared together.
	OTPCode      *string    `json:"-" gorm:"size:6"`
	OTPExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SetOTP stores a fresh one-time code with its expiry.
func (u *User) SetOTP(code string, expiresAt time.Time) {
	u.OTPCode = &code
	u.OTPExpiresAt = &expiresAt
}

// ClearOTP removes the one-time code and its expiry.
func (u *User) ClearOTP() {
	u.OTPCode = nil
	u.OTPExpiresAt = nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
