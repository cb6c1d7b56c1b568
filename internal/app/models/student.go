package models

import (
	"strings"
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID          string    `json:"id" db:"id" bson:"_id,omitempty" example:"6f1c2a9e-3c7b-4d2f-9a51-1b2c3d4e5f60"` // Assigned by storage on creation
	Email       string    `json:"email" db:"email" bson:"email" example:"ada@example.com"`                          // Unique
	PhoneNumber string    `json:"phoneNumber" db:"phone_number" bson:"phoneNumber" example:"+2348012345678"`        // E.164, unique
	FirstName   string    `json:"firstName" db:"first_name" bson:"firstName" example:"Ada"`
	LastName    string    `json:"lastName" db:"last_name" bson:"lastName" example:"Obi"`
	Password    string    `json:"-" db:"password" bson:"password"` // bcrypt hash, never serialized
	CreatedAt   time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	CounselorID string    `json:"counselor" db:"counselor_id" bson:"counselor" example:"c0ffee00-0000-4000-8000-000000000001"`
	Color       Color     `json:"color" db:"color" bson:"color" example:"TEAL"` // Assigned once at creation

	// Token is produced per registration/login and never persisted.
	Token string `json:"token,omitempty" db:"-" bson:"-"`
}

// FullName returns the display name used for the external identity.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
