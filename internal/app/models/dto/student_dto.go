package dto

import (
	"time"

	"github.com/yigit/campuscare/internal/app/models"
)

// RegisterStudentRequest represents student registration data
type RegisterStudentRequest struct {
	ID          string `json:"id,omitempty"` // ignored; ids are assigned by storage
	Email       string `json:"email" validate:"required,email" example:"ada@example.com"`
	PhoneNumber string `json:"phoneNumber" validate:"required" example:"08012345678"`
	FirstName   string `json:"firstName" validate:"required" example:"Ada"`
	LastName    string `json:"lastName" validate:"required" example:"Obi"`
	Password    string `json:"password" validate:"required"`
}

// LoginRequest represents login credentials; exactly one of email or phone is used
type LoginRequest struct {
	Email       string `json:"email,omitempty" example:"ada@example.com"`
	PhoneNumber string `json:"phoneNumber,omitempty" example:"08012345678"`
	Password    string `json:"password" validate:"required"`
}

// StudentResponse is the student record returned by register and login
type StudentResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	CreatedAt   time.Time `json:"createdAt"`
	CounselorID string    `json:"counselor"`
	Color       string    `json:"color"`
	Token       string    `json:"token,omitempty"`
}

// NewStudentResponse maps a student to its API representation. The password
// hash is never copied.
func NewStudentResponse(s *models.Student) *StudentResponse {
	if s == nil {
		return nil
	}
	return &StudentResponse{
		ID:          s.ID,
		Email:       s.Email,
		PhoneNumber: s.PhoneNumber,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		CreatedAt:   s.CreatedAt,
		CounselorID: s.CounselorID,
		Color:       string(s.Color),
		Token:       s.Token,
	}
}
