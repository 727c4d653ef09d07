package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSignupNotFound = errors.New("signup not found")
)

/*
AlertSignup is a subscriber who wants to hear about newly published galleries.
*/
type AlertSignup struct {
	ID             string    `json:"id"`
	ParentName     string    `json:"parentName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	AthleteName    string    `json:"athleteName,omitempty"`
	Sport          string    `json:"sport,omitempty"`
	GraduationYear string    `json:"graduationYear,omitempty"`
	SignupDate     time.Time `json:"signupDate"`
	IsActive       bool      `json:"isActive"`
}

/*
AlertSignupInput is what the public signup form provides.
*/
type AlertSignupInput struct {
	ParentName     string `json:"parentName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	AthleteName    string `json:"athleteName"`
	Sport          string `json:"sport"`
	GraduationYear string `json:"graduationYear"`
}

func NewAlertSignup(input AlertSignupInput, now time.Time) AlertSignup {
	return AlertSignup{
		ID:             uuid.NewString(),
		ParentName:     input.ParentName,
		Email:          input.Email,
		Phone:          input.Phone,
		AthleteName:    input.AthleteName,
		Sport:          input.Sport,
		GraduationYear: input.GraduationYear,
		SignupDate:     now.UTC(),
		IsActive:       true,
	}
}

/*
SignupFilter selects alert recipients. SendToAll wins over Sport, and Sport
wins over GraduationYear. An empty filter means every active signup.
*/
type SignupFilter struct {
	SendToAll      bool
	Sport          string
	GraduationYear string
}
