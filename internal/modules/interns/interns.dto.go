package interns

import (
	"time"
)

// CreateInternRequest registers a new intern
// @Description New intern registration
type CreateInternRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	SchoolName    string  `json:"school_name" validate:"required,min=2,max=150"`
	Abbreviation  string  `json:"abbreviation" validate:"required,min=1,max=32"`
	ShiftName     string  `json:"shift_name,omitempty" validate:"omitempty,max=50"`
	ShiftTimeIn   string  `json:"shift_time_in,omitempty" validate:"omitempty,datetime=15:04:05"`
	ShiftTimeOut  string  `json:"shift_time_out,omitempty" validate:"omitempty,datetime=15:04:05"`
	RequiredHours float64 `json:"required_hours" validate:"required,gt=0,lte=5000"`
} // @name CreateInternRequest

// UpdateInternRequest edits an intern's profile and shift assignment
type UpdateInternRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	SchoolName    string  `json:"school_name" validate:"required,min=2,max=150"`
	Abbreviation  string  `json:"abbreviation" validate:"required,min=1,max=32"`
	ShiftName     string  `json:"shift_name,omitempty" validate:"omitempty,max=50"`
	ShiftTimeIn   string  `json:"shift_time_in,omitempty" validate:"omitempty,datetime=15:04:05"`
	ShiftTimeOut  string  `json:"shift_time_out,omitempty" validate:"omitempty,datetime=15:04:05"`
	RequiredHours float64 `json:"required_hours" validate:"required,gt=0,lte=5000"`
} // @name UpdateInternRequest

// UpdateStatusRequest changes an intern's lifecycle status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Active Completed Terminated"`
} // @name UpdateStatusRequest

// InternResponse represents an intern
// @Description Intern profile with shift assignment and progress
type InternResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	SchoolName       string    `json:"school_name"`
	Abbreviation     string    `json:"abbreviation"`
	ShiftName        string    `json:"shift_name,omitempty"`
	ShiftTimeIn      string    `json:"shift_time_in,omitempty"`
	ShiftTimeOut     string    `json:"shift_time_out,omitempty"`
	RequiredSeconds  int64     `json:"required_seconds"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Status           string    `json:"status"`
	QrCode           string    `json:"qr_code,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
} // @name InternResponse

// ListInternsResponse wraps a list of interns
type ListInternsResponse struct {
	Interns []InternResponse `json:"interns"`
	Total   int              `json:"total"`
} // @name ListInternsResponse
