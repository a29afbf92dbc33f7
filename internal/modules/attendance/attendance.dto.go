package attendance

import (
	"time"
)

// CheckInRequest represents a check-in request
// @Description Check-in request for an intern
type CheckInRequest struct {
	InternID string `json:"intern_id" validate:"required,uuid"`
} // @name CheckInRequest

// CheckOutRequest represents a check-out request
// @Description Check-out request for an intern
type CheckOutRequest struct {
	InternID string `json:"intern_id" validate:"required,uuid"`
} // @name CheckOutRequest

// ScanRequest represents a QR scan toggle request
// @Description QR scan: checks in when no open record exists, checks out otherwise
type ScanRequest struct {
	QrCode string `json:"qr_code" validate:"required"`
} // @name ScanRequest

// AttendanceResponse represents an attendance record
// @Description Attendance record response
type AttendanceResponse struct {
	ID             string     `json:"id"`
	InternID       string     `json:"intern_id"`
	InternName     string     `json:"intern_name,omitempty"`
	SchoolName     string     `json:"school_name,omitempty"`
	AttendanceDate string     `json:"attendance_date"`
	TimeIn         *time.Time `json:"time_in,omitempty"`
	TimeOut        *time.Time `json:"time_out,omitempty"`
	ElapsedSeconds *int64     `json:"elapsed_seconds,omitempty"`
	Remark         string     `json:"remark,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	// RemainingSeconds is only reported on check-out, after settlement.
	RemainingSeconds *int64    `json:"remaining_seconds,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
} // @name AttendanceResponse

// ListAttendanceResponse wraps a list of attendance records
type ListAttendanceResponse struct {
	Records []AttendanceResponse `json:"records"`
	Total   int                  `json:"total"`
} // @name ListAttendanceResponse

// ManualAttendanceRequest for administrative attendance edits
type ManualAttendanceRequest struct {
	TimeIn  *time.Time `json:"time_in,omitempty"`
	TimeOut *time.Time `json:"time_out,omitempty" validate:"omitempty"`
	Remark  string     `json:"remark,omitempty" validate:"omitempty,oneof='Regular Hours' Late 'Early In' 'Early Out' Overtime Offset Holiday Absent 'Auto Timeout'"`
	Notes   string     `json:"notes,omitempty" validate:"omitempty,max=500"`
} // @name ManualAttendanceRequest

// SweepResponse reports the outcome of a timeout sweep run
type SweepResponse struct {
	ClosedCount int64 `json:"closed_count"`
} // @name SweepResponse

// AbsentResponse reports the outcome of an absence marking run
type AbsentResponse struct {
	MarkedCount int64 `json:"marked_count"`
} // @name AbsentResponse
