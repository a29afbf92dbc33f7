package attendance

import "github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/errors"

// Domain-specific attendance errors
var (
	// Check-in/out errors
	ErrInternNotFound    = errors.New(errors.ErrCodeNotFound, "Intern not found")
	ErrAlreadyCheckedIn  = errors.New(errors.ErrCodeConflict, "An attendance record already exists for this shift")
	ErrNoOpenRecord      = errors.New(errors.ErrCodeNotFound, "No open attendance record found for this shift")
	ErrAlreadyCheckedOut = errors.New(errors.ErrCodeConflict, "Already checked out for this shift")
	ErrRecordNotFound    = errors.New(errors.ErrCodeNotFound, "Attendance record not found")
	ErrCheckOutBeforeIn  = errors.New(errors.ErrCodeBadRequest, "Check-out time cannot be before check-in time")
	ErrInternNotActive   = errors.New(errors.ErrCodeConflict, "Intern is no longer active")
)

// WrapAttendanceError wraps a generic error with context
func WrapAttendanceError(err error, message string) *errors.AppError {
	return errors.Wrap(err, errors.ErrCodeInternal, message)
}
