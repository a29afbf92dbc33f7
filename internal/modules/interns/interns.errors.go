package interns

import (
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/errors"
)

var (
	ErrInternNotFound = errors.New(errors.ErrCodeNotFound, "Intern not found")
	ErrDuplicateQr    = errors.New(errors.ErrCodeConflict, "QR code already assigned")
	ErrInvalidShift   = errors.New(errors.ErrCodeValidation, "Shift time-in and time-out must be set together")
)
