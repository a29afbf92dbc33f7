package attendance

import (
	"time"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/errors"
)

// ErrShiftNotConfigured is returned when a person has no scheduled time-in.
var ErrShiftNotConfigured = errors.New(errors.ErrCodeConfig, "Shift schedule not configured")

// Shift is a daily working window in a fixed timezone. A time-out
// earlier than the time-in denotes a shift crossing midnight.
type Shift struct {
	In  time.Time // wall-clock time of day; date component unused
	Out time.Time
	Loc *time.Location
}

// ParseShift builds a Shift from "15:04:05" wall-clock strings.
func ParseShift(timeIn, timeOut string, loc *time.Location) (Shift, error) {
	if timeIn == "" || timeOut == "" {
		return Shift{}, ErrShiftNotConfigured
	}
	in, err := time.Parse("15:04:05", timeIn)
	if err != nil {
		return Shift{}, errors.Wrap(err, errors.ErrCodeConfig, "Invalid scheduled time-in")
	}
	out, err := time.Parse("15:04:05", timeOut)
	if err != nil {
		return Shift{}, errors.Wrap(err, errors.ErrCodeConfig, "Invalid scheduled time-out")
	}
	return Shift{In: in, Out: out, Loc: loc}, nil
}

// Night reports whether the shift crosses midnight.
func (s Shift) Night() bool {
	return clockSeconds(s.Out) < clockSeconds(s.In)
}

// AttendanceDay resolves which calendar date the shift containing now
// belongs to. For a night shift, a moment before today's shift start
// belongs to the shift that began the previous day.
func (s Shift) AttendanceDay(now time.Time) time.Time {
	now = now.In(s.Loc)
	day := midnight(now)
	start := combine(day, s.In)
	if s.Night() && now.Before(start) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// Start returns the absolute shift start instant for an attendance day.
// Only the date components of day are used, so dates read back from the
// database (UTC midnights) resolve to the same calendar day.
func (s Shift) Start(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		s.In.Hour(), s.In.Minute(), s.In.Second(), 0, s.Loc)
}

// End returns the absolute shift end instant for an attendance day.
// Night shifts end on the following calendar date.
func (s Shift) End(day time.Time) time.Time {
	end := time.Date(day.Year(), day.Month(), day.Day(),
		s.Out.Hour(), s.Out.Minute(), s.Out.Second(), 0, s.Loc)
	if s.Night() {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

func clockSeconds(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func combine(day time.Time, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, day.Location())
}
