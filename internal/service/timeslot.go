package service

import (
	"strconv"
	"strings"
	"time"

	appErrors "github.com/soumsmith/vie-ecole-gateway/pkg/errors"
)

// MinSlotMinutes is the shortest bookable slot.
const MinSlotMinutes = 15

// ValidateTimeRange checks a start/end pair of "HH:MM" values. Pure, no I/O.
func ValidateTimeRange(start, end string) error {
	if start == "" || end == "" {
		return appErrors.ErrMissingTime
	}

	startMin, ok := minutesOfDay(start)
	if !ok {
		return appErrors.Wrap(nil, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time "+strconv.Quote(start))
	}
	endMin, ok := minutesOfDay(end)
	if !ok {
		return appErrors.Wrap(nil, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time "+strconv.Quote(end))
	}

	if endMin <= startMin {
		return appErrors.ErrInvalidOrder
	}
	if endMin-startMin < MinSlotMinutes {
		return appErrors.ErrTooShort
	}
	return nil
}

// DeriveDay maps a calendar date to the timetable weekday id, Monday=1 through
// Saturday=6 with Sunday remapped to 7. Idempotent; callers recompute it on
// every date write and discard any conflicting externally supplied id.
func DeriveDay(t time.Time) int64 {
	wd := int64(t.Weekday()) // 0=Sunday .. 6=Saturday
	if wd == 0 {
		return 7
	}
	return wd
}

// DurationMinutes converts an "HH:MM" picker value to total minutes. Malformed
// input yields 0, matching how the pickers surface an unset duration.
func DurationMinutes(hhmm string) int {
	m, ok := minutesOfDay(hhmm)
	if !ok {
		return 0
	}
	return m
}

func minutesOfDay(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
