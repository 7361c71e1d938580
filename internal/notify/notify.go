// Package notify is the reminder-scheduling collaborator. The habit store
// issues fire-and-forget commands to it and never learns more than "a
// schedule exists" vs "none"; scheduling failures must not affect store state.
package notify

import (
	"fmt"
	"strconv"
	"strings"
)

// Scheduler is the interface the habit store drives.
type Scheduler interface {
	// ScheduleDaily registers a daily reminder for a habit at HH:mm in tz
	// and returns an opaque schedule handle.
	ScheduleDaily(habitID, hhmm, tz string) (string, error)
	// CancelScheduled removes any reminder for the habit.
	CancelScheduled(habitID string) error
}

// Quiet hours: reminders requested between QuietStartHour and QuietEndHour
// are shifted to QuietEndHour:00 so nothing fires overnight.
const (
	QuietStartHour = 22
	QuietEndHour   = 7
)

// ClampQuietHours returns the effective reminder time for a requested HH:mm.
func ClampQuietHours(hhmm string) (string, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid reminder time %q", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid reminder time %q", hhmm)
	}
	if _, err := strconv.Atoi(parts[1]); err != nil {
		return "", fmt.Errorf("invalid reminder time %q", hhmm)
	}
	if hour >= QuietStartHour || hour < QuietEndHour {
		return fmt.Sprintf("%02d:00", QuietEndHour), nil
	}
	return hhmm, nil
}

// The evening recap is a daily summary notification not tied to any habit;
// it occupies its own id in the scheduler's namespace.
const (
	RecapID          = "evening-recap"
	DefaultRecapTime = "21:00"
)

// SyncRecap brings the scheduled evening recap in line with the preference:
// enabled schedules (or reschedules) it, disabled cancels it.
func SyncRecap(sched Scheduler, enabled bool, tz string) error {
	if !enabled {
		return sched.CancelScheduled(RecapID)
	}
	_, err := sched.ScheduleDaily(RecapID, DefaultRecapTime, tz)
	return err
}

// NopScheduler ignores every command. Used headless and in tests.
type NopScheduler struct{}

func (NopScheduler) ScheduleDaily(habitID, hhmm, tz string) (string, error) { return "", nil }
func (NopScheduler) CancelScheduled(habitID string) error                   { return nil }
