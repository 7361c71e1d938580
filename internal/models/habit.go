package models

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HabitType classifies what area of life a habit belongs to.
type HabitType string

const (
	HabitTypeHealth HabitType = "health"
	HabitTypeMind   HabitType = "mind"
	HabitTypeCustom HabitType = "custom"
)

// Frequency describes how often a habit is expected to be done.
type Frequency string

const (
	FreqDaily  Frequency = "daily"
	FreqWeekly Frequency = "weekly"
	FreqCustom Frequency = "custom"
)

// Habit represents a recurring practice to track.
type Habit struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          HabitType `json:"type"`
	Freq          Frequency `json:"freq"`
	TargetPerWeek int       `json:"targetPerWeek,omitempty"`
	RemindAt      string    `json:"remindAt,omitempty"` // HH:mm, empty means no reminder
	CreatedAt     int64     `json:"createdAt"`          // epoch milliseconds
	Archived      bool      `json:"archived,omitempty"`
}

// Log represents a single day's completion state for one habit.
type Log struct {
	ID        string `json:"id"`
	HabitID   string `json:"habitId"`
	Date      string `json:"date"` // YYYY-MM-DD
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"` // epoch milliseconds, ordering tie-breaker only
}

// Snapshot is the full persisted unit: everything the store owns.
type Snapshot struct {
	Habits  []Habit `json:"habits"`
	Logs    []Log   `json:"logs"`
	Version int     `json:"version"`
}

// SnapshotVersion is the current persisted snapshot format version.
const SnapshotVersion = 1

var remindAtPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidRemindAt reports whether s is a canonical HH:mm 24-hour time.
func ValidRemindAt(s string) bool {
	return remindAtPattern.MatchString(s)
}

// HabitInput carries the user-supplied fields for creating a habit.
type HabitInput struct {
	Name          string
	Type          HabitType
	Freq          Frequency
	TargetPerWeek int
	RemindAt      string
}

// Validate checks the input against the field contracts: name 2-60 chars,
// enum membership for type and freq, optional RemindAt in HH:mm.
func (in HabitInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(2, 60)),
		validation.Field(&in.Type, validation.Required,
			validation.In(HabitTypeHealth, HabitTypeMind, HabitTypeCustom)),
		validation.Field(&in.Freq, validation.Required,
			validation.In(FreqDaily, FreqWeekly, FreqCustom)),
		validation.Field(&in.TargetPerWeek, validation.Min(0)),
		validation.Field(&in.RemindAt,
			validation.When(in.RemindAt != "", validation.Match(remindAtPattern).Error("must be HH:mm"))),
	)
}
