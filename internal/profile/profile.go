// Package profile stores user preferences under their own storage key.
// Older payloads used alias field names; a single versioned migration at
// load time produces one canonical shape, and no alias survives past it.
package profile

import (
	"encoding/json"
	"errors"

	"github.com/ritualapp/ritual/internal/kv"
	"github.com/ritualapp/ritual/internal/logger"
	"github.com/ritualapp/ritual/internal/models"
	"github.com/ritualapp/ritual/internal/motivation"
)

// Key is the storage key holding the preferences payload.
const Key = "ritual.prefs"

// Version is the current preferences payload version.
const Version = 2

// Prefs is the canonical preferences shape.
type Prefs struct {
	Name            string          `json:"name,omitempty"`
	Tone            motivation.Tone `json:"tone"`
	Timezone        string          `json:"timezone,omitempty"`
	DefaultReminder string          `json:"defaultReminder,omitempty"` // HH:mm
	EveningRecap    bool            `json:"eveningRecap"`
	Version         int             `json:"version"`
}

// Defaults returns the preferences a fresh install starts with.
func Defaults() Prefs {
	return Prefs{
		Tone:         motivation.ToneCoach,
		EveningRecap: true,
		Version:      Version,
	}
}

// rawPrefs accepts both the canonical fields and every legacy alias.
type rawPrefs struct {
	Name                string `json:"name"`
	Tone                string `json:"tone"`
	AITone              string `json:"aiTone"` // legacy alias for tone
	Timezone            string `json:"timezone"`
	DefaultReminder     string `json:"defaultReminder"`
	DefaultReminderTime string `json:"defaultReminderTime"` // legacy alias
	EveningRecap        *bool  `json:"eveningRecap"`
	EveningRecapEnabled *bool  `json:"eveningRecapEnabled"` // legacy alias
	Version             int    `json:"version"`
}

// Load reads preferences, migrating legacy payloads to the canonical shape.
// Missing or corrupt data degrades to defaults.
func Load(store kv.Store) Prefs {
	data, err := store.Get(Key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Error("failed to read preferences", "error", err)
		}
		return Defaults()
	}

	var raw rawPrefs
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("preferences payload is corrupt, using defaults", "error", err)
		return Defaults()
	}
	return migrate(raw)
}

func migrate(raw rawPrefs) Prefs {
	p := Defaults()
	p.Name = raw.Name
	p.Timezone = raw.Timezone

	tone := raw.Tone
	if tone == "" {
		tone = raw.AITone
	}
	switch motivation.Tone(tone) {
	case motivation.ToneCoach, motivation.ToneFriend, motivation.ToneZen:
		p.Tone = motivation.Tone(tone)
	}

	reminder := raw.DefaultReminder
	if reminder == "" {
		reminder = raw.DefaultReminderTime
	}
	if models.ValidRemindAt(reminder) {
		p.DefaultReminder = reminder
	}

	if raw.EveningRecap != nil {
		p.EveningRecap = *raw.EveningRecap
	} else if raw.EveningRecapEnabled != nil {
		p.EveningRecap = *raw.EveningRecapEnabled
	}

	return p
}

// Save writes the canonical shape.
func Save(store kv.Store, p Prefs) error {
	p.Version = Version
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return store.Set(Key, data)
}
