// Package motivation generates short encouragement messages from on-device
// templates. Generation is a pure function of the context: the same context
// always yields the same message, no network and no model involved.
package motivation

import (
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// Tone selects the voice the message is written in.
type Tone string

const (
	ToneCoach  Tone = "coach"
	ToneFriend Tone = "friend"
	ToneZen    Tone = "zen"
)

// TimeOfDay buckets the clock into four coarse periods.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// Context is everything the generator may condition on.
type Context struct {
	Name          string
	HabitName     string
	Streak        int
	Last3Outcomes []bool
	TimeOfDay     TimeOfDay
	Tone          Tone
}

type category int

const (
	lowStreak category = iota
	highStreak
	struggling
)

// Streaks of a week or more get the highStreak voice; three straight misses
// get the struggling one.
const highStreakThreshold = 7

var templates = map[Tone]map[category][]string{
	ToneCoach: {
		highStreak: {
			"{streak} days strong! You're building momentum. Keep this habit as your anchor.",
			"Impressive {streak}-day streak! You're proving consistency beats perfection.",
			"{streak} consecutive days! You're creating a new normal. Stay the course.",
		},
		lowStreak: {
			"Every streak starts with day one. Let's make today count.",
			"Small steps, big changes. Today is your fresh start.",
			"You've got this. Focus on today, not yesterday's missed opportunities.",
		},
		struggling: {
			"Progress isn't linear. What's one small thing you can do right now?",
			"Setbacks happen. The key is getting back up. You're stronger than you think.",
			"Remember why you started. Every attempt builds resilience.",
		},
	},
	ToneFriend: {
		highStreak: {
			"Wow, {streak} days! You're absolutely crushing it!",
			"{streak} days in a row? You're on fire! Keep it up!",
			"Look at you go! {streak} days strong, you're unstoppable!",
		},
		lowStreak: {
			"Hey, we all start somewhere! Today's a new day.",
			"Don't worry about the past. Let's focus on today together!",
			"You've got this! I believe in you.",
		},
		struggling: {
			"It's okay to have off days. Tomorrow's a fresh start!",
			"You're doing great, even if it doesn't feel like it right now.",
			"Remember, progress isn't always visible. You're growing stronger!",
		},
	},
	ToneZen: {
		highStreak: {
			"{streak} days of mindful practice. You're cultivating presence.",
			"Your consistency reflects inner discipline. Peace comes from small, daily choices.",
			"{streak} days of gentle commitment. You're finding your rhythm.",
		},
		lowStreak: {
			"Each moment is a new beginning. Breathe and start fresh.",
			"Peace comes from accepting where you are and moving forward gently.",
			"Mindfulness is a practice, not perfection. Begin again.",
		},
		struggling: {
			"In stillness, find your strength. Every breath is a new opportunity.",
			"Embrace the journey, including its challenges. Growth happens in the valleys too.",
			"Be gentle with yourself. Progress is measured in awareness, not just actions.",
		},
	},
}

var habitTips = map[string][]string{
	"Water": {
		"Keep a bottle visible, out of sight is out of mind.",
		"Set phone reminders or tie it to an existing routine.",
		"Drink before each meal or activity transition.",
	},
	"Walk": {
		"Start with just 5 minutes, it adds up.",
		"Walk during phone calls or while listening to podcasts.",
		"Make it social: invite a friend or family member.",
	},
	"Breathe": {
		"Use the 4-7-8 technique: inhale 4, hold 7, exhale 8.",
		"Practice during transitions between activities.",
		"Set a gentle reminder on your phone.",
	},
}

// Generate produces the message for a context. Selection hashes the whole
// context, so distinct contexts spread over the template pool while repeated
// calls with the same context stay stable.
func Generate(ctx Context) string {
	tone := ctx.Tone
	if _, ok := templates[tone]; !ok {
		tone = ToneCoach
	}

	cat := lowStreak
	if ctx.Streak >= highStreakThreshold {
		cat = highStreak
	}
	if len(ctx.Last3Outcomes) > 0 {
		missedAll := true
		for _, done := range ctx.Last3Outcomes {
			if done {
				missedAll = false
				break
			}
		}
		if missedAll {
			cat = struggling
		}
	}

	pool := templates[tone][cat]
	h, err := hashstructure.Hash(ctx, hashstructure.FormatV2, nil)
	if err != nil {
		h = 0
	}
	msg := strings.ReplaceAll(pool[h%uint64(len(pool))], "{streak}", strconv.Itoa(ctx.Streak))

	if tips, ok := habitTips[ctx.HabitName]; ok && h%10 < 3 {
		msg += " " + tips[(h/10)%uint64(len(tips))]
	}
	return msg
}

// TimeOfDayAt buckets a wall-clock instant.
func TimeOfDayAt(t time.Time) TimeOfDay {
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}
