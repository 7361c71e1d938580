package motivation

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func baseContext() Context {
	return Context{
		Name:          "Sam",
		HabitName:     "Stretch",
		Streak:        2,
		Last3Outcomes: []bool{true, false, true},
		TimeOfDay:     Morning,
		Tone:          ToneCoach,
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	ctx := baseContext()
	first := Generate(ctx)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Generate(ctx))
	}
}

func TestGenerate_DistinctContextsMayDiffer(t *testing.T) {
	seen := map[string]struct{}{}
	ctx := baseContext()
	for streak := 0; streak < 6; streak++ {
		ctx.Streak = streak
		seen[Generate(ctx)] = struct{}{}
	}
	// Not a strict requirement on any single pair, but six contexts landing
	// on one template would mean selection ignores the context.
	assert.Greater(t, len(seen), 1)
}

func TestGenerate_HighStreakUsesHighStreakPool(t *testing.T) {
	for _, tone := range []Tone{ToneCoach, ToneFriend, ToneZen} {
		ctx := baseContext()
		ctx.Tone = tone
		ctx.Streak = 12

		rendered := make([]string, 0, 3)
		for _, tpl := range templates[tone][highStreak] {
			rendered = append(rendered, strings.ReplaceAll(tpl, "{streak}", strconv.Itoa(ctx.Streak)))
		}
		assert.Contains(t, rendered, Generate(ctx), "tone %s", tone)
	}
}

func TestGenerate_StrugglingOverridesStreakCategory(t *testing.T) {
	ctx := baseContext()
	ctx.Streak = 0
	ctx.Last3Outcomes = []bool{false, false, false}
	msg := Generate(ctx)

	assert.Contains(t, templates[ToneCoach][struggling], msg)
}

func TestGenerate_UnknownToneFallsBackToCoach(t *testing.T) {
	ctx := baseContext()
	ctx.Tone = Tone("pirate")
	assert.NotEmpty(t, Generate(ctx))
}

func TestGenerate_NoPlaceholderLeaks(t *testing.T) {
	ctx := baseContext()
	for streak := 0; streak < 15; streak++ {
		ctx.Streak = streak
		assert.NotContains(t, Generate(ctx), "{streak}")
	}
}

func TestTimeOfDayAt(t *testing.T) {
	tests := []struct {
		hour int
		want TimeOfDay
	}{
		{5, Morning},
		{11, Morning},
		{12, Afternoon},
		{16, Afternoon},
		{17, Evening},
		{21, Evening},
		{22, Night},
		{2, Night},
		{4, Night},
	}
	for _, tc := range tests {
		at := time.Date(2024, 1, 1, tc.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tc.want, TimeOfDayAt(at), "hour %d", tc.hour)
	}
}
