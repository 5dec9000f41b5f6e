package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	cases := []struct {
		total int64
		want  int
	}{
		{-40, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{999, 4},
		{1000, 5},
		{9999, 9},
		{10000, 10},
		{1_000_000, 10},
	}
	for _, c := range cases {
		require.Equal(t, c.want, LevelFor(c.total), "total=%d", c.total)
	}
}

func TestLevelFor_MatchesThresholdDefinition(t *testing.T) {
	for total := int64(0); total <= 11000; total += 7 {
		want := 0
		for i, th := range LevelThresholds {
			if total >= th {
				want = i
			}
		}
		require.Equal(t, want+1, LevelFor(total))
	}
}

func TestNextThreshold(t *testing.T) {
	next, ok := NextThreshold(1)
	require.True(t, ok)
	require.Equal(t, int64(100), next)

	next, ok = NextThreshold(9)
	require.True(t, ok)
	require.Equal(t, int64(10000), next)

	_, ok = NextThreshold(10)
	require.False(t, ok)
}

func day(s string) time.Time {
	d, _ := time.Parse(dayLayout, s)
	return d
}

func TestNextStreak(t *testing.T) {
	cases := []struct {
		name            string
		last            string
		current, longst int
		on              string
		changed         bool
		wantCurrent     int
		wantLongest     int
	}{
		{"first activity", "", 0, 0, "2025-01-01", true, 1, 1},
		{"same day", "2025-01-01", 1, 1, "2025-01-01", false, 1, 1},
		{"next day", "2025-01-01", 1, 1, "2025-01-02", true, 2, 2},
		{"across month", "2025-01-31", 4, 9, "2025-02-01", true, 5, 9},
		{"gap resets", "2025-01-01", 5, 5, "2025-01-05", true, 1, 5},
		{"earlier day ignored", "2025-01-10", 3, 3, "2025-01-09", false, 3, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			step, err := nextStreak(c.last, c.current, c.longst, day(c.on))
			require.NoError(t, err)
			require.Equal(t, c.changed, step.changed)
			require.Equal(t, c.wantCurrent, step.current)
			require.Equal(t, c.wantLongest, step.longest)
		})
	}
}

func TestNextStreak_BadStoredDate(t *testing.T) {
	_, err := nextStreak("yesterday", 1, 1, day("2025-01-01"))
	require.Error(t, err)
}
