package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_Start(t *testing.T) {
	t.Parallel()

	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// 03:30 UTC on June 2nd is still June 1st in Chicago
	now := time.Date(2025, 6, 2, 3, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		window Window
		loc    *time.Location
		want   time.Time
	}{
		{name: "daily utc", window: WindowDaily, loc: time.UTC, want: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		{name: "daily nil location", window: WindowDaily, loc: nil, want: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		{name: "daily chicago", window: WindowDaily, loc: chicago, want: time.Date(2025, 6, 1, 0, 0, 0, 0, chicago)},
		{name: "weekly", window: WindowWeekly, loc: chicago, want: now.Add(-7 * 24 * time.Hour)},
		{name: "monthly", window: WindowMonthly, loc: time.UTC, want: now.Add(-30 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, tt.want.Equal(tt.window.Start(now, tt.loc)), "got %v", tt.window.Start(now, tt.loc))
		})
	}
}

func TestParseWindow(t *testing.T) {
	t.Parallel()

	w, err := ParseWindow("weekly")
	require.NoError(t, err)
	assert.Equal(t, WindowWeekly, w)

	_, err = ParseWindow("yearly")
	assert.Error(t, err)
}

func TestProfile_WinRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, (&Profile{}).WinRate())
	assert.Equal(t, 66, (&Profile{Wins: 2, Losses: 1, Voided: 4}).WinRate())
	assert.Equal(t, 100, (&Profile{Wins: 3}).WinRate())
}
