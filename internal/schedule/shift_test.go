package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftHours(t *testing.T) {
	tests := []struct {
		span  string
		hours float64
	}{
		{"9-17", 8},
		{"09:00-17:00", 8},
		{"9-21(p)", 12},
		{"9-21(р)", 12},
		{"10 - 22", 12},
		{"22-6", 8},  // overnight wrap
		{"17-2", 9},  // overnight wrap
		{"0-24", 24},
		{"9-9", 0}, // zero duration, kept not skipped
		{"9:30-17:30", 8},
	}
	for _, tt := range tests {
		t.Run(tt.span, func(t *testing.T) {
			hours, ok := ShiftHours(tt.span)
			require.True(t, ok)
			assert.Equal(t, tt.hours, hours)
			assert.GreaterOrEqual(t, hours, 0.0)
			assert.LessOrEqual(t, hours, 24.0)
		})
	}
}

func TestShiftHoursRange(t *testing.T) {
	// Every H-H pair stays within [0, 24].
	for start := 0; start < 24; start++ {
		for end := 0; end < 24; end++ {
			span := fmt.Sprintf("%d-%d", start, end)
			hours, ok := ShiftHours(span)
			require.True(t, ok, span)
			assert.GreaterOrEqual(t, hours, 0.0, span)
			assert.LessOrEqual(t, hours, 24.0, span)
		}
	}
}

func TestShiftHoursMalformed(t *testing.T) {
	for _, span := range []string{"", "9", "выходной", "-17", "a-b"} {
		_, ok := ShiftHours(span)
		assert.False(t, ok, span)
	}
}

func TestStartTime(t *testing.T) {
	tests := []struct {
		span   string
		hour   int
		minute int
	}{
		{"9-17", 9, 0},
		{"09:00-17:00", 9, 0},
		{"9:30-17", 9, 30},
		{"22-6", 22, 0},
		{"9-21(p)", 9, 0},
	}
	for _, tt := range tests {
		h, m, ok := StartTime(tt.span)
		require.True(t, ok, tt.span)
		assert.Equal(t, tt.hour, h, tt.span)
		assert.Equal(t, tt.minute, m, tt.span)
	}

	_, _, ok := StartTime("отпуск")
	assert.False(t, ok)
}

func TestParseShortDate(t *testing.T) {
	day, month, ok := parseShortDate("24.11")
	require.True(t, ok)
	assert.Equal(t, 24, day)
	assert.Equal(t, 11, month)

	day, month, ok = parseShortDate("01.02.2026")
	require.True(t, ok)
	assert.Equal(t, 1, day)
	assert.Equal(t, 2, month)

	for _, s := range []string{"", "пн", "32.11", "24.13", "24"} {
		_, _, ok := parseShortDate(s)
		assert.False(t, ok, s)
	}
}
