package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentWeek_FridayBased(t *testing.T) {
	tests := []struct {
		name      string
		today     string
		wantStart string
		wantEnd   string
	}{
		{"friday is its own week start", "2025-01-10", "2025-01-10", "2025-01-16"},
		{"saturday", "2025-01-11", "2025-01-10", "2025-01-16"},
		{"sunday", "2025-01-12", "2025-01-10", "2025-01-16"},
		{"monday", "2025-01-13", "2025-01-10", "2025-01-16"},
		{"thursday ends the week", "2025-01-16", "2025-01-10", "2025-01-16"},
		{"next friday rolls over", "2025-01-17", "2025-01-17", "2025-01-23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today, err := time.Parse(DateLayout, tt.today)
			assert.NoError(t, err)

			start, end := CurrentWeek(today)
			assert.Equal(t, tt.wantStart, start.Format(DateLayout))
			assert.Equal(t, tt.wantEnd, end.Format(DateLayout))
		})
	}
}

func TestWeek_AppendToDay(t *testing.T) {
	w := NewWeek("2025-01-10", "2025-01-16")

	w.AppendToDay("Monday", "[TODO] order badge")
	assert.Equal(t, "[TODO] order badge", w.Days["Monday"].Content)

	w.AppendToDay("Monday", "[TODO] schedule NEO")
	assert.Equal(t, "[TODO] order badge\n[TODO] schedule NEO", w.Days["Monday"].Content)
}

func TestWeek_NormalizeFillsAllDays(t *testing.T) {
	w := &Week{WeekStart: "2025-01-10", WeekEnd: "2025-01-16"}
	w.Normalize()

	assert.Len(t, w.Days, len(WeekdayNames))
	for _, d := range WeekdayNames {
		assert.Contains(t, w.Days, d)
	}
}

func TestSensitiveInfo_IsZero(t *testing.T) {
	assert.True(t, SensitiveInfo{}.IsZero())
	assert.False(t, SensitiveInfo{SSN: "000-00-0000"}.IsZero())
}
