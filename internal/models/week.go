package models

import "time"

// WeekdayNames lists the tracker's weekday keys in display order. The work
// week starts on Friday, which is also the canonical week_start key.
var WeekdayNames = []string{
	"Friday",
	"Saturday",
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
}

// DateLayout is the canonical date format for week keys.
const DateLayout = "2006-01-02"

// TimestampLayout is the canonical UTC timestamp format used in row
// columns. Lexicographic order equals chronological order.
const TimestampLayout = "2006-01-02 15:04:05"

// DayEntry is one weekday's tracked content.
type DayEntry struct {
	Content string `json:"content"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Week is the decrypted weekly tracker payload. Day granularity exists only
// here, in memory: the whole week is stored as a single encrypted blob.
type Week struct {
	WeekStart string              `json:"week_start"`
	WeekEnd   string              `json:"week_end"`
	UpdatedAt string              `json:"updated_at"`
	Days      map[string]DayEntry `json:"days"`
}

// NewWeek returns an empty week for the given bounds with every weekday
// present.
func NewWeek(weekStart, weekEnd string) *Week {
	days := make(map[string]DayEntry, len(WeekdayNames))
	for _, d := range WeekdayNames {
		days[d] = DayEntry{}
	}
	return &Week{WeekStart: weekStart, WeekEnd: weekEnd, Days: days}
}

// Normalize ensures every weekday key exists so callers can index without
// presence checks.
func (w *Week) Normalize() {
	if w.Days == nil {
		w.Days = make(map[string]DayEntry, len(WeekdayNames))
	}
	for _, d := range WeekdayNames {
		if _, ok := w.Days[d]; !ok {
			w.Days[d] = DayEntry{}
		}
	}
}

// AppendToDay appends line to the named day's content, on its own line.
func (w *Week) AppendToDay(day, line string) {
	w.Normalize()
	entry := w.Days[day]
	if entry.Content == "" {
		entry.Content = line
	} else {
		entry.Content = entry.Content + "\n" + line
	}
	w.Days[day] = entry
}

// CurrentWeek returns the Friday-to-Thursday week containing t.
func CurrentWeek(t time.Time) (weekStart, weekEnd time.Time) {
	daysSinceFriday := (int(t.Weekday()) - int(time.Friday) + 7) % 7
	weekStart = t.AddDate(0, 0, -daysSinceFriday)
	weekEnd = weekStart.AddDate(0, 0, 6)
	return weekStart, weekEnd
}
