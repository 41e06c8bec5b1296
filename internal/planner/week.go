package planner

import (
	"fmt"
	"time"
)

// DateKeyLayout is the layout of meal plan date keys.
const DateKeyLayout = "2006-01-02"

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Day is one column of the week view.
type Day struct {
	Name    string
	Short   string
	DateKey string
	Date    time.Time
	IsToday bool
	IsPast  bool
}

// DateKey formats t's calendar date in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey validates a YYYY-MM-DD key.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// WeekStart returns midnight of the Monday of the ISO week containing today.
func WeekStart(today time.Time) time.Time {
	offset := (int(today.Weekday()) + 6) % 7
	y, m, d := today.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, today.Location())
}

// Week returns Monday through Sunday of the week containing today. today is
// passed in rather than read from the clock so callers control the boundary.
func Week(today time.Time) []Day {
	monday := WeekStart(today)
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	days := make([]Day, 0, len(weekdayNames))
	for i, name := range weekdayNames {
		date := monday.AddDate(0, 0, i)
		days = append(days, Day{
			Name:    name,
			Short:   name[:3],
			DateKey: DateKey(date),
			Date:    date,
			IsToday: date.Equal(midnight),
			IsPast:  date.Before(midnight),
		})
	}
	return days
}
