package chrono

import "time"

// DateLayout is the canonical date format used by the portal in week
// identifiers and by the API in structured output.
const DateLayout = "2006-01-02"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Minsk")
	if err != nil {
		panic(err)
	}
}

// force timezone to be the portal's because our servers may end up in
// another region which will cause disturbances when manipulating dates
// based on <time.Time>.Year()/Month()/Day()/...
func Now() time.Time {
	return time.Now().In(Location)
}

// ParseDate parses a canonical YYYY-MM-DD string into a midnight
// timestamp pinned to the portal timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, Location)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekStart returns the Monday on or before t, truncated to midnight.
// Monday is the start of the week, per ISO convention.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
