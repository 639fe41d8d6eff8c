package render

import (
	"time"

	"github.com/xeonx/timeago"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

// adminAges renders day granularity ages for the admin table.
var adminAges = timeago.Config{
	PastSuffix:   " ago",
	FutureSuffix: " from now",
	Periods: []timeago.FormatPeriod{
		{D: day, One: "1 day", Many: "%d days"},
		{D: week, One: "1 week", Many: "%d weeks"},
		{D: month, One: "1 month", Many: "%d months"},
	},
	Zero:          "Today",
	Max:           100 * 365 * day,
	DefaultLayout: "Jan 2, 2006",
}

// userAges renders the compact ages of user cards. Anything older than a week
// falls back to a date.
var userAges = timeago.Config{
	PastSuffix:   " ago",
	FutureSuffix: " from now",
	Periods: []timeago.FormatPeriod{
		{D: time.Minute, One: "1m", Many: "%dm"},
		{D: time.Hour, One: "1h", Many: "%dh"},
		{D: day, One: "1d", Many: "%dd"},
	},
	Zero:          "Just now",
	Max:           week,
	DefaultLayout: "Jan 2, 2006 03:04 PM",
}

// AdminAge formats the age of t relative to now as "Today", "N days ago",
// "N weeks ago" or "N months ago".
func AdminAge(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if d := now.Sub(t); d < day && d > -day {
		return "Today"
	}
	return adminAges.FormatReference(t, now)
}

// UserAge formats the age of t relative to now as "Just now", "Nm ago",
// "Nh ago", "Nd ago", or the creation date once older than a week.
func UserAge(t, now time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d >= week:
		return t.In(loc).Format(userAges.DefaultLayout)
	}
	return userAges.FormatReference(t, now)
}
