package features

import "time"

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Quarter returns the calendar quarter (1-4).
func Quarter(date time.Time) int {
	return (int(date.Month())-1)/3 + 1
}

// IsHuntingSeason reports whether the date falls in the September-December
// hunting window.
func IsHuntingSeason(date time.Time) bool {
	m := date.Month()
	return m >= time.September && m <= time.December
}

// IsHoliday reports whether the date is one of the retail-relevant
// holidays: New Year's Day, Independence Day, Thanksgiving, Black Friday
// or Christmas Day.
func IsHoliday(date time.Time) bool {
	switch {
	case date.Month() == time.January && date.Day() == 1:
		return true
	case date.Month() == time.July && date.Day() == 4:
		return true
	case date.Month() == time.December && date.Day() == 25:
		return true
	}
	tg := thanksgiving(date.Year())
	return sameDay(date, tg) || sameDay(date, tg.AddDate(0, 0, 1))
}

// thanksgiving returns the fourth Thursday of November.
func thanksgiving(year int) time.Time {
	d := time.Date(year, time.November, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Thursday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset+21)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
