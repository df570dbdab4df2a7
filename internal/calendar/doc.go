// Package calendar reads venue iCalendar feeds and exports stored shows as
// an .ics file.
package calendar
