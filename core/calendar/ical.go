package calendar

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

var (
	timeLayouts  = []string{"3:04 PM", "3:04PM", "15:04"}
	eventSpan    = time.Hour
	icsProductID = "-//OneStop//Agenda//EN"

	// VEVENT has no completed status; completion is carried by an extension property.
	icsCompletedProperty = ical.ComponentProperty("X-ONESTOP-COMPLETED")
)

// ParseTime parses the free-text time of an entry on its day.
// ok is false when the time has no recognized layout.
func ParseTime(day, clock string, loc *time.Location) (t time.Time, ok bool) {
	d, err := time.ParseInLocation(DayLayout, day, loc)
	if err != nil {
		return time.Time{}, false
	}
	clock = strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range timeLayouts {
		if c, err := time.Parse(layout, clock); err == nil {
			return d.Add(time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute), true
		}
	}
	return d, false
}

// ExportICS renders entries as an iCalendar feed. Entries with a recognized time become one-hour events,
// the others all-day events. Entries with an invalid day are skipped.
func ExportICS(name string, entries []Entry, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetName(name)

	for _, e := range entries {
		start, timed := ParseTime(e.Day, e.Time, loc)
		if start.IsZero() {
			continue
		}

		event := cal.AddEvent(e.ID + "@" + e.UserID)
		event.SetDtStampTime(now)
		summary := e.Title
		if summary == "" {
			summary = e.Description
		}
		event.SetSummary(summary)
		if e.Description != "" {
			event.SetDescription(e.Description)
		}
		if e.Category != "" {
			event.SetProperty(ical.ComponentPropertyCategories, e.Category)
		}
		if e.Completed {
			event.SetProperty(icsCompletedProperty, "TRUE")
		}
		if timed {
			event.SetStartAt(start)
			event.SetEndAt(start.Add(eventSpan))
		} else {
			event.SetAllDayStartAt(start)
			event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		}
	}
	return cal.Serialize()
}
