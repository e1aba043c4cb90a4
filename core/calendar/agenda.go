package calendar

import "sort"

// Marker colors per category
const (
	ColorGrades       = "red"
	ColorAnnouncement = "yellow"
	ColorAssignment   = "green"
	ColorDefault      = "blue"
)

type (
	// AgendaDay holds the entries of a single day, in store order.
	AgendaDay struct {
		Day     string  `json:"day"`
		Entries []Entry `json:"entries"`
	}

	Dot struct {
		Key   string `json:"key"`
		Color string `json:"color"`
	}

	// DayMarks is the marker of a day on a month view: one dot per entry.
	DayMarks struct {
		Marked bool  `json:"marked"`
		Dots   []Dot `json:"dots"`
	}
)

// CategoryColor returns the marker color of a category.
func CategoryColor(category string) string {
	switch category {
	case CategoryGrades:
		return ColorGrades
	case CategoryAnnouncement:
		return ColorAnnouncement
	case CategoryAssignment:
		return ColorAssignment
	default:
		return ColorDefault
	}
}

// GroupByDay groups entries by day. Days are sorted in ascending order and
// entries keep their relative order within a day.
func GroupByDay(entries []Entry) []AgendaDay {
	byDay := make(map[string][]Entry)
	days := make([]string, 0)
	for _, e := range entries {
		if _, ok := byDay[e.Day]; !ok {
			days = append(days, e.Day)
		}
		byDay[e.Day] = append(byDay[e.Day], e)
	}
	sort.Strings(days)

	agenda := make([]AgendaDay, 0, len(days))
	for _, day := range days {
		agenda = append(agenda, AgendaDay{Day: day, Entries: byDay[day]})
	}
	return agenda
}

// MarkDates builds the day markers of entries, keyed by day.
func MarkDates(entries []Entry) map[string]DayMarks {
	marks := make(map[string]DayMarks)
	for _, e := range entries {
		m := marks[e.Day]
		m.Marked = true
		m.Dots = append(m.Dots, Dot{Key: e.ID, Color: CategoryColor(e.Category)})
		marks[e.Day] = m
	}
	return marks
}
