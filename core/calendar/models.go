package calendar

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/onestop/core"
)

// Categories
const (
	CategoryAnnouncement = "ANNOUNCEMENT"
	CategoryAssignment   = "ASSIGNMENT"
	CategoryGrades       = "GRADES"
)

var AllCategories = []string{CategoryAnnouncement, CategoryAssignment, CategoryGrades}

// DayLayout is the layout of Entry.Day.
const DayLayout = "2006-01-02"

type Entry struct {
	ID            string `json:"id" yaml:"id"`
	UserID        string `json:"user_id" yaml:"user_id"`
	Day           string `json:"day" yaml:"day"`   // YYYY-MM-DD
	Time          string `json:"time" yaml:"time"` // free text, e.g. "10:00 AM"
	Title         string `json:"title" yaml:"title"`
	Description   string `json:"description" yaml:"description"`
	Category      string `json:"calendar_entry_category" yaml:"calendar_entry_category"`
	PushNotified  bool   `json:"push_notified" yaml:"push_notified"`
	Completed     bool   `json:"completed" yaml:"completed"`
	CompletedTime string `json:"completed_time,omitempty" yaml:"completed_time,omitempty"`
}

// Complete moves the entry to the completed state.
func (e *Entry) Complete(completedTime string) {
	e.Completed = true
	e.CompletedTime = completedTime
}

// Uncomplete moves the entry back to the active state. PushNotified is kept.
func (e *Entry) Uncomplete() {
	e.Completed = false
	e.CompletedTime = ""
}

// NewEntry contains information needed to add an Entry.
type NewEntry struct {
	ID          string `json:"id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	Day         string `json:"day" validate:"required"`
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"calendar_entry_category" validate:"omitempty,category"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.ID = core.CleanString(ne.ID)
	ne.UserID = core.CleanString(ne.UserID)
	ne.Day = core.CleanString(ne.Day)
	ne.Time = core.CleanString(ne.Time)
	return validate.Struct(ne)
}

func (ne NewEntry) Entry() Entry {
	return Entry{
		ID:          ne.ID,
		UserID:      ne.UserID,
		Day:         ne.Day,
		Time:        ne.Time,
		Title:       ne.Title,
		Description: ne.Description,
		Category:    ne.Category,
	}
}

// UpdateEntry defines what information may be provided to modify an existing Entry.
// Nil fields are left untouched.
type UpdateEntry struct {
	Day         *string `json:"day" validate:"omitempty,notblank"`
	Time        *string `json:"time"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"calendar_entry_category" validate:"omitempty,category"`
}

func (ue *UpdateEntry) Validate(validate *validator.Validate) error {
	return validate.Struct(ue)
}

func (ue UpdateEntry) IsEmpty() bool {
	return ue.Day == nil && ue.Time == nil && ue.Title == nil && ue.Description == nil && ue.Category == nil
}

// Apply merges the provided fields into e.
func (ue UpdateEntry) Apply(e *Entry) {
	if ue.Day != nil {
		e.Day = core.CleanString(*ue.Day)
	}
	if ue.Time != nil {
		e.Time = core.CleanString(*ue.Time)
	}
	if ue.Title != nil {
		e.Title = *ue.Title
	}
	if ue.Description != nil {
		e.Description = *ue.Description
	}
	if ue.Category != nil {
		e.Category = *ue.Category
	}
}

type QueryFilter struct {
	UserID       string `query:"user_id"`
	Day          string `query:"day"`
	Category     string `query:"category"`
	Completed    *bool  `query:"completed"`
	PushNotified *bool  `query:"push_notified"`
}

func (qf *QueryFilter) Clean() {
	qf.UserID = core.CleanString(qf.UserID)
	qf.Day = core.CleanString(qf.Day)
	qf.Category = core.CleanString(qf.Category)
}

func (qf QueryFilter) Match(e Entry) bool {
	return (qf.UserID == "" || e.UserID == qf.UserID) &&
		(qf.Day == "" || e.Day == qf.Day) &&
		(qf.Category == "" || e.Category == qf.Category) &&
		(qf.Completed == nil || e.Completed == *qf.Completed) &&
		(qf.PushNotified == nil || e.PushNotified == *qf.PushNotified)
}
