package models

import "time"

// Shift identifies a named daily session with its own slot catalog.
type Shift string

const (
	ShiftMorning Shift = "MORNING"
	ShiftDay     Shift = "DAY"
	ShiftEvening Shift = "EVENING"
)

// ClassType distinguishes theory periods from lab periods.
type ClassType string

const (
	ClassTypeTheory ClassType = "THEORY"
	ClassTypeLab    ClassType = "LAB"
)

// daysOfWeek is the institution's five-day teaching week, in display order.
var daysOfWeek = []string{"SATURDAY", "SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY"}

// shiftSlots maps each shift to its fixed, ordered time-slot labels.
// Evening is a valid shift value but has no slots defined; its grid is
// always empty until the institution publishes an evening slot plan.
var shiftSlots = map[Shift][]string{
	ShiftMorning: {
		"8:00-8:45",
		"8:45-9:30",
		"9:30-10:15",
		"10:15-11:00",
		"11:00-11:45",
		"11:45-12:30",
		"12:30-1:15",
	},
	ShiftDay: {
		"1:30-2:15",
		"2:15-3:00",
		"3:00-3:45",
		"3:45-4:30",
		"4:30-5:15",
		"5:15-6:00",
		"6:00-6:45",
	},
	ShiftEvening: {},
}

// DaysOfWeek returns the ordered teaching weekdays.
func DaysOfWeek() []string {
	out := make([]string, len(daysOfWeek))
	copy(out, daysOfWeek)
	return out
}

// SlotsFor returns the ordered time-slot labels for a shift. Unknown shifts
// behave like Evening: no slots.
func SlotsFor(shift Shift) []string {
	slots := shiftSlots[shift]
	out := make([]string, len(slots))
	copy(out, slots)
	return out
}

// ValidShift reports whether the value is one of the known shifts.
func ValidShift(shift Shift) bool {
	switch shift {
	case ShiftMorning, ShiftDay, ShiftEvening:
		return true
	}
	return false
}

// ValidDay reports whether the label is a teaching weekday.
func ValidDay(day string) bool {
	for _, d := range daysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// TimetableEntry is the canonical, server-owned routine record. TeacherID is
// empty for slots whose teacher is still to be announced. Rows are never
// hard-deleted; IsActive is the soft-delete flag.
type TimetableEntry struct {
	ID          string    `db:"id" json:"id"`
	Department  string    `db:"department" json:"department"`
	Semester    int       `db:"semester" json:"semester"`
	Shift       Shift     `db:"shift" json:"shift"`
	Session     string    `db:"session" json:"session"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	TimeSlot    string    `db:"time_slot" json:"time_slot"`
	SubjectName string    `db:"subject_name" json:"subject_name"`
	SubjectCode string    `db:"subject_code" json:"subject_code"`
	ClassType   ClassType `db:"class_type" json:"class_type"`
	LabName     string    `db:"lab_name" json:"lab_name,omitempty"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id,omitempty"`
	TeacherName string    `db:"teacher_name" json:"teacher_name,omitempty"`
	Room        string    `db:"room" json:"room,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Slot extracts the presentation payload of an entry.
func (e TimetableEntry) Slot() ClassSlot {
	return ClassSlot{
		Subject:     e.SubjectName,
		SubjectCode: e.SubjectCode,
		ClassType:   e.ClassType,
		LabName:     e.LabName,
		Teacher:     e.TeacherName,
		TeacherID:   e.TeacherID,
		Room:        e.Room,
	}
}
