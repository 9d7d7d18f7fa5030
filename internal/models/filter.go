package models

import (
	"fmt"
	"strings"
)

// ViewMode selects which of the two routine views a filter addresses.
type ViewMode string

const (
	ViewStudent ViewMode = "STUDENT"
	ViewTeacher ViewMode = "TEACHER"
)

// FilterContext selects which timetable entries a grid view displays. It is
// the cache key and the fetch-query key. Construct through NewStudentFilter
// or NewTeacherFilter; both reject incomplete field sets so loosely-typed
// query payloads never leak past this boundary.
//
// In teacher mode Department and Semester identify the target class of an
// edited cell, since a teacher's weekly grid may span several departments.
type FilterContext struct {
	Mode       ViewMode `json:"mode"`
	Department string   `json:"department,omitempty"`
	Semester   int      `json:"semester,omitempty"`
	Shift      Shift    `json:"shift"`
	Session    string   `json:"session"`
	TeacherID  string   `json:"teacher_id,omitempty"`
}

// NewStudentFilter builds the department/semester/shift/session view context.
func NewStudentFilter(department string, semester int, shift Shift, session string) (FilterContext, error) {
	department = strings.TrimSpace(department)
	session = strings.TrimSpace(session)
	if department == "" {
		return FilterContext{}, fmt.Errorf("department is required")
	}
	if semester < 1 || semester > 8 {
		return FilterContext{}, fmt.Errorf("semester must be between 1 and 8, got %d", semester)
	}
	if !ValidShift(shift) {
		return FilterContext{}, fmt.Errorf("unknown shift %q", shift)
	}
	if session == "" {
		return FilterContext{}, fmt.Errorf("session is required")
	}
	return FilterContext{
		Mode:       ViewStudent,
		Department: department,
		Semester:   semester,
		Shift:      shift,
		Session:    session,
	}, nil
}

// NewTeacherFilter builds the teacher view context. Department and semester
// are optional here; teacher-mode edits supply them per cell.
func NewTeacherFilter(teacherID string, shift Shift, session string, department string, semester int) (FilterContext, error) {
	teacherID = strings.TrimSpace(teacherID)
	session = strings.TrimSpace(session)
	if teacherID == "" {
		return FilterContext{}, fmt.Errorf("teacher id is required")
	}
	if !ValidShift(shift) {
		return FilterContext{}, fmt.Errorf("unknown shift %q", shift)
	}
	if session == "" {
		return FilterContext{}, fmt.Errorf("session is required")
	}
	if semester != 0 && (semester < 1 || semester > 8) {
		return FilterContext{}, fmt.Errorf("semester must be between 1 and 8, got %d", semester)
	}
	return FilterContext{
		Mode:       ViewTeacher,
		Department: strings.TrimSpace(department),
		Semester:   semester,
		Shift:      shift,
		Session:    session,
		TeacherID:  teacherID,
	}, nil
}

// TargetsClass reports whether the filter names a concrete class
// (department and semester). Student filters always do; teacher filters only
// when the edit target was supplied, which creating entries requires.
func (f FilterContext) TargetsClass() bool {
	return f.Department != "" && f.Semester != 0
}

// PartialFilter matches cached filter contexts on a subset of fields. Zero
// fields are wildcards.
type PartialFilter struct {
	Department string
	Semester   int
	Shift      Shift
	Session    string
	TeacherID  string
}

// cacheKeyField renders one key segment; "-" stands for an unset field so
// keys stay positional and pattern-matchable.
func cacheKeyField(value string) string {
	if value == "" {
		return "-"
	}
	return strings.ReplaceAll(value, ":", "_")
}

// CacheKey serialises the filter into a canonical, order-stable key. Two
// contexts with the same field set always produce the same key regardless of
// how they were constructed.
func (f FilterContext) CacheKey() string {
	semester := "-"
	if f.Semester != 0 {
		semester = fmt.Sprintf("%d", f.Semester)
	}
	return fmt.Sprintf("routine:v1:dept=%s:sem=%s:shift=%s:session=%s:teacher=%s",
		cacheKeyField(f.Department),
		semester,
		cacheKeyField(string(f.Shift)),
		cacheKeyField(f.Session),
		cacheKeyField(f.TeacherID),
	)
}

// Pattern renders a glob matching every cache key whose set fields equal the
// partial filter's, regardless of the remaining fields.
func (p PartialFilter) Pattern() string {
	semester := "*"
	if p.Semester != 0 {
		semester = fmt.Sprintf("%d", p.Semester)
	}
	return fmt.Sprintf("routine:v1:dept=%s:sem=%s:shift=%s:session=%s:teacher=%s",
		patternField(p.Department),
		semester,
		patternField(string(p.Shift)),
		patternField(p.Session),
		patternField(p.TeacherID),
	)
}

func patternField(value string) string {
	if value == "" {
		return "*"
	}
	return strings.ReplaceAll(value, ":", "_")
}
