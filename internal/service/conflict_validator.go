package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/poly-routine-api/internal/models"
)

const (
	subjectMinLen = 2
	subjectMaxLen = 100
	roomMaxLen    = 50
)

// ConflictValidator checks a candidate class-slot assignment against the
// current set of entries before submission. It is a fast-fail gate; the
// batch persister re-checks at apply time and remains the source of truth
// for conflicts created concurrently by other operators.
type ConflictValidator struct{}

// Validate returns every violation found for assigning candidate to
// (day, slot) under the given filter context. An empty candidate is always
// valid; clearing a cell is a delete, not an assignment.
func (ConflictValidator) Validate(candidate models.ClassSlot, day, slot string, filter models.FilterContext, entries []models.TimetableEntry) models.ValidationResult {
	var result models.ValidationResult
	if candidate.IsEmpty() {
		return result
	}

	checkFields(candidate, &result)

	for i := range entries {
		existing := &entries[i]
		if !existing.IsActive {
			continue
		}
		if isReplacedEntry(*existing, filter, day, slot) {
			continue
		}
		if existing.DayOfWeek != day || existing.TimeSlot != slot {
			continue
		}

		// Room double-booking only matters within the same shift; different
		// shifts occupy the room at different hours.
		if existing.Shift == filter.Shift &&
			candidate.Room != "" &&
			strings.EqualFold(existing.Room, candidate.Room) &&
			!sameClass(*existing, filter) {
			result.Add(models.Violation{
				Kind:     models.ViolationRoomConflict,
				Field:    "room",
				Message:  fmt.Sprintf("room %s is already booked on %s %s by %s semester %d", candidate.Room, day, slot, existing.Department, existing.Semester),
				Existing: existing,
			})
		}

		// Teachers cannot be in two places at once regardless of shift.
		// Unassigned (TBA) slots never conflict.
		if candidate.TeacherID != "" && existing.TeacherID == candidate.TeacherID {
			result.Add(models.Violation{
				Kind:     models.ViolationTeacherConflict,
				Field:    "teacher_id",
				Message:  fmt.Sprintf("teacher is already scheduled on %s %s for %s semester %d", day, slot, existing.Department, existing.Semester),
				Existing: existing,
			})
		}
	}

	return result
}

func checkFields(candidate models.ClassSlot, result *models.ValidationResult) {
	if n := len(candidate.Subject); n < subjectMinLen || n > subjectMaxLen {
		result.Add(models.Violation{
			Kind:    models.ViolationFieldInvalid,
			Field:   "subject",
			Message: fmt.Sprintf("subject name must be between %d and %d characters", subjectMinLen, subjectMaxLen),
		})
	}
	if candidate.SubjectCode == "" {
		result.Add(models.Violation{
			Kind:    models.ViolationFieldInvalid,
			Field:   "subject_code",
			Message: "subject code is required",
		})
	}
	if candidate.ClassType == models.ClassTypeLab && candidate.LabName == "" {
		result.Add(models.Violation{
			Kind:    models.ViolationFieldInvalid,
			Field:   "lab_name",
			Message: "lab name is required for lab classes",
		})
	}
	if n := len(candidate.Room); n > roomMaxLen {
		result.Add(models.Violation{
			Kind:    models.ViolationFieldInvalid,
			Field:   "room",
			Message: fmt.Sprintf("room must be at most %d characters", roomMaxLen),
		})
	}
}

// isReplacedEntry reports whether existing is the entry the edit at
// (day, slot) replaces; a cell never conflicts with its own previous value.
func isReplacedEntry(existing models.TimetableEntry, filter models.FilterContext, day, slot string) bool {
	if existing.DayOfWeek != day || existing.TimeSlot != slot {
		return false
	}
	if existing.Shift != filter.Shift || existing.Session != filter.Session {
		return false
	}
	if filter.Mode == models.ViewTeacher {
		return existing.TeacherID != "" && existing.TeacherID == filter.TeacherID
	}
	return existing.Department == filter.Department && existing.Semester == filter.Semester
}

// sameClass reports whether the entry belongs to the class the filter (or
// the teacher-mode edit target) addresses.
func sameClass(existing models.TimetableEntry, filter models.FilterContext) bool {
	if filter.Department == "" || filter.Semester == 0 {
		return false
	}
	return existing.Department == filter.Department && existing.Semester == filter.Semester
}
