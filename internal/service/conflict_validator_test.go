package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/poly-routine-api/internal/models"
)

func validCandidate() models.ClassSlot {
	return models.ClassSlot{
		Subject:     "Mathematics",
		SubjectCode: "MATH-101",
		ClassType:   models.ClassTypeTheory,
		TeacherID:   "T1",
		Teacher:     "A. Rahman",
		Room:        "101",
	}
}

func otherDeptEntry() models.TimetableEntry {
	return models.TimetableEntry{
		ID:          "e-other",
		Department:  "Electrical",
		Semester:    2,
		Shift:       models.ShiftMorning,
		Session:     "2024-25",
		DayOfWeek:   "MONDAY",
		TimeSlot:    "9:30-10:15",
		SubjectName: "Circuits",
		SubjectCode: "EEE-101",
		ClassType:   models.ClassTypeTheory,
		TeacherID:   "T1",
		TeacherName: "A. Rahman",
		Room:        "205",
		IsActive:    true,
	}
}

func violationKinds(result models.ValidationResult) []models.ViolationKind {
	kinds := make([]models.ViolationKind, 0, len(result.Violations))
	for _, v := range result.Violations {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}

func TestValidateEmptyCandidateIsAlwaysValid(t *testing.T) {
	var v ConflictValidator
	result := v.Validate(models.ClassSlot{}, "MONDAY", "9:30-10:15", studentFilter(t), []models.TimetableEntry{otherDeptEntry()})
	assert.True(t, result.OK())
}

func TestValidateTeacherConflictAcrossDepartments(t *testing.T) {
	var v ConflictValidator
	existing := otherDeptEntry()

	result := v.Validate(validCandidate(), "MONDAY", "9:30-10:15", studentFilter(t), []models.TimetableEntry{existing})
	require.False(t, result.OK())
	require.Len(t, result.Violations, 1)
	violation := result.Violations[0]
	assert.Equal(t, models.ViolationTeacherConflict, violation.Kind)
	assert.Equal(t, "teacher_id", violation.Field)
	require.NotNil(t, violation.Existing)
	assert.Equal(t, "e-other", violation.Existing.ID)
}

func TestValidateTeacherConflictIsSymmetric(t *testing.T) {
	var v ConflictValidator

	// The mirror image of the cross-department case: editing Electrical
	// semester 2 against an existing Computer semester 4 assignment of the
	// same teacher must fail the same way.
	existing := mathEntry()
	filter, err := models.NewStudentFilter("Electrical", 2, models.ShiftMorning, "2024-25")
	require.NoError(t, err)

	candidate := validCandidate()
	candidate.Room = "205"

	result := v.Validate(candidate, "MONDAY", "9:30-10:15", filter, []models.TimetableEntry{existing})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationTeacherConflict, result.Violations[0].Kind)
}

func TestValidateUnassignedTeacherNeverConflicts(t *testing.T) {
	var v ConflictValidator

	tba := otherDeptEntry()
	tba.TeacherID = ""
	tba.TeacherName = ""
	tba.Room = "205"

	candidate := validCandidate()
	candidate.TeacherID = ""
	candidate.Teacher = ""

	result := v.Validate(candidate, "MONDAY", "9:30-10:15", studentFilter(t), []models.TimetableEntry{tba})
	assert.True(t, result.OK(), "two TBA slots must not conflict: %v", result.Violations)
}

func TestValidateRoomConflictWithinShift(t *testing.T) {
	var v ConflictValidator

	existing := otherDeptEntry()
	existing.TeacherID = "T7"
	existing.Room = "r-101"

	candidate := validCandidate()
	candidate.Room = "R-101" // room comparison is case-insensitive

	result := v.Validate(candidate, "MONDAY", "9:30-10:15", studentFilter(t), []models.TimetableEntry{existing})
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationRoomConflict, result.Violations[0].Kind)
	assert.Equal(t, "room", result.Violations[0].Field)
}

func TestValidateRoomAcrossShiftsDoesNotConflict(t *testing.T) {
	var v ConflictValidator

	existing := otherDeptEntry()
	existing.TeacherID = "T7"
	existing.Shift = models.ShiftDay
	existing.Room = "101"

	result := v.Validate(validCandidate(), "MONDAY", "9:30-10:15", studentFilter(t), []models.TimetableEntry{existing})
	assert.True(t, result.OK(), "different shifts occupy the room at different hours: %v", result.Violations)
}

func TestValidateReplacedEntryIsExempt(t *testing.T) {
	var v ConflictValidator

	// Re-saving a cell with its own previous teacher and room must not
	// conflict with itself.
	existing := mathEntry()
	candidate := existing.Slot()

	result := v.Validate(candidate, "MONDAY", "9:30-10:15", studentFilter(t), []models.TimetableEntry{existing})
	assert.True(t, result.OK(), "a cell conflicts with its own previous value: %v", result.Violations)
}

func TestValidateInactiveEntriesIgnored(t *testing.T) {
	var v ConflictValidator

	existing := otherDeptEntry()
	existing.IsActive = false

	result := v.Validate(validCandidate(), "MONDAY", "9:30-10:15", studentFilter(t), []models.TimetableEntry{existing})
	assert.True(t, result.OK())
}

func TestValidateFieldRules(t *testing.T) {
	var v ConflictValidator

	tests := []struct {
		name      string
		mutate    func(*models.ClassSlot)
		wantField string
	}{
		{"subject too short", func(s *models.ClassSlot) { s.Subject = "M" }, "subject"},
		{"missing subject code", func(s *models.ClassSlot) { s.SubjectCode = "" }, "subject_code"},
		{"lab without lab name", func(s *models.ClassSlot) { s.ClassType = models.ClassTypeLab; s.LabName = "" }, "lab_name"},
		{"room too long", func(s *models.ClassSlot) { s.Room = strings51() }, "room"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validCandidate()
			tt.mutate(&candidate)

			result := v.Validate(candidate, "MONDAY", "9:30-10:15", studentFilter(t), nil)
			require.Len(t, result.Violations, 1)
			assert.Equal(t, models.ViolationFieldInvalid, result.Violations[0].Kind)
			assert.Equal(t, tt.wantField, result.Violations[0].Field)
		})
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	var v ConflictValidator

	candidate := validCandidate()
	candidate.SubjectCode = "" // field violation
	existing := otherDeptEntry()
	existing.Room = "101" // room violation, plus teacher violation via T1

	result := v.Validate(candidate, "MONDAY", "9:30-10:15", studentFilter(t), []models.TimetableEntry{existing})
	kinds := violationKinds(result)
	assert.Contains(t, kinds, models.ViolationFieldInvalid)
	assert.Contains(t, kinds, models.ViolationRoomConflict)
	assert.Contains(t, kinds, models.ViolationTeacherConflict)
	assert.Len(t, kinds, 3)
}

func strings51() string {
	out := make([]byte, roomMaxLen+1)
	for i := range out {
		out[i] = 'A'
	}
	return string(out)
}
