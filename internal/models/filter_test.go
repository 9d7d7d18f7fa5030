package models

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudentFilterValidation(t *testing.T) {
	tests := []struct {
		name       string
		department string
		semester   int
		shift      Shift
		session    string
		wantErr    bool
	}{
		{"valid", "Computer", 4, ShiftMorning, "2024-25", false},
		{"valid evening", "Computer", 1, ShiftEvening, "2024-25", false},
		{"missing department", "", 4, ShiftMorning, "2024-25", true},
		{"whitespace department", "   ", 4, ShiftMorning, "2024-25", true},
		{"semester too low", "Computer", 0, ShiftMorning, "2024-25", true},
		{"semester too high", "Computer", 9, ShiftMorning, "2024-25", true},
		{"unknown shift", "Computer", 4, Shift("NIGHT"), "2024-25", true},
		{"missing session", "Computer", 4, ShiftMorning, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewStudentFilter(tt.department, tt.semester, tt.shift, tt.session)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ViewStudent, filter.Mode)
		})
	}
}

func TestNewTeacherFilterValidation(t *testing.T) {
	_, err := NewTeacherFilter("", ShiftMorning, "2024-25", "", 0)
	assert.Error(t, err)

	_, err = NewTeacherFilter("T1", Shift("NIGHT"), "2024-25", "", 0)
	assert.Error(t, err)

	_, err = NewTeacherFilter("T1", ShiftMorning, "", "", 0)
	assert.Error(t, err)

	_, err = NewTeacherFilter("T1", ShiftMorning, "2024-25", "Computer", 12)
	assert.Error(t, err)

	filter, err := NewTeacherFilter("T1", ShiftMorning, "2024-25", "", 0)
	require.NoError(t, err)
	assert.Equal(t, ViewTeacher, filter.Mode)
	assert.Equal(t, "T1", filter.TeacherID)
}

func TestCacheKeyIsCanonical(t *testing.T) {
	student, err := NewStudentFilter("Computer", 4, ShiftMorning, "2024-25")
	require.NoError(t, err)
	assert.Equal(t,
		"routine:v1:dept=Computer:sem=4:shift=MORNING:session=2024-25:teacher=-",
		student.CacheKey(),
	)

	teacher, err := NewTeacherFilter("T1", ShiftDay, "2024-25", "", 0)
	require.NoError(t, err)
	assert.Equal(t,
		"routine:v1:dept=-:sem=-:shift=DAY:session=2024-25:teacher=T1",
		teacher.CacheKey(),
	)

	// Identical field sets yield identical keys.
	again, err := NewStudentFilter(" Computer ", 4, ShiftMorning, " 2024-25 ")
	require.NoError(t, err)
	assert.Equal(t, student.CacheKey(), again.CacheKey())
}

func TestCacheKeyEscapesSeparator(t *testing.T) {
	filter, err := NewStudentFilter("Computer", 4, ShiftMorning, "2024:25")
	require.NoError(t, err)
	assert.Equal(t,
		"routine:v1:dept=Computer:sem=4:shift=MORNING:session=2024_25:teacher=-",
		filter.CacheKey(),
	)
}

func TestPartialFilterPattern(t *testing.T) {
	assert.Equal(t,
		"routine:v1:dept=*:sem=*:shift=*:session=*:teacher=T1",
		PartialFilter{TeacherID: "T1"}.Pattern(),
	)
	assert.Equal(t,
		"routine:v1:dept=Computer:sem=4:shift=*:session=2024-25:teacher=*",
		PartialFilter{Department: "Computer", Semester: 4, Session: "2024-25"}.Pattern(),
	)
}

func TestPartialFilterPatternMatchesSubsetKeys(t *testing.T) {
	student, err := NewStudentFilter("Computer", 4, ShiftMorning, "2024-25")
	require.NoError(t, err)
	teacher, err := NewTeacherFilter("T1", ShiftMorning, "2024-25", "", 0)
	require.NoError(t, err)

	classPattern := PartialFilter{Department: "Computer", Semester: 4, Session: "2024-25"}.Pattern()
	ok, err := path.Match(classPattern, student.CacheKey())
	require.NoError(t, err)
	assert.True(t, ok, "class pattern must match the student view key")

	ok, err = path.Match(classPattern, teacher.CacheKey())
	require.NoError(t, err)
	assert.False(t, ok, "class pattern must not match an unrelated teacher view key")

	teacherPattern := PartialFilter{TeacherID: "T1"}.Pattern()
	ok, err = path.Match(teacherPattern, teacher.CacheKey())
	require.NoError(t, err)
	assert.True(t, ok)

	otherSemester, err := NewStudentFilter("Computer", 5, ShiftMorning, "2024-25")
	require.NoError(t, err)
	ok, err = path.Match(classPattern, otherSemester.CacheKey())
	require.NoError(t, err)
	assert.False(t, ok, "a different semester must survive the eviction")
}
