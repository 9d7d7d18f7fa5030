package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysOfWeekOrder(t *testing.T) {
	assert.Equal(t, []string{"SATURDAY", "SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY"}, DaysOfWeek())
}

func TestDaysOfWeekReturnsCopy(t *testing.T) {
	days := DaysOfWeek()
	days[0] = "FRIDAY"
	assert.Equal(t, "SATURDAY", DaysOfWeek()[0])
}

func TestSlotsForCatalog(t *testing.T) {
	morning := SlotsFor(ShiftMorning)
	require.Len(t, morning, 7)
	assert.Equal(t, "8:00-8:45", morning[0])
	assert.Equal(t, "12:30-1:15", morning[6])

	day := SlotsFor(ShiftDay)
	require.Len(t, day, 7)
	assert.Equal(t, "1:30-2:15", day[0])
	assert.Equal(t, "6:00-6:45", day[6])

	assert.Empty(t, SlotsFor(ShiftEvening))
	assert.Empty(t, SlotsFor(Shift("NIGHT")))
}

func TestSlotsForReturnsCopy(t *testing.T) {
	slots := SlotsFor(ShiftMorning)
	slots[0] = "7:00-7:45"
	assert.Equal(t, "8:00-8:45", SlotsFor(ShiftMorning)[0])
}

func TestValidShift(t *testing.T) {
	assert.True(t, ValidShift(ShiftMorning))
	assert.True(t, ValidShift(ShiftDay))
	assert.True(t, ValidShift(ShiftEvening))
	assert.False(t, ValidShift(Shift("NIGHT")))
	assert.False(t, ValidShift(Shift("")))
}

func TestValidDay(t *testing.T) {
	assert.True(t, ValidDay("SATURDAY"))
	assert.True(t, ValidDay("WEDNESDAY"))
	assert.False(t, ValidDay("THURSDAY"))
	assert.False(t, ValidDay("FRIDAY"))
	assert.False(t, ValidDay("monday"))
}

func TestEntrySlotProjection(t *testing.T) {
	entry := TimetableEntry{
		SubjectName: "Programming Lab",
		SubjectCode: "CSE-204",
		ClassType:   ClassTypeLab,
		LabName:     "Software Lab",
		TeacherID:   "T2",
		TeacherName: "S. Akter",
		Room:        "Lab-1",
	}
	slot := entry.Slot()
	assert.Equal(t, "Programming Lab", slot.Subject)
	assert.Equal(t, "CSE-204", slot.SubjectCode)
	assert.Equal(t, ClassTypeLab, slot.ClassType)
	assert.Equal(t, "Software Lab", slot.LabName)
	assert.Equal(t, "T2", slot.TeacherID)
	assert.Equal(t, "S. Akter", slot.Teacher)
	assert.Equal(t, "Lab-1", slot.Room)
	assert.False(t, slot.IsEmpty())
}

func TestEntryPatchIsZero(t *testing.T) {
	assert.True(t, EntryPatch{}.IsZero())
	room := "102"
	assert.False(t, EntryPatch{Room: &room}.IsZero())
}

func TestGridCellHelpers(t *testing.T) {
	grid := RoutineGrid{}
	assert.True(t, grid.Cell("MONDAY", "8:00-8:45").IsEmpty())

	grid.SetCell("MONDAY", "8:00-8:45", ClassSlot{Subject: "Mathematics", SubjectCode: "MATH-101"})
	assert.Equal(t, "Mathematics", grid.Cell("MONDAY", "8:00-8:45").Subject)

	clone := grid.Clone()
	clone.ClearCell("MONDAY", "8:00-8:45")
	assert.True(t, clone.Cell("MONDAY", "8:00-8:45").IsEmpty())
	assert.Equal(t, "Mathematics", grid.Cell("MONDAY", "8:00-8:45").Subject, "clone must not alias the source")
}
