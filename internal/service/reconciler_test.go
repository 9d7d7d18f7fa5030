package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/poly-routine-api/internal/models"
)

func studentFilter(t *testing.T) models.FilterContext {
	t.Helper()
	filter, err := models.NewStudentFilter("Computer", 4, models.ShiftMorning, "2024-25")
	require.NoError(t, err)
	return filter
}

func mathEntry() models.TimetableEntry {
	return models.TimetableEntry{
		ID:          "e-math",
		Department:  "Computer",
		Semester:    4,
		Shift:       models.ShiftMorning,
		Session:     "2024-25",
		DayOfWeek:   "MONDAY",
		TimeSlot:    "9:30-10:15",
		SubjectName: "Mathematics",
		SubjectCode: "MATH-101",
		ClassType:   models.ClassTypeTheory,
		TeacherID:   "T1",
		TeacherName: "A. Rahman",
		Room:        "101",
		IsActive:    true,
	}
}

func TestReconcileNoChangesIsEmpty(t *testing.T) {
	filter := studentFilter(t)
	original := []models.TimetableEntry{mathEntry()}
	edited := EntriesToGrid(original, models.SlotsFor(filter.Shift))

	ops := Reconcile(edited, original, filter)
	assert.Empty(t, ops)
}

func TestReconcileFillEmptyCellEmitsSingleCreate(t *testing.T) {
	filter := studentFilter(t)
	edited := BuildEmptyGrid(models.SlotsFor(filter.Shift))
	edited.SetCell("MONDAY", "9:30-10:15", models.ClassSlot{
		Subject:     "Mathematics",
		SubjectCode: "MATH-101",
		ClassType:   models.ClassTypeTheory,
		TeacherID:   "T1",
		Teacher:     "A. Rahman",
		Room:        "101",
	})

	ops := Reconcile(edited, nil, filter)
	require.Len(t, ops, 1)
	op := ops[0]
	assert.Equal(t, models.OpCreate, op.Kind)
	assert.Equal(t, "MONDAY", op.Day)
	assert.Equal(t, "9:30-10:15", op.TimeSlot)
	require.NotNil(t, op.Entry)
	assert.Empty(t, op.Entry.ID)
	assert.Equal(t, "Computer", op.Entry.Department)
	assert.Equal(t, 4, op.Entry.Semester)
	assert.Equal(t, models.ShiftMorning, op.Entry.Shift)
	assert.Equal(t, "2024-25", op.Entry.Session)
	assert.Equal(t, "MATH-101", op.Entry.SubjectCode)
	assert.Equal(t, "T1", op.Entry.TeacherID)
	assert.True(t, op.Entry.IsActive)
}

func TestReconcileRoomOnlyChangeEmitsSparseUpdate(t *testing.T) {
	filter := studentFilter(t)
	original := []models.TimetableEntry{mathEntry()}
	edited := EntriesToGrid(original, models.SlotsFor(filter.Shift))

	cell := edited.Cell("MONDAY", "9:30-10:15")
	cell.Room = "102"
	edited.SetCell("MONDAY", "9:30-10:15", cell)

	ops := Reconcile(edited, original, filter)
	require.Len(t, ops, 1)
	op := ops[0]
	assert.Equal(t, models.OpUpdate, op.Kind)
	assert.Equal(t, "e-math", op.EntryID)
	require.NotNil(t, op.Patch)
	require.NotNil(t, op.Patch.Room)
	assert.Equal(t, "102", *op.Patch.Room)
	assert.Nil(t, op.Patch.SubjectName)
	assert.Nil(t, op.Patch.SubjectCode)
	assert.Nil(t, op.Patch.ClassType)
	assert.Nil(t, op.Patch.LabName)
	assert.Nil(t, op.Patch.TeacherID)
	assert.Nil(t, op.Patch.TeacherName)
}

func TestReconcileClearedCellEmitsDelete(t *testing.T) {
	filter := studentFilter(t)
	original := []models.TimetableEntry{mathEntry()}
	edited := EntriesToGrid(original, models.SlotsFor(filter.Shift))
	edited.ClearCell("MONDAY", "9:30-10:15")

	ops := Reconcile(edited, original, filter)
	require.Len(t, ops, 1)
	assert.Equal(t, models.OpDelete, ops[0].Kind)
	assert.Equal(t, "e-math", ops[0].EntryID)
}

func TestReconcileOrdersDeletesUpdatesCreates(t *testing.T) {
	filter := studentFilter(t)
	toDelete := mathEntry()
	toUpdate := mathEntry()
	toUpdate.ID = "e-phy"
	toUpdate.DayOfWeek = "TUESDAY"
	toUpdate.TimeSlot = "8:00-8:45"
	toUpdate.SubjectName = "Physics"
	toUpdate.SubjectCode = "PHY-101"
	toUpdate.TeacherID = "T2"
	original := []models.TimetableEntry{toDelete, toUpdate}

	edited := EntriesToGrid(original, models.SlotsFor(filter.Shift))
	edited.ClearCell("MONDAY", "9:30-10:15")
	cell := edited.Cell("TUESDAY", "8:00-8:45")
	cell.Room = "Lab-2"
	edited.SetCell("TUESDAY", "8:00-8:45", cell)
	edited.SetCell("SATURDAY", "8:45-9:30", models.ClassSlot{
		Subject:     "Chemistry",
		SubjectCode: "CHEM-101",
		ClassType:   models.ClassTypeTheory,
	})

	ops := Reconcile(edited, original, filter)
	require.Len(t, ops, 3)
	assert.Equal(t, models.OpDelete, ops[0].Kind)
	assert.Equal(t, models.OpUpdate, ops[1].Kind)
	assert.Equal(t, models.OpCreate, ops[2].Kind)
}

func TestReconcileIsDeterministic(t *testing.T) {
	filter := studentFilter(t)
	original := []models.TimetableEntry{mathEntry()}
	edited := EntriesToGrid(original, models.SlotsFor(filter.Shift))
	edited.ClearCell("MONDAY", "9:30-10:15")
	edited.SetCell("WEDNESDAY", "11:00-11:45", models.ClassSlot{
		Subject: "Electronics", SubjectCode: "ELX-201", ClassType: models.ClassTypeTheory,
	})
	edited.SetCell("SATURDAY", "8:00-8:45", models.ClassSlot{
		Subject: "Drawing", SubjectCode: "DRW-101", ClassType: models.ClassTypeTheory,
	})

	first := Reconcile(edited, original, filter)
	second := Reconcile(edited, original, filter)
	assert.Equal(t, first, second)
}

func TestReconcileRoundTripAgainstEmptyBaseline(t *testing.T) {
	filter := studentFilter(t)
	slots := models.SlotsFor(filter.Shift)

	grid := BuildEmptyGrid(slots)
	grid.SetCell("MONDAY", "9:30-10:15", models.ClassSlot{
		Subject: "Mathematics", SubjectCode: "MATH-101", ClassType: models.ClassTypeTheory,
		TeacherID: "T1", Teacher: "A. Rahman", Room: "101",
	})
	grid.SetCell("TUESDAY", "12:30-1:15", models.ClassSlot{
		Subject: "Programming Lab", SubjectCode: "CSE-204", ClassType: models.ClassTypeLab,
		LabName: "Software Lab", TeacherID: "T2", Teacher: "S. Akter", Room: "Lab-1",
	})

	ops := Reconcile(grid, nil, filter)
	require.Len(t, ops, 2)

	var entries []models.TimetableEntry
	for _, op := range ops {
		require.Equal(t, models.OpCreate, op.Kind)
		entries = append(entries, *op.Entry)
	}

	rebuilt := EntriesToGrid(entries, slots)
	assert.Equal(t, grid, rebuilt)
}

func TestReconcileEveningShiftHasNothingToDo(t *testing.T) {
	filter, err := models.NewStudentFilter("Computer", 4, models.ShiftEvening, "2024-25")
	require.NoError(t, err)

	edited := BuildEmptyGrid(models.SlotsFor(filter.Shift))
	// Cells outside the (empty) catalog are ignored entirely.
	edited.SetCell("MONDAY", "9:30-10:15", models.ClassSlot{Subject: "Mathematics", SubjectCode: "MATH-101"})

	ops := Reconcile(edited, nil, filter)
	assert.Empty(t, ops)
}
