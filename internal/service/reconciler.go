package service

import (
	"github.com/noah-isme/poly-routine-api/internal/models"
)

// Reconcile diffs an edited grid against the grid derived from the original
// entries and returns the operations that transform one into the other.
// Deletes come first, then updates, then creates: a delete and a create at
// the same physical (room, day, slot) under different departments must not
// trip an order-sensitive conflict check downstream.
//
// Reconcile is a pure function of its inputs: the full day×slot space is
// walked in catalog order, so identical inputs always yield the same
// operation list.
func Reconcile(edited models.RoutineGrid, original []models.TimetableEntry, filter models.FilterContext) []models.Operation {
	slots := models.SlotsFor(filter.Shift)
	originalGrid := EntriesToGrid(original, slots)
	byCell := indexByCell(original, slots)

	var deletes, updates, creates []models.Operation

	for _, day := range models.DaysOfWeek() {
		for _, slot := range slots {
			before := originalGrid.Cell(day, slot)
			after := edited.Cell(day, slot)

			switch {
			case before.IsEmpty() && !after.IsEmpty():
				creates = append(creates, models.Operation{
					Kind:     models.OpCreate,
					Entry:    materializeEntry(after, filter, day, slot),
					Day:      day,
					TimeSlot: slot,
				})
			case !before.IsEmpty() && after.IsEmpty():
				deletes = append(deletes, models.Operation{
					Kind:     models.OpDelete,
					EntryID:  byCell[cellKey{day, slot}].ID,
					Day:      day,
					TimeSlot: slot,
				})
			case !before.IsEmpty() && before != after:
				updates = append(updates, models.Operation{
					Kind:     models.OpUpdate,
					EntryID:  byCell[cellKey{day, slot}].ID,
					Patch:    diffSlots(before, after),
					Day:      day,
					TimeSlot: slot,
				})
			}
		}
	}

	ops := make([]models.Operation, 0, len(deletes)+len(updates)+len(creates))
	ops = append(ops, deletes...)
	ops = append(ops, updates...)
	ops = append(ops, creates...)
	return ops
}

type cellKey struct {
	day  string
	slot string
}

// indexByCell correlates each occupied grid cell with its source entry. The
// last entry encountered wins, mirroring the codec's duplicate policy so an
// update or delete always targets the entry that is actually displayed.
func indexByCell(entries []models.TimetableEntry, slots []string) map[cellKey]models.TimetableEntry {
	known := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		known[slot] = struct{}{}
	}
	index := make(map[cellKey]models.TimetableEntry, len(entries))
	for _, entry := range entries {
		if !models.ValidDay(entry.DayOfWeek) {
			continue
		}
		if _, ok := known[entry.TimeSlot]; !ok {
			continue
		}
		index[cellKey{entry.DayOfWeek, entry.TimeSlot}] = entry
	}
	return index
}

// materializeEntry builds a new entry from the filter context plus the cell
// payload. The id stays empty; the persistence layer assigns it.
func materializeEntry(slot models.ClassSlot, filter models.FilterContext, day, timeSlot string) *models.TimetableEntry {
	return &models.TimetableEntry{
		Department:  filter.Department,
		Semester:    filter.Semester,
		Shift:       filter.Shift,
		Session:     filter.Session,
		DayOfWeek:   day,
		TimeSlot:    timeSlot,
		SubjectName: slot.Subject,
		SubjectCode: slot.SubjectCode,
		ClassType:   slot.ClassType,
		LabName:     slot.LabName,
		TeacherID:   slot.TeacherID,
		TeacherName: slot.Teacher,
		Room:        slot.Room,
		IsActive:    true,
	}
}

// diffSlots emits a sparse patch carrying only the fields that differ.
func diffSlots(before, after models.ClassSlot) *models.EntryPatch {
	patch := &models.EntryPatch{}
	if before.Subject != after.Subject {
		patch.SubjectName = strPtr(after.Subject)
	}
	if before.SubjectCode != after.SubjectCode {
		patch.SubjectCode = strPtr(after.SubjectCode)
	}
	if before.ClassType != after.ClassType {
		ct := after.ClassType
		patch.ClassType = &ct
	}
	if before.LabName != after.LabName {
		patch.LabName = strPtr(after.LabName)
	}
	if before.TeacherID != after.TeacherID {
		patch.TeacherID = strPtr(after.TeacherID)
	}
	if before.Teacher != after.Teacher {
		patch.TeacherName = strPtr(after.Teacher)
	}
	if before.Room != after.Room {
		patch.Room = strPtr(after.Room)
	}
	return patch
}

func strPtr(s string) *string {
	return &s
}
