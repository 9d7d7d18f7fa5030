package service

import (
	"github.com/noah-isme/poly-routine-api/internal/models"
)

// BuildEmptyGrid returns a grid where every (day, slot) combination maps to
// an empty cell. Used as the initial and reset state.
func BuildEmptyGrid(slots []string) models.RoutineGrid {
	grid := make(models.RoutineGrid)
	for _, day := range models.DaysOfWeek() {
		row := make(map[string]models.ClassSlot, len(slots))
		for _, slot := range slots {
			row[slot] = models.ClassSlot{}
		}
		grid[day] = row
	}
	return grid
}

// EntriesToGrid places each entry's class slot at its (day, slot) cell.
// Entries whose time slot is not in the catalog belong to a different
// shift's grid and are dropped. When two entries target the same cell the
// last one encountered wins; this is a deliberate recovery policy for
// upstream data-integrity faults, not an error.
func EntriesToGrid(entries []models.TimetableEntry, slots []string) models.RoutineGrid {
	grid := BuildEmptyGrid(slots)
	known := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		known[slot] = struct{}{}
	}
	for _, entry := range entries {
		if !models.ValidDay(entry.DayOfWeek) {
			continue
		}
		if _, ok := known[entry.TimeSlot]; !ok {
			continue
		}
		grid.SetCell(entry.DayOfWeek, entry.TimeSlot, entry.Slot())
	}
	return grid
}
